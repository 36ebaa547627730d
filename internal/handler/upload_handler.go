package handler

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"datahealth-web/internal/config"
	"datahealth-web/internal/middleware"
	"datahealth-web/internal/models"
	"datahealth-web/internal/repository"
	"datahealth-web/internal/service"
	"datahealth-web/internal/utils"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type UploadHandler struct {
	healthCheckService *service.HealthCheckService
	excelService       *service.ExcelService
	cfg                *config.Config
}

func NewUploadHandler(
	healthCheckService *service.HealthCheckService,
	excelService *service.ExcelService,
	cfg *config.Config,
) *UploadHandler {
	return &UploadHandler{
		healthCheckService: healthCheckService,
		excelService:       excelService,
		cfg:                cfg,
	}
}

// Index renders the upload page
func (h *UploadHandler) Index(c *fiber.Ctx) error {
	return c.Render("index", fiber.Map{
		"Title": h.cfg.AppName,
	})
}

// Upload loads the posted workbook and redirects to its report
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	check, status, err := h.loadUpload(c)
	if err != nil {
		return c.Status(status).Render("index", fiber.Map{
			"Title": h.cfg.AppName,
			"Error": userMessage(err),
		})
	}

	return c.Redirect("/health-checks/"+check.Token, fiber.StatusSeeOther)
}

// Report renders the validation report of one health check
func (h *UploadHandler) Report(c *fiber.Ctx) error {
	check := middleware.HealthCheck(c)
	filter := parseCountryFilter(c)

	result, err := h.healthCheckService.Run(c.UserContext(), check, filter)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, userMessage(err))
	}

	return c.Render("report", newReportView(h.cfg.AppName, result, filter, h.cfg.PreviewRows))
}

// Export sends the error workbook of one health check
func (h *UploadHandler) Export(c *fiber.Ctx) error {
	check := middleware.HealthCheck(c)

	data, err := h.healthCheckService.Export(c.UserContext(), check, parseCountryFilter(c))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, userMessage(err))
	}

	return sendWorkbook(c, service.ReportFileName, data)
}

// DownloadTemplate sends the upload template workbook
func (h *UploadHandler) DownloadTemplate(c *fiber.Ctx) error {
	data, err := h.excelService.GeneratePartnerTemplate()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate template", err)
	}

	return sendWorkbook(c, service.TemplateFileName, data)
}

// UploadAPI loads the posted workbook and answers with the new token
func (h *UploadHandler) UploadAPI(c *fiber.Ctx) error {
	check, status, err := h.loadUpload(c)
	if err != nil {
		return utils.ErrorResponse(c, status, userMessage(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.Response{
		Success: true,
		Message: "File uploaded successfully",
		Data: fiber.Map{
			"token":     check.Token,
			"filename":  check.Filename,
			"rows":      check.Dataset.Len(),
			"columns":   check.Dataset.Columns,
			"countries": check.Dataset.Countries(),
			"loaded_at": check.LoadedAt,
		},
	})
}

// ReportAPI answers with the summary and one page of error rows
func (h *UploadHandler) ReportAPI(c *fiber.Ctx) error {
	check := middleware.HealthCheck(c)

	result, err := h.healthCheckService.Run(c.UserContext(), check, parseCountryFilter(c))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, userMessage(err), err)
	}

	params := utils.GetPaginationParams(c)
	pagination := utils.CalculatePagination(params.Page, params.Limit, len(result.Report.Rows))
	start, end := utils.PageBounds(pagination)

	rows := make([]fiber.Map, 0, end-start)
	for _, rec := range result.Report.Rows[start:end] {
		rows = append(rows, fiber.Map{
			"row":    rec.Row,
			"values": rec.Values,
			"faults": result.Report.Faults[rec.Row],
		})
	}

	return utils.SuccessResponse(c, "Health check completed", fiber.Map{
		"token":       result.Token,
		"filename":    result.Filename,
		"loaded_rows": result.LoadedRows,
		"columns":     result.Columns,
		"countries":   result.Countries,
		"selected":    result.Selected,
		"summary":     result.Report.Summary,
		"chart":       result.Chart,
		"clean":       result.Report.IsClean(),
		"rows":        rows,
		"pagination":  pagination,
	})
}

// DeleteAPI drops a health check before it expires
func (h *UploadHandler) DeleteAPI(c *fiber.Ctx) error {
	check := middleware.HealthCheck(c)

	err := h.healthCheckService.Delete(c.UserContext(), check.Token)
	if err != nil && !errors.Is(err, repository.ErrSnapshotNotFound) {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete health check", err)
	}

	return utils.SuccessResponse(c, "Health check deleted", nil)
}

func (h *UploadHandler) loadUpload(c *fiber.Ctx) (*models.HealthCheck, int, error) {
	// Get uploaded file
	file, err := c.FormFile("file")
	if err != nil {
		return nil, fiber.StatusBadRequest, &models.InputError{Message: "file is required"}
	}

	// Validate file type
	if ext := strings.ToLower(filepath.Ext(file.Filename)); ext != ".xlsx" {
		return nil, fiber.StatusBadRequest, &models.InputError{Message: "only Excel files (.xlsx) are allowed"}
	}

	// Validate file size
	if file.Size > int64(h.cfg.UploadMaxSize) {
		return nil, fiber.StatusRequestEntityTooLarge, &models.InputError{Message: "file size exceeds maximum limit"}
	}

	src, err := file.Open()
	if err != nil {
		return nil, fiber.StatusBadRequest, &models.InputError{Message: "failed to read uploaded file", Err: err}
	}
	defer src.Close()

	check, err := h.healthCheckService.Load(c.UserContext(), file.Filename, src)
	if err != nil {
		var inputErr *models.InputError
		if errors.As(err, &inputErr) {
			return nil, fiber.StatusBadRequest, err
		}
		return nil, fiber.StatusInternalServerError, err
	}

	return check, fiber.StatusOK, nil
}

// parseCountryFilter reads repeated country parameters. Without filter=1
// every country is selected.
func parseCountryFilter(c *fiber.Ctx) models.CountryFilter {
	if c.Query("filter") == "" {
		return models.CountryFilter{}
	}

	filter := models.CountryFilter{Explicit: true}
	for _, v := range c.Context().QueryArgs().PeekMulti("country") {
		filter.Countries = append(filter.Countries, string(v))
	}
	return filter
}

// filterQuery encodes a filter back into query parameters
func filterQuery(filter models.CountryFilter) string {
	if !filter.Explicit {
		return ""
	}
	values := url.Values{}
	values.Set("filter", "1")
	for _, country := range filter.Countries {
		values.Add("country", country)
	}
	return "?" + values.Encode()
}

func sendWorkbook(c *fiber.Ctx, filename string, data []byte) error {
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}

// userMessage turns a pipeline failure into the single message shown to the user
func userMessage(err error) string {
	var inputErr *models.InputError
	if errors.As(err, &inputErr) {
		return fmt.Sprintf("An error occurred during processing: %s", inputErr.Error())
	}
	var exportErr *models.ExportError
	if errors.As(err, &exportErr) {
		return "The error report could not be generated. Please try again."
	}
	return fmt.Sprintf("An error occurred during processing: %v", err)
}
