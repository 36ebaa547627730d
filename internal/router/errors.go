package router

import (
	"errors"
	"strings"

	"datahealth-web/internal/models"
	"datahealth-web/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler answers API routes with the JSON envelope and web routes
// with the error page.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fiberErr *fiber.Error
	var inputErr *models.InputError
	switch {
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	case errors.As(err, &inputErr):
		code = fiber.StatusBadRequest
		message = inputErr.Error()
	}

	if code >= fiber.StatusInternalServerError {
		utils.GetLogger().WithError(err).WithField("path", c.Path()).Error("Request failed")
	}

	if wantsJSON(c) {
		return c.Status(code).JSON(utils.Response{
			Success: false,
			Message: message,
			Error:   err.Error(),
		})
	}

	// Return HTML error page
	return c.Status(code).Render("error", fiber.Map{
		"Title":   "Error",
		"Code":    code,
		"Message": message,
	})
}

func wantsJSON(c *fiber.Ctx) bool {
	if strings.HasPrefix(c.Path(), "/api/") {
		return true
	}
	return c.Accepts("text/html", "application/json") == "application/json"
}
