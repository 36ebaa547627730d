package service

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"datahealth-web/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	ErrorSheetName     = "Validation_Errors"
	TemplateSheetName  = "Partners"
	ReportFileName     = "Data_Quality_Report.xlsx"
	TemplateFileName   = "Partner_Template.xlsx"
	faultFillColor     = "#FF4B4B"
	headerFillColor    = "#E0E0E0"
	defaultColumnWidth = 20
	maxNumericDigits   = 15
)

type ExcelService struct{}

func NewExcelService() *ExcelService {
	return &ExcelService{}
}

// ParsePartnerFile reads the first sheet of a workbook into a dataset. The
// header row locates the required columns by name; other columns are kept
// as they are.
func (s *ExcelService) ParsePartnerFile(r io.Reader) (*models.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &models.InputError{Message: "failed to open Excel file", Err: err}
	}
	defer f.Close()

	// Get first sheet
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &models.InputError{Message: "no sheets found in Excel file"}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &models.InputError{Message: "failed to read rows", Err: err}
	}

	if len(rows) == 0 {
		return nil, &models.InputError{Message: "file must contain a header row"}
	}

	// Validate header
	columns := make([]string, len(rows[0]))
	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		name = strings.TrimSpace(name)
		columns[i] = name
		if _, dup := index[name]; !dup && name != "" {
			index[name] = i
		}
	}

	var missing []string
	for _, name := range models.RequiredColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &models.InputError{
			Message: fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")),
		}
	}

	ds := &models.Dataset{
		Columns: columns,
		Records: make([]models.Record, 0, len(rows)-1),
	}

	// Parse data rows
	for i := 1; i < len(rows); i++ {
		row := rows[i]

		// Skip completely empty rows
		if isBlankRow(row) {
			continue
		}

		values := make([]string, len(columns))
		copy(values, row)

		ds.Records = append(ds.Records, models.Record{
			Row:         len(ds.Records),
			PartnerID:   getCellValue(values, index[models.ColumnPartnerID]),
			CompanyName: getCellValue(values, index[models.ColumnCompanyName]),
			Country:     getCellValue(values, index[models.ColumnCountry]),
			Email:       getCellValue(values, index[models.ColumnEmail]),
			VATNumber:   getCellValue(values, index[models.ColumnVATNumber]),
			Values:      values,
		})
	}

	return ds, nil
}

// ExportErrorRows writes the error rows to a single sheet workbook with the
// input columns in input order. At-fault cells are filled red.
func (s *ExcelService) ExportErrorRows(columns []string, report *models.ErrorReport) ([]byte, error) {
	data, err := s.exportErrorRows(columns, report)
	if err != nil {
		return nil, &models.ExportError{Err: err}
	}
	return data, nil
}

func (s *ExcelService) exportErrorRows(columns []string, report *models.ErrorReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ErrorSheetName); err != nil {
		return nil, err
	}
	sheetName := ErrorSheetName

	// Write headers
	for i, header := range columns {
		cell := fmt.Sprintf("%s1", getColumnName(i))
		if err := f.SetCellStr(sheetName, cell, header); err != nil {
			return nil, err
		}
	}

	if len(columns) > 0 {
		headerStyle, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true},
			Fill: excelize.Fill{Type: "pattern", Color: []string{headerFillColor}, Pattern: 1},
		})
		if err != nil {
			return nil, err
		}
		last := fmt.Sprintf("%s1", getColumnName(len(columns)-1))
		if err := f.SetCellStyle(sheetName, "A1", last, headerStyle); err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheetName, "A", getColumnName(len(columns)-1), defaultColumnWidth); err != nil {
			return nil, err
		}
	}

	faultStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{faultFillColor}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	// Write data
	for rowIdx, rec := range report.Rows {
		row := rowIdx + 2
		for colIdx := range columns {
			cell := fmt.Sprintf("%s%d", getColumnName(colIdx), row)
			if err := setCellTyped(f, sheetName, cell, getCellValue(rec.Values, colIdx)); err != nil {
				return nil, err
			}
			if report.IsFault(rec.Row, columns[colIdx]) {
				if err := f.SetCellStyle(sheetName, cell, cell, faultStyle); err != nil {
					return nil, err
				}
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GeneratePartnerTemplate creates an upload workbook with the required
// header row and a few sample partners.
func (s *ExcelService) GeneratePartnerTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := TemplateSheetName
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	for i, header := range models.RequiredColumns {
		cell := fmt.Sprintf("%s1", getColumnName(i))
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{headerFillColor}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", getColumnName(len(models.RequiredColumns)-1)), headerStyle)

	// Add sample data
	sampleData := [][]interface{}{
		{"10000", "Alpha Solutions Kft.", "HU", "info@alpha.hu", "12345678"},
		{"10001", "Global Logistics GmbH", "DE", "info@global.de", "DE123456789"},
		{"10002", "Prime Consulting Inc.", "US", "info@prime.com", "654321"},
	}
	for rowIdx, rowData := range sampleData {
		row := rowIdx + 2
		for colIdx, value := range rowData {
			cell := fmt.Sprintf("%s%d", getColumnName(colIdx), row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 30)
	f.SetColWidth(sheetName, "C", "C", 10)
	f.SetColWidth(sheetName, "D", "D", 30)
	f.SetColWidth(sheetName, "E", "E", 18)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Helper functions

// setCellTyped writes numbers as numeric cells and everything else as text.
// A value is only numeric when formatting it back gives the same text, so
// leading zeros and mixed codes like DE1234 stay strings. Values longer
// than Excel's 15 significant digits stay strings as well.
func setCellTyped(f *excelize.File, sheet, cell, value string) error {
	if len(strings.TrimLeft(value, "-")) > maxNumericDigits {
		return f.SetCellStr(sheet, cell, value)
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil && strconv.FormatInt(n, 10) == value {
		return f.SetCellInt(sheet, cell, int(n))
	}
	if v, err := strconv.ParseFloat(value, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) &&
		strconv.FormatFloat(v, 'f', -1, 64) == value {
		return f.SetCellFloat(sheet, cell, v, -1, 64)
	}
	return f.SetCellStr(sheet, cell, value)
}

func getCellValue(row []string, index int) string {
	if index < len(row) {
		return row[index]
	}
	return ""
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func getColumnName(index int) string {
	result := ""
	for index >= 0 {
		result = string(rune('A'+(index%26))) + result
		index = index/26 - 1
	}
	return result
}
