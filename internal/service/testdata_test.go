package service

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"datahealth-web/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// record builds a record laid out as models.RequiredColumns
func record(row int, id, company, country, email, vat string) models.Record {
	return models.Record{
		Row:         row,
		PartnerID:   id,
		CompanyName: company,
		Country:     country,
		Email:       email,
		VATNumber:   vat,
		Values:      []string{id, company, country, email, vat},
	}
}

func dataset(records ...models.Record) *models.Dataset {
	return &models.Dataset{
		Columns: models.RequiredColumns,
		Records: records,
	}
}

// scenarioDataset is the three row dataset: A clean, B with an empty email
// sharing its ID with C, C with a two character VAT number.
func scenarioDataset() *models.Dataset {
	return dataset(
		record(0, "100", "Alpha Kft.", "HU", "info@alpha.hu", "12345678"),
		record(1, "200", "Beta GmbH", "DE", "", "DE1234"),
		record(2, "200", "Gamma Ltd.", "GB", "info@gamma.gb", "12"),
	)
}

// workbook builds an xlsx file in memory from a header and rows
func workbook(t *testing.T, header []string, rows ...[]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	for i, h := range header {
		require.NoError(t, f.SetCellValue(sheet, fmt.Sprintf("%s1", getColumnName(i)), h))
	}
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			require.NoError(t, f.SetCellValue(sheet, fmt.Sprintf("%s%d", getColumnName(c), r+2), v))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func readSheet(t *testing.T, data []byte) (*excelize.File, [][]string) {
	t.Helper()

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	sheets := f.GetSheetList()
	require.NotEmpty(t, sheets)
	rows, err := f.GetRows(sheets[0])
	require.NoError(t, err)
	return f, rows
}
