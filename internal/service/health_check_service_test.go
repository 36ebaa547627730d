package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"datahealth-web/internal/models"
	"datahealth-web/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHealthCheckService() *HealthCheckService {
	return NewHealthCheckService(
		repository.NewMemorySnapshotRepository(time.Minute),
		NewExcelService(),
		NewRuleEngine(DefaultRules(), false, newTestLogger()),
		newTestLogger(),
	)
}

func scenarioWorkbook(t *testing.T) []byte {
	return workbook(t,
		models.RequiredColumns,
		[]interface{}{"100", "Alpha Kft.", "HU", "info@alpha.hu", "12345678"},
		[]interface{}{"200", "Beta GmbH", "DE", nil, "DE1234"},
		[]interface{}{"200", "Gamma Ltd.", "GB", "info@gamma.gb", "12"},
	)
}

func TestHealthCheckScenario(t *testing.T) {
	ctx := context.Background()
	svc := newTestHealthCheckService()

	check, err := svc.Load(ctx, "partners.xlsx", bytes.NewReader(scenarioWorkbook(t)))
	require.NoError(t, err)
	require.NotEmpty(t, check.Token)

	result, err := svc.Run(ctx, check, models.CountryFilter{})
	require.NoError(t, err)

	report := result.Report
	assert.Equal(t, []int{1, 2}, rowsOf(report))
	assert.ElementsMatch(t, []string{models.ColumnEmail, models.ColumnPartnerID}, report.Faults[1])
	assert.ElementsMatch(t, []string{models.ColumnPartnerID, models.ColumnVATNumber}, report.Faults[2])

	assert.Equal(t, 3, report.Summary.Scanned)
	assert.Equal(t, 1, report.Summary.PerRule[models.RuleEmailValid])
	assert.Equal(t, 2, report.Summary.PerRule[models.RuleUniquePartnerID])
	assert.Equal(t, 1, report.Summary.PerRule[models.RuleVATMinLength])
	assert.Equal(t, 2, report.Summary.TotalErrors)

	assert.Equal(t, []models.ChartBar{
		{Label: "Invalid Email", Rule: models.RuleEmailValid, Count: 1},
		{Label: "Duplicate ID", Rule: models.RuleUniquePartnerID, Count: 2},
		{Label: "Suspicious VAT", Rule: models.RuleVATMinLength, Count: 1},
	}, result.Chart)
	assert.Equal(t, []string{"HU", "DE", "GB"}, result.Countries)
	assert.Equal(t, []string{"HU", "DE", "GB"}, result.Selected)
	assert.Equal(t, 3, result.LoadedRows)
}

func TestHealthCheckCountryFilter(t *testing.T) {
	ctx := context.Background()
	svc := newTestHealthCheckService()

	check, err := svc.Load(ctx, "partners.xlsx", bytes.NewReader(scenarioWorkbook(t)))
	require.NoError(t, err)

	filter := models.CountryFilter{Explicit: true, Countries: []string{"HU", "GB"}}
	result, err := svc.Run(ctx, check, filter)
	require.NoError(t, err)

	report := result.Report
	assert.Equal(t, 2, report.Summary.Scanned)
	assert.Equal(t, 0, report.Summary.PerRule[models.RuleUniquePartnerID])
	assert.Equal(t, 1, report.Summary.TotalErrors)
	assert.Equal(t, []int{2}, rowsOf(report))
	assert.Equal(t, []string{models.ColumnVATNumber}, report.Faults[2])
	assert.Equal(t, 3, result.LoadedRows)

	// the stored snapshot is untouched by filtering
	assert.Equal(t, 3, check.Dataset.Len())
}

func TestHealthCheckEmptySelection(t *testing.T) {
	ctx := context.Background()
	svc := newTestHealthCheckService()

	check, err := svc.Load(ctx, "partners.xlsx", bytes.NewReader(scenarioWorkbook(t)))
	require.NoError(t, err)

	result, err := svc.Run(ctx, check, models.CountryFilter{Explicit: true})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Report.Summary.Scanned)
	assert.True(t, result.Report.IsClean())
}

func TestHealthCheckExportMatchesReport(t *testing.T) {
	ctx := context.Background()
	svc := newTestHealthCheckService()

	check, err := svc.Load(ctx, "partners.xlsx", bytes.NewReader(scenarioWorkbook(t)))
	require.NoError(t, err)

	data, err := svc.Export(ctx, check, models.CountryFilter{})
	require.NoError(t, err)

	_, rows := readSheet(t, data)
	require.Len(t, rows, 3)
	assert.Equal(t, models.RequiredColumns, rows[0])
	assert.Equal(t, "Beta GmbH", rows[1][1])
	assert.Equal(t, "Gamma Ltd.", rows[2][1])
}

func TestHealthCheckLoadRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	svc := newTestHealthCheckService()

	data := workbook(t, []string{"Partner_ID", "Email"})
	_, err := svc.Load(ctx, "broken.xlsx", bytes.NewReader(data))

	var inputErr *models.InputError
	require.True(t, errors.As(err, &inputErr))
}

func TestHealthCheckReuploadReplacesSnapshot(t *testing.T) {
	ctx := context.Background()
	svc := newTestHealthCheckService()

	first, err := svc.Load(ctx, "a.xlsx", bytes.NewReader(scenarioWorkbook(t)))
	require.NoError(t, err)
	second, err := svc.Load(ctx, "b.xlsx", bytes.NewReader(workbook(t, models.RequiredColumns)))
	require.NoError(t, err)

	assert.NotEqual(t, first.Token, second.Token)

	got, err := svc.Get(ctx, second.Token)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Dataset.Len())

	require.NoError(t, svc.Delete(ctx, first.Token))
	_, err = svc.Get(ctx, first.Token)
	assert.ErrorIs(t, err, repository.ErrSnapshotNotFound)
}
