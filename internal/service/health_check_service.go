package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"datahealth-web/internal/models"
	"datahealth-web/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// HealthCheckService runs the validation pipeline: an upload becomes a
// stored snapshot, and each request validates one filtered view of it.
type HealthCheckService struct {
	snapshots    repository.SnapshotRepository
	excelService *ExcelService
	engine       *RuleEngine
	logger       *logrus.Logger
	now          func() time.Time
}

func NewHealthCheckService(
	snapshots repository.SnapshotRepository,
	excelService *ExcelService,
	engine *RuleEngine,
	logger *logrus.Logger,
) *HealthCheckService {
	return &HealthCheckService{
		snapshots:    snapshots,
		excelService: excelService,
		engine:       engine,
		logger:       logger,
		now:          time.Now,
	}
}

// Load parses an uploaded workbook and stores it as a new health check
func (s *HealthCheckService) Load(ctx context.Context, filename string, r io.Reader) (*models.HealthCheck, error) {
	ds, err := s.excelService.ParsePartnerFile(r)
	if err != nil {
		s.logger.WithError(err).WithField("filename", filename).Warn("Rejected upload")
		return nil, err
	}

	check := &models.HealthCheck{
		Token:    uuid.New().String(),
		Filename: filename,
		Dataset:  ds,
		LoadedAt: s.now(),
	}
	if err := s.snapshots.Save(ctx, check); err != nil {
		return nil, fmt.Errorf("failed to save health check: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"token":    check.Token,
		"filename": filename,
		"rows":     ds.Len(),
		"columns":  len(ds.Columns),
	}).Info("Dataset loaded")

	return check, nil
}

// Get returns the stored health check for a token
func (s *HealthCheckService) Get(ctx context.Context, token string) (*models.HealthCheck, error) {
	return s.snapshots.Get(ctx, token)
}

// Delete drops a stored health check before it expires
func (s *HealthCheckService) Delete(ctx context.Context, token string) error {
	return s.snapshots.Delete(ctx, token)
}

// Run validates the filtered view of a health check. Counters, chart and
// error rows of the result all come from that one view.
func (s *HealthCheckService) Run(ctx context.Context, check *models.HealthCheck, filter models.CountryFilter) (*models.Result, error) {
	start := s.now()
	view := filter.Apply(check.Dataset)

	report, violations, err := s.validate(ctx, view)
	if err != nil {
		return nil, err
	}

	result := &models.Result{
		Token:       check.Token,
		Filename:    check.Filename,
		LoadedRows:  check.Dataset.Len(),
		Columns:     view.Columns,
		Countries:   check.Dataset.Countries(),
		Selected:    filter.Selected(check.Dataset),
		Violations:  violations,
		Report:      report,
		Chart:       s.chart(report.Summary),
		ProcessedAt: s.now(),
	}
	result.Duration = result.ProcessedAt.Sub(start)

	s.logger.WithFields(logrus.Fields{
		"token":        check.Token,
		"scanned":      report.Summary.Scanned,
		"total_errors": report.Summary.TotalErrors,
		"duration":     result.Duration.String(),
	}).Info("Health check completed")

	return result, nil
}

// Export validates the filtered view of a health check and returns the
// error workbook for it.
func (s *HealthCheckService) Export(ctx context.Context, check *models.HealthCheck, filter models.CountryFilter) ([]byte, error) {
	view := filter.Apply(check.Dataset)

	report, _, err := s.validate(ctx, view)
	if err != nil {
		return nil, err
	}

	data, err := s.excelService.ExportErrorRows(view.Columns, report)
	if err != nil {
		s.logger.WithError(err).WithField("token", check.Token).Error("Failed to export error report")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"token": check.Token,
		"rows":  len(report.Rows),
		"bytes": len(data),
	}).Info("Error report exported")

	return data, nil
}

func (s *HealthCheckService) validate(ctx context.Context, view *models.Dataset) (*models.ErrorReport, models.ViolationSet, error) {
	violations, err := s.engine.Evaluate(ctx, view)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to evaluate rules: %w", err)
	}

	report := Aggregate(view, violations)
	NewCellAttributor(s.engine.Rules(), view).Annotate(report)

	return report, violations, nil
}

func (s *HealthCheckService) chart(summary models.Summary) []models.ChartBar {
	bars := make([]models.ChartBar, 0, len(s.engine.Rules()))
	for _, rule := range s.engine.Rules() {
		bars = append(bars, models.ChartBar{
			Label: rule.Name.Label(),
			Rule:  rule.Name,
			Count: summary.PerRule[rule.Name],
		})
	}
	return bars
}
