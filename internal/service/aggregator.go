package service

import "datahealth-web/internal/models"

// Aggregate unions the violating rows of every rule into one report. A row
// is listed once however many rules it breaks, and rows keep dataset order.
func Aggregate(ds *models.Dataset, violations models.ViolationSet) *models.ErrorReport {
	summary := models.Summary{
		Scanned: ds.Len(),
		PerRule: make(map[models.RuleName]int, len(violations)),
	}

	union := make(map[int]bool)
	for name, rows := range violations {
		summary.PerRule[name] = len(rows)
		for _, row := range rows {
			union[row] = true
		}
	}

	report := &models.ErrorReport{
		Rows:   make([]models.Record, 0, len(union)),
		Faults: make(map[int][]string, len(union)),
	}
	for _, rec := range ds.Records {
		if union[rec.Row] {
			report.Rows = append(report.Rows, rec)
		}
	}

	summary.TotalErrors = len(report.Rows)
	report.Summary = summary
	return report
}
