package service

import "datahealth-web/internal/models"

// CellAttributor works out which fields of a record are at fault. It binds
// the same rule checks the engine uses, against the snapshot on display.
type CellAttributor struct {
	fields []string
	checks []RowCheck
}

func NewCellAttributor(rules []Rule, ds *models.Dataset) *CellAttributor {
	a := &CellAttributor{
		fields: make([]string, 0, len(rules)),
		checks: make([]RowCheck, 0, len(rules)),
	}
	for _, rule := range rules {
		a.fields = append(a.fields, rule.Field)
		a.checks = append(a.checks, rule.Bind(ds))
	}
	return a
}

// Attribute returns the at-fault field names of rec, each at most once
func (a *CellAttributor) Attribute(rec models.Record) []string {
	faults := []string{}
	for i, check := range a.checks {
		if !check(rec) || contains(faults, a.fields[i]) {
			continue
		}
		faults = append(faults, a.fields[i])
	}
	return faults
}

// Annotate fills the per-row fault map of a report
func (a *CellAttributor) Annotate(report *models.ErrorReport) {
	if report.Faults == nil {
		report.Faults = make(map[int][]string, len(report.Rows))
	}
	for _, rec := range report.Rows {
		report.Faults[rec.Row] = a.Attribute(rec)
	}
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
