package handler

import (
	"datahealth-web/internal/models"
)

type countryOption struct {
	Code     string
	Selected bool
}

type chartBarView struct {
	Label   string
	Count   int
	Percent int
}

type cellView struct {
	Value string
	Fault bool
}

type rowView struct {
	Row   int
	Cells []cellView
}

type reportView struct {
	Title         string
	Token         string
	Filename      string
	LoadedRows    int
	Countries     []countryOption
	Scanned       int
	InvalidEmails int
	DuplicateIDs  int
	TotalErrors   int
	Clean         bool
	Chart         []chartBarView
	Columns       []string
	Rows          []rowView
	PreviewRows   int
	ExportURL     string
	Duration      string
}

func newReportView(title string, result *models.Result, filter models.CountryFilter, previewRows int) reportView {
	report := result.Report
	summary := report.Summary

	selected := make(map[string]bool, len(result.Selected))
	for _, c := range result.Selected {
		selected[c] = true
	}
	countries := make([]countryOption, 0, len(result.Countries))
	for _, c := range result.Countries {
		countries = append(countries, countryOption{Code: c, Selected: selected[c]})
	}

	max := 0
	for _, bar := range result.Chart {
		if bar.Count > max {
			max = bar.Count
		}
	}
	chart := make([]chartBarView, 0, len(result.Chart))
	for _, bar := range result.Chart {
		percent := 0
		if max > 0 {
			percent = bar.Count * 100 / max
		}
		chart = append(chart, chartBarView{Label: bar.Label, Count: bar.Count, Percent: percent})
	}

	columns := result.Columns
	preview := report.Rows
	if len(preview) > previewRows {
		preview = preview[:previewRows]
	}
	rows := make([]rowView, 0, len(preview))
	for _, rec := range preview {
		cells := make([]cellView, len(rec.Values))
		for i, v := range rec.Values {
			cells[i] = cellView{
				Value: v,
				Fault: i < len(columns) && report.IsFault(rec.Row, columns[i]),
			}
		}
		rows = append(rows, rowView{Row: rec.Row, Cells: cells})
	}

	return reportView{
		Title:         title,
		Token:         result.Token,
		Filename:      result.Filename,
		LoadedRows:    result.LoadedRows,
		Countries:     countries,
		Scanned:       summary.Scanned,
		InvalidEmails: summary.PerRule[models.RuleEmailValid],
		DuplicateIDs:  summary.PerRule[models.RuleUniquePartnerID],
		TotalErrors:   summary.TotalErrors,
		Clean:         report.IsClean(),
		Chart:         chart,
		Columns:       columns,
		Rows:          rows,
		PreviewRows:   len(preview),
		ExportURL:     "/health-checks/" + result.Token + "/export" + filterQuery(filter),
		Duration:      result.Duration.String(),
	}
}
