package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleDataset() *Dataset {
	return &Dataset{
		Columns: RequiredColumns,
		Records: []Record{
			{Row: 0, PartnerID: "1", Country: "HU"},
			{Row: 1, PartnerID: "2", Country: "DE"},
			{Row: 2, PartnerID: "3", Country: "HU"},
			{Row: 3, PartnerID: "4", Country: "US"},
		},
	}
}

func TestCountriesFirstSeenOrder(t *testing.T) {
	assert.Equal(t, []string{"HU", "DE", "US"}, sampleDataset().Countries())
}

func TestFilterCountries(t *testing.T) {
	ds := sampleDataset()

	filtered := ds.FilterCountries([]string{"HU", "US"})

	assert.Equal(t, 3, filtered.Len())
	assert.Equal(t, 0, filtered.Records[0].Row)
	assert.Equal(t, 2, filtered.Records[1].Row)
	assert.Equal(t, 3, filtered.Records[2].Row)
	assert.Equal(t, ds.Columns, filtered.Columns)
	assert.Equal(t, 4, ds.Len())
}

func TestCountryFilterApply(t *testing.T) {
	ds := sampleDataset()

	tests := []struct {
		name     string
		filter   CountryFilter
		wantLen  int
		selected []string
	}{
		{name: "default keeps everything", filter: CountryFilter{}, wantLen: 4, selected: []string{"HU", "DE", "US"}},
		{name: "explicit subset", filter: CountryFilter{Explicit: true, Countries: []string{"DE"}}, wantLen: 1, selected: []string{"DE"}},
		{name: "explicit empty selection", filter: CountryFilter{Explicit: true}, wantLen: 0, selected: nil},
		{name: "unknown country", filter: CountryFilter{Explicit: true, Countries: []string{"FR"}}, wantLen: 0, selected: []string{"FR"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantLen, tt.filter.Apply(ds).Len())
			assert.Equal(t, tt.selected, tt.filter.Selected(ds))
		})
	}
}

func TestErrorReportIsFault(t *testing.T) {
	report := &ErrorReport{
		Rows:   []Record{{Row: 4}},
		Faults: map[int][]string{4: {ColumnEmail}},
	}

	assert.True(t, report.IsFault(4, ColumnEmail))
	assert.False(t, report.IsFault(4, ColumnVATNumber))
	assert.False(t, report.IsFault(5, ColumnEmail))
	assert.False(t, report.IsClean())
}

func TestRuleNameLabel(t *testing.T) {
	assert.Equal(t, "Invalid Email", RuleEmailValid.Label())
	assert.Equal(t, "Duplicate ID", RuleUniquePartnerID.Label())
	assert.Equal(t, "Suspicious VAT", RuleVATMinLength.Label())
	assert.Equal(t, "Other", RuleName("Other").Label())
}

func TestDatasetLenNil(t *testing.T) {
	var ds *Dataset
	assert.Equal(t, 0, ds.Len())
}
