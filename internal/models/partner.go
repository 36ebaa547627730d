package models

// Column names of the partner master data sheet
const (
	ColumnPartnerID   = "Partner_ID"
	ColumnCompanyName = "Company_Name"
	ColumnCountry     = "Country"
	ColumnEmail       = "Email"
	ColumnVATNumber   = "VAT_Number"
)

// RequiredColumns lists the columns every uploaded sheet must carry
var RequiredColumns = []string{
	ColumnPartnerID,
	ColumnCompanyName,
	ColumnCountry,
	ColumnEmail,
	ColumnVATNumber,
}

// Record is one partner row. Row is its position in the loaded dataset and
// stays the same in every filtered view of that dataset.
type Record struct {
	Row         int      `json:"row"`
	PartnerID   string   `json:"partner_id"`
	CompanyName string   `json:"company_name"`
	Country     string   `json:"country"`
	Email       string   `json:"email"`
	VATNumber   string   `json:"vat_number"`
	Values      []string `json:"values"`
}

// Dataset is an ordered, read-only set of records together with the column
// layout of the sheet they were loaded from.
type Dataset struct {
	Columns []string `json:"columns"`
	Records []Record `json:"records"`
}

// Len returns the number of records
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Countries returns the distinct country values in order of first appearance
func (d *Dataset) Countries() []string {
	seen := make(map[string]bool)
	countries := []string{}
	for _, rec := range d.Records {
		if seen[rec.Country] {
			continue
		}
		seen[rec.Country] = true
		countries = append(countries, rec.Country)
	}
	return countries
}

// FilterCountries derives a new dataset holding only records whose country is
// in the given list. The receiver is left untouched.
func (d *Dataset) FilterCountries(countries []string) *Dataset {
	allowed := make(map[string]bool, len(countries))
	for _, c := range countries {
		allowed[c] = true
	}

	filtered := &Dataset{
		Columns: d.Columns,
		Records: make([]Record, 0, len(d.Records)),
	}
	for _, rec := range d.Records {
		if allowed[rec.Country] {
			filtered.Records = append(filtered.Records, rec)
		}
	}
	return filtered
}

// CountryFilter is the country selection of one validation cycle. When
// Explicit is false every country is selected.
type CountryFilter struct {
	Explicit  bool
	Countries []string
}

// Apply returns the snapshot a filter selects
func (f CountryFilter) Apply(d *Dataset) *Dataset {
	if !f.Explicit {
		return d
	}
	return d.FilterCountries(f.Countries)
}

// Selected returns the countries the filter keeps for the given dataset
func (f CountryFilter) Selected(d *Dataset) []string {
	if !f.Explicit {
		return d.Countries()
	}
	return f.Countries
}
