package models

import "time"

type RuleName string

const (
	RuleEmailValid      RuleName = "EmailValid"
	RuleUniquePartnerID RuleName = "UniquePartnerID"
	RuleVATMinLength    RuleName = "VATMinLength"
)

// Label is the human readable name used by counters and charts
func (n RuleName) Label() string {
	switch n {
	case RuleEmailValid:
		return "Invalid Email"
	case RuleUniquePartnerID:
		return "Duplicate ID"
	case RuleVATMinLength:
		return "Suspicious VAT"
	}
	return string(n)
}

// ViolationSet maps a rule to the ascending row identities that violate it
type ViolationSet map[RuleName][]int

// HealthCheck is the context object of one upload. It is created when a file
// is uploaded, replaced wholesale by the next upload and never mutated.
type HealthCheck struct {
	Token    string    `json:"token"`
	Filename string    `json:"filename"`
	Dataset  *Dataset  `json:"dataset"`
	LoadedAt time.Time `json:"loaded_at"`
}

type Summary struct {
	Scanned     int              `json:"scanned"`
	PerRule     map[RuleName]int `json:"per_rule"`
	TotalErrors int              `json:"total_errors"`
}

// ErrorReport holds every record that violates at least one rule, in dataset
// order, and the fields at fault per row.
type ErrorReport struct {
	Rows    []Record         `json:"rows"`
	Faults  map[int][]string `json:"faults"`
	Summary Summary          `json:"summary"`
}

// IsClean reports whether no record violated any rule
func (r *ErrorReport) IsClean() bool {
	return len(r.Rows) == 0
}

// IsFault reports whether the given field of the record at row is at fault
func (r *ErrorReport) IsFault(row int, field string) bool {
	for _, f := range r.Faults[row] {
		if f == field {
			return true
		}
	}
	return false
}

type ChartBar struct {
	Label string   `json:"label"`
	Rule  RuleName `json:"rule"`
	Count int      `json:"count"`
}

// Result is everything one validation cycle produces for display
type Result struct {
	Token       string        `json:"token"`
	Filename    string        `json:"filename"`
	LoadedRows  int           `json:"loaded_rows"`
	Columns     []string      `json:"columns"`
	Countries   []string      `json:"countries"`
	Selected    []string      `json:"selected"`
	Violations  ViolationSet  `json:"violations"`
	Report      *ErrorReport  `json:"report"`
	Chart       []ChartBar    `json:"chart"`
	ProcessedAt time.Time     `json:"processed_at"`
	Duration    time.Duration `json:"duration"`
}
