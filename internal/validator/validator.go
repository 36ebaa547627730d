// Package validator holds the field level predicates shared by rule
// evaluation and cell attribution.
package validator

import (
	"regexp"
	"unicode/utf8"
)

// MinVATLength is the shortest VAT number accepted
const MinVATLength = 5

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// IsMissing reports whether a cell holds no value
func IsMissing(value string) bool {
	return value == ""
}

// IsValidEmail reports whether value is a complete local-part@domain.tld
// address. A missing value is never valid.
func IsValidEmail(value string) bool {
	if IsMissing(value) {
		return false
	}
	return emailPattern.MatchString(value)
}

// IsShortVAT reports whether a VAT number is missing or shorter than min
// characters.
func IsShortVAT(value string, min int) bool {
	if IsMissing(value) {
		return true
	}
	return utf8.RuneCountInString(value) < min
}

// DuplicateIndex answers whether a value occurs more than once in a column
type DuplicateIndex struct {
	counts map[string]int
}

func NewDuplicateIndex(values []string) *DuplicateIndex {
	counts := make(map[string]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	return &DuplicateIndex{counts: counts}
}

// Contains reports whether value is duplicated in the indexed column
func (idx *DuplicateIndex) Contains(value string) bool {
	return idx.counts[value] > 1
}
