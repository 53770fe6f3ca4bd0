package models

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Severity is the canonical five-level risk classification. Values are
// stored lowercase; Display produces the title-cased label used in exports.
type Severity string

// Canonical severity values, most severe first.
const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// Severities returns all canonical severities ordered most severe first.
func Severities() []Severity {
	return []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}
}

// Rank returns the sort weight of a severity; lower means more severe.
// Unknown values sort last.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	case SeverityInfo:
		return 4
	default:
		return 5
	}
}

// Valid reports whether s is one of the five canonical values.
func (s Severity) Valid() bool {
	return s.Rank() < 5
}

var titleCaser = cases.Title(language.English)

// Display returns the human-readable label for a severity.
func (s Severity) Display() string {
	if s == SeverityInfo {
		return "Informational"
	}
	return titleCaser.String(string(s))
}
