package models

// Status is the canonical check outcome.
type Status string

// Canonical status values.
const (
	StatusFail  Status = "fail"
	StatusPass  Status = "pass"
	StatusWarn  Status = "warn"
	StatusMuted Status = "muted"
)

// Valid reports whether s is a canonical status.
func (s Status) Valid() bool {
	switch s {
	case StatusFail, StatusPass, StatusWarn, StatusMuted:
		return true
	}
	return false
}

// Actionable reports whether a finding with this status represents an open
// issue that belongs in aggregated output.
func (s Status) Actionable() bool {
	return s == StatusFail || s == StatusWarn
}

// Provider identifies the cloud platform a finding belongs to.
type Provider string

// Known cloud providers.
const (
	ProviderAWS   Provider = "aws"
	ProviderAzure Provider = "azure"
	ProviderGCP   Provider = "gcp"
)

// Display returns the conventional spelling of a provider name.
func (p Provider) Display() string {
	switch p {
	case ProviderAWS:
		return "AWS"
	case ProviderAzure:
		return "Azure"
	case ProviderGCP:
		return "GCP"
	default:
		return titleCaser.String(string(p))
	}
}
