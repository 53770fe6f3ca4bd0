// Package normalize converts adapter records into canonical findings.
package normalize

import (
	"strings"
	"time"

	"github.com/voleary/stratus/internal/adapter"
	"github.com/voleary/stratus/internal/models"
	"github.com/voleary/stratus/pkg/logger"
)

// severityTables maps each adapter's native severity vocabulary to the
// canonical scale. Tables are fixed; new scanners add a table here.
var severityTables = map[string]map[string]models.Severity{
	"prowler": {
		"critical":      models.SeverityCritical,
		"high":          models.SeverityHigh,
		"medium":        models.SeverityMedium,
		"low":           models.SeverityLow,
		"informational": models.SeverityInfo,
		"info":          models.SeverityInfo,
	},
	"scoutsuite": {
		"danger":  models.SeverityHigh,
		"warning": models.SeverityMedium,
		"info":    models.SeverityLow,
	},
}

// Normalizer converts raw records into validated canonical findings.
type Normalizer struct {
	logger    logger.Logger
	overrides map[string]models.Severity
}

// New creates a normalizer. overrides maps check ids to severities that
// replace the table-mapped value, letting operators re-rank noisy checks.
func New(log logger.Logger, overrides map[string]models.Severity) *Normalizer {
	return &Normalizer{logger: log, overrides: overrides}
}

// Result describes what happened to one record.
type Result struct {
	Finding         *models.Finding
	Filtered        bool
	Invalid         bool
	UnknownSeverity bool
}

// Stats accumulates normalization outcomes across a run.
type Stats struct {
	Kept              int
	Filtered          int
	Invalid           int
	UnknownSeverities int
}

// NormalizeAll converts a batch of records, dropping passes and invalid
// records while counting everything for the run summary.
func (n *Normalizer) NormalizeAll(records []adapter.Record, seen time.Time) ([]models.Finding, Stats) {
	findings := make([]models.Finding, 0, len(records))
	var stats Stats

	for _, rec := range records {
		res := n.Normalize(rec, seen)
		if res.UnknownSeverity {
			stats.UnknownSeverities++
		}
		switch {
		case res.Filtered:
			stats.Filtered++
		case res.Invalid:
			stats.Invalid++
		default:
			stats.Kept++
			findings = append(findings, *res.Finding)
		}
	}

	return findings, stats
}

// Normalize converts one record. Passing checks are filtered; an unknown
// native severity maps to high so unmapped values can only over-rank,
// never hide a real issue.
func (n *Normalizer) Normalize(rec adapter.Record, seen time.Time) Result {
	status := mapStatus(rec.NativeStatus)
	if status == models.StatusPass {
		return Result{Filtered: true}
	}

	var result Result
	severity, known := mapSeverity(rec.Adapter, rec.NativeSeverity)
	if !known {
		n.logger.Warn("Unknown native severity mapped to high",
			"adapter", rec.Adapter, "check_id", rec.CheckID, "native_severity", rec.NativeSeverity)
		result.UnknownSeverity = true
	}
	if override, ok := n.overrides[rec.CheckID]; ok {
		severity = override
	}

	finding := models.Finding{
		FirstSeen:   seen,
		LastSeen:    seen,
		ID:          models.GenerateFindingID(rec.Provider, rec.CheckID, rec.Resource),
		Source:      rec.Adapter,
		Provider:    rec.Provider,
		AccountID:   rec.AccountID,
		Region:      rec.Region,
		CheckID:     rec.CheckID,
		Title:       rec.Title,
		Description: rec.Description,
		Severity:    severity,
		Status:      status,
		Resource:    rec.Resource,
		Compliance:  dedupeRefs(rec.Compliance),
	}

	if err := finding.Validate(); err != nil {
		n.logger.Warn("Skipping invalid finding", "check_id", rec.CheckID, "error", err)
		result.Invalid = true
		return result
	}

	result.Finding = &finding
	return result
}

func mapSeverity(adapterName, native string) (models.Severity, bool) {
	table, ok := severityTables[adapterName]
	if !ok {
		return models.SeverityHigh, false
	}
	severity, ok := table[strings.ToLower(strings.TrimSpace(native))]
	if !ok {
		return models.SeverityHigh, false
	}
	return severity, true
}

// mapStatus folds native status spellings onto the canonical set. Anything
// unrecognized counts as fail so surprising scanner output surfaces rather
// than disappears.
func mapStatus(native string) models.Status {
	switch strings.ToLower(strings.TrimSpace(native)) {
	case "pass", "passed", "ok":
		return models.StatusPass
	case "warn", "warning":
		return models.StatusWarn
	case "muted":
		return models.StatusMuted
	default:
		return models.StatusFail
	}
}

// dedupeRefs removes duplicate compliance references preserving first
// occurrence order.
func dedupeRefs(refs []string) []string {
	if len(refs) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(refs))
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true
		out = append(out, ref)
	}
	return out
}
