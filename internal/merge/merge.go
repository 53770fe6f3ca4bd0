// Package merge reconciles a run's findings with the previous baseline so
// first-seen timestamps survive across runs.
package merge

import (
	"fmt"
	"sort"
	"time"

	"github.com/voleary/stratus/internal/models"
)

// StalePolicy controls what happens to baseline findings the current run
// no longer reports.
type StalePolicy string

// Supported stale policies.
const (
	// StaleRetain keeps stale findings untouched.
	StaleRetain StalePolicy = "retain"
	// StaleMark keeps stale findings flagged with stale=true.
	StaleMark StalePolicy = "mark"
	// StaleDrop removes stale findings from the merged set.
	StaleDrop StalePolicy = "drop"
)

// ParsePolicy parses a configured stale policy; empty means retain.
func ParsePolicy(s string) (StalePolicy, error) {
	switch StalePolicy(s) {
	case "":
		return StaleRetain, nil
	case StaleRetain, StaleMark, StaleDrop:
		return StalePolicy(s), nil
	default:
		return "", fmt.Errorf("unknown stale policy %q (want retain, mark, or drop)", s)
	}
}

// Stats counts merge outcomes for the run summary.
type Stats struct {
	New     int
	Updated int
	Stale   int
}

// Merge reconciles current findings against the baseline from the previous
// run. Matching ids keep the baseline's FirstSeen and take the current
// run's mutable fields with LastSeen advanced to runTime. Output is sorted
// by severity rank then finding id, and contains each id exactly once.
func Merge(baseline, current []models.Finding, runTime time.Time, policy StalePolicy) ([]models.Finding, Stats) {
	var stats Stats

	baselineByID := make(map[string]models.Finding, len(baseline))
	for _, f := range baseline {
		baselineByID[f.ID] = f
	}

	merged := make([]models.Finding, 0, len(current)+len(baseline))
	currentIDs := make(map[string]bool, len(current))

	for _, f := range current {
		if currentIDs[f.ID] {
			// Same issue reported twice within one run collapses to one.
			continue
		}
		currentIDs[f.ID] = true

		if old, ok := baselineByID[f.ID]; ok {
			f.FirstSeen = old.FirstSeen
			stats.Updated++
		} else {
			f.FirstSeen = runTime
			stats.New++
		}
		f.LastSeen = runTime
		f.Stale = false
		merged = append(merged, f)
	}

	for _, f := range baseline {
		if currentIDs[f.ID] {
			continue
		}
		stats.Stale++
		switch policy {
		case StaleDrop:
			continue
		case StaleMark:
			f.Stale = true
		case StaleRetain:
			// Carried forward untouched.
		}
		merged = append(merged, f)
	}

	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Severity.Rank() != merged[j].Severity.Rank() {
			return merged[i].Severity.Rank() < merged[j].Severity.Rank()
		}
		return merged[i].ID < merged[j].ID
	})

	return merged, stats
}
