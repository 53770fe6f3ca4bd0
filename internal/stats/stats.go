// Package stats computes aggregate statistics over a merged finding set.
package stats

import (
	"time"

	"github.com/voleary/stratus/internal/models"
)

// Compute builds statistics for a finding set. It is pure and order
// independent. Every canonical severity key is present even at zero so
// downstream widgets render a stable shape. A finding increments each
// compliance framework it references, so ByCompliance can exceed Total.
func Compute(findings []models.Finding, generatedAt time.Time) models.Statistics {
	st := models.Statistics{
		GeneratedAt: generatedAt,
		Total:       len(findings),
		BySeverity:  make(map[models.Severity]int, 5),
		ByProvider:  make(map[models.Provider]int),
		ByAccount:   make(map[string]int),
		BySource:    make(map[string]int),
	}

	for _, sev := range models.Severities() {
		st.BySeverity[sev] = 0
	}

	for _, f := range findings {
		st.BySeverity[f.Severity]++
		st.ByProvider[f.Provider]++
		st.BySource[f.Source]++
		if f.AccountID != "" {
			st.ByAccount[f.AccountID]++
		}
		for _, ref := range f.Compliance {
			if st.ByCompliance == nil {
				st.ByCompliance = make(map[string]int)
			}
			st.ByCompliance[ref]++
		}
	}

	return st
}
