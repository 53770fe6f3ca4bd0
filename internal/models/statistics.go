package models

import "time"

// Statistics summarizes a merged finding set for dashboards and the run
// summary. BySeverity always carries every canonical severity key so
// consumers can render stable widgets without nil checks.
type Statistics struct {
	GeneratedAt  time.Time        `json:"timestamp"`
	BySeverity   map[Severity]int `json:"by_severity"`
	ByProvider   map[Provider]int `json:"by_cloud_provider"`
	ByAccount    map[string]int   `json:"by_account,omitempty"`
	BySource     map[string]int   `json:"by_source"`
	ByCompliance map[string]int   `json:"by_compliance,omitempty"`
	Total        int              `json:"total_findings"`
}
