// Package models defines the canonical finding schema shared by every
// stage of the aggregation pipeline.
package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Finding is one normalized security issue on one resource. Findings from
// every scanner share this shape; artifacts round-trip it without loss.
type Finding struct {
	FirstSeen   time.Time          `json:"first_seen"`
	LastSeen    time.Time          `json:"last_seen"`
	ID          string             `json:"finding_id"`
	Source      string             `json:"source"`
	Provider    Provider           `json:"cloud_provider"`
	AccountID   string             `json:"account_id,omitempty"`
	Region      string             `json:"region,omitempty"`
	CheckID     string             `json:"check_id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Severity    Severity           `json:"severity"`
	Status      Status             `json:"status"`
	Resource    string             `json:"resource"`
	Compliance  []string           `json:"compliance_refs,omitempty"`
	Remediation []RemediationEntry `json:"remediation,omitempty"`
	Stale       bool               `json:"stale,omitempty"`
}

// GenerateFindingID derives the deterministic finding identifier from the
// identity triple. Two findings are the same issue iff their provider,
// check id, and resource all match.
func GenerateFindingID(provider Provider, checkID, resource string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s:%s:%s", provider, checkID, resource)
	return hex.EncodeToString(h.Sum(nil)[:8])
}

// Validate checks that the finding carries every field downstream stages
// rely on.
func (f *Finding) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("finding has no id")
	}
	if f.CheckID == "" {
		return fmt.Errorf("finding %s has no check id", f.ID)
	}
	if f.Resource == "" {
		return fmt.Errorf("finding %s has no resource", f.ID)
	}
	if f.Provider == "" {
		return fmt.Errorf("finding %s has no cloud provider", f.ID)
	}
	if !f.Severity.Valid() {
		return fmt.Errorf("finding %s has invalid severity %q", f.ID, f.Severity)
	}
	if !f.Status.Valid() {
		return fmt.Errorf("finding %s has invalid status %q", f.ID, f.Status)
	}
	return nil
}
