package adapter

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/voleary/stratus/internal/models"
	"github.com/voleary/stratus/pkg/logger"
)

// ProwlerAdapter parses Prowler v3 native JSON output for AWS accounts.
type ProwlerAdapter struct {
	logger logger.Logger
}

// NewProwlerAdapter creates a Prowler adapter using the global logger.
func NewProwlerAdapter() *ProwlerAdapter {
	return NewProwlerAdapterWithLogger(logger.GetGlobalLogger())
}

// NewProwlerAdapterWithLogger creates a Prowler adapter with a custom logger.
func NewProwlerAdapterWithLogger(log logger.Logger) *ProwlerAdapter {
	return &ProwlerAdapter{logger: log}
}

// Name returns the adapter identifier.
func (p *ProwlerAdapter) Name() string { return "prowler" }

// Provider returns the cloud platform Prowler scans.
func (p *ProwlerAdapter) Provider() models.Provider { return models.ProviderAWS }

// Match accepts prowler-output-*.json but not the OCSF variant, which has
// a different schema.
func (p *ProwlerAdapter) Match(filename string) bool {
	return strings.HasPrefix(filename, "prowler-output-") &&
		strings.HasSuffix(filename, ".json") &&
		!strings.HasSuffix(filename, ".ocsf.json")
}

// prowlerCheck mirrors the fields of one Prowler v3 native JSON check
// result that the pipeline consumes.
type prowlerCheck struct {
	Compliance     map[string][]string `json:"Compliance"`
	Provider       string              `json:"Provider"`
	AccountID      string              `json:"AccountId"`
	Region         string              `json:"Region"`
	CheckID        string              `json:"CheckID"`
	CheckTitle     string              `json:"CheckTitle"`
	ServiceName    string              `json:"ServiceName"`
	Status         string              `json:"Status"`
	StatusExtended string              `json:"StatusExtended"`
	Severity       string              `json:"Severity"`
	ResourceID     string              `json:"ResourceId"`
	ResourceArn    string              `json:"ResourceArn"`
	Description    string              `json:"Description"`
	Risk           string              `json:"Risk"`
}

// ParseFile parses one Prowler output file. The file may be a JSON array
// or NDJSON (one check object per line); both forms appear in the wild.
func (p *ProwlerAdapter) ParseFile(path string) ([]RawRecord, int, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from a validated input root
	if err != nil {
		return nil, 0, NewParseError(p.Name(), path, err)
	}

	rawChecks, err := splitProwlerChecks(data)
	if err != nil {
		return nil, 0, NewParseError(p.Name(), path, err)
	}

	records := make([]RawRecord, 0, len(rawChecks))
	skipped := 0
	for i, raw := range rawChecks {
		var check prowlerCheck
		if err := json.Unmarshal(raw, &check); err != nil {
			p.logger.Warn("Skipping malformed Prowler record",
				"file", path, "index", i, "error", err)
			skipped++
			continue
		}

		rec, ok := p.toRecord(&check)
		if !ok {
			p.logger.Warn("Skipping Prowler record with missing identity fields",
				"file", path, "index", i, "check_id", check.CheckID)
			skipped++
			continue
		}
		records = append(records, rec)
	}

	return records, skipped, nil
}

func (p *ProwlerAdapter) toRecord(check *prowlerCheck) (RawRecord, bool) {
	resource := check.ResourceID
	if resource == "" {
		resource = check.ResourceArn
	}
	if resource == "" {
		// Account-level checks carry no resource; the account stands in.
		resource = check.AccountID
	}
	if check.CheckID == "" || resource == "" {
		return RawRecord{}, false
	}

	description := check.StatusExtended
	if description == "" {
		description = check.Description
	}

	return RawRecord{
		CheckID:        check.CheckID,
		Title:          check.CheckTitle,
		Description:    description,
		NativeSeverity: check.Severity,
		NativeStatus:   check.Status,
		Resource:       resource,
		AccountID:      check.AccountID,
		Region:         check.Region,
		Compliance:     complianceFrameworks(check.Compliance),
	}, true
}

// splitProwlerChecks returns the individual check objects from either a
// JSON array or NDJSON content.
func splitProwlerChecks(data []byte) ([]json.RawMessage, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var checks []json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &checks); err != nil {
			return nil, fmt.Errorf("invalid JSON array: %w", err)
		}
		return checks, nil
	}

	var checks []json.RawMessage
	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "{") {
			return nil, fmt.Errorf("line %q is neither a JSON array nor NDJSON", truncate(line, 40))
		}
		checks = append(checks, json.RawMessage(line))
	}
	return checks, nil
}

func complianceFrameworks(compliance map[string][]string) []string {
	if len(compliance) == 0 {
		return nil
	}
	frameworks := make([]string, 0, len(compliance))
	for framework := range compliance {
		frameworks = append(frameworks, framework)
	}
	sort.Strings(frameworks)
	return frameworks
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
