package adapter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/voleary/stratus/internal/models"
	"github.com/voleary/stratus/pkg/logger"
)

// ScoutSuiteAdapter parses ScoutSuite results for Azure subscriptions.
// ScoutSuite writes a JavaScript file that assigns a JSON object to a
// variable; the adapter strips the assignment and parses the body.
type ScoutSuiteAdapter struct {
	logger logger.Logger
}

// NewScoutSuiteAdapter creates a ScoutSuite adapter using the global logger.
func NewScoutSuiteAdapter() *ScoutSuiteAdapter {
	return NewScoutSuiteAdapterWithLogger(logger.GetGlobalLogger())
}

// NewScoutSuiteAdapterWithLogger creates a ScoutSuite adapter with a custom
// logger.
func NewScoutSuiteAdapterWithLogger(log logger.Logger) *ScoutSuiteAdapter {
	return &ScoutSuiteAdapter{logger: log}
}

// Name returns the adapter identifier.
func (s *ScoutSuiteAdapter) Name() string { return "scoutsuite" }

// Provider returns the cloud platform this adapter covers.
func (s *ScoutSuiteAdapter) Provider() models.Provider { return models.ProviderAzure }

// Match accepts scoutsuite_results_*.js files.
func (s *ScoutSuiteAdapter) Match(filename string) bool {
	return strings.HasPrefix(filename, "scoutsuite_results_") &&
		strings.HasSuffix(filename, ".js")
}

type scoutReport struct {
	Services  map[string]json.RawMessage `json:"services"`
	AccountID string                     `json:"account_id"`
}

type scoutService struct {
	Findings map[string]json.RawMessage `json:"findings"`
}

type scoutFinding struct {
	Description  string   `json:"description"`
	Rationale    string   `json:"rationale"`
	Level        string   `json:"level"`
	Items        []string `json:"items"`
	References   []string `json:"references"`
	FlaggedItems int      `json:"flagged_items"`
}

// ParseFile parses one ScoutSuite results file. Each flagged item of each
// service finding becomes one record; findings with no flagged items are
// clean and produce nothing.
func (s *ScoutSuiteAdapter) ParseFile(path string) ([]RawRecord, int, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from a validated input root
	if err != nil {
		return nil, 0, NewParseError(s.Name(), path, err)
	}

	body, err := stripJSAssignment(data)
	if err != nil {
		return nil, 0, NewParseError(s.Name(), path, err)
	}

	var report scoutReport
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, 0, NewParseError(s.Name(), path, fmt.Errorf("invalid JSON body: %w", err))
	}

	var records []RawRecord
	skipped := 0
	for _, serviceName := range sortedKeys(report.Services) {
		var service scoutService
		if err := json.Unmarshal(report.Services[serviceName], &service); err != nil {
			s.logger.Warn("Skipping malformed ScoutSuite service",
				"file", path, "service", serviceName, "error", err)
			skipped++
			continue
		}

		for _, findingKey := range sortedKeys(service.Findings) {
			var finding scoutFinding
			if err := json.Unmarshal(service.Findings[findingKey], &finding); err != nil {
				s.logger.Warn("Skipping malformed ScoutSuite finding",
					"file", path, "service", serviceName, "finding", findingKey, "error", err)
				skipped++
				continue
			}
			if finding.FlaggedItems <= 0 {
				continue
			}
			records = append(records, s.expandFinding(serviceName, findingKey, &finding, report.AccountID)...)
		}
	}

	return records, skipped, nil
}

func (s *ScoutSuiteAdapter) expandFinding(service, checkID string, finding *scoutFinding, accountID string) []RawRecord {
	base := RawRecord{
		CheckID:        checkID,
		Title:          finding.Description,
		Description:    finding.Rationale,
		NativeSeverity: finding.Level,
		NativeStatus:   "FAIL",
		AccountID:      accountID,
		Compliance:     finding.References,
	}

	if len(finding.Items) == 0 {
		rec := base
		rec.Resource = fmt.Sprintf("%s (multiple resources)", service)
		return []RawRecord{rec}
	}

	records := make([]RawRecord, 0, len(finding.Items))
	for _, item := range finding.Items {
		rec := base
		rec.Resource = itemResource(item)
		records = append(records, rec)
	}
	return records
}

// itemResource extracts the resource name from a ScoutSuite item path such
// as "storage_accounts.subscriptions.sub-1.storage_accounts.prodstorage".
func itemResource(item string) string {
	if idx := strings.LastIndex(item, "."); idx >= 0 {
		return item[idx+1:]
	}
	return item
}

// stripJSAssignment removes the leading "scoutsuite_results =" so the rest
// of the file parses as JSON. Both "= {" and "=\n{" forms occur.
func stripJSAssignment(data []byte) ([]byte, error) {
	idx := bytes.IndexByte(data, '=')
	if idx < 0 || !bytes.Contains(data[:idx], []byte("scoutsuite_results")) {
		return nil, fmt.Errorf("missing scoutsuite_results assignment")
	}
	body := bytes.TrimSpace(data[idx+1:])
	if len(body) == 0 {
		return nil, fmt.Errorf("empty results body")
	}
	return body, nil
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
