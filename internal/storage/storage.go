// Package storage writes and reads timestamped aggregation artifacts.
//
// Each run produces three files in the output directory:
//
//	aggregated_findings_<ts>.json  full-fidelity finding set
//	aggregated_findings_<ts>.csv   flattened per-finding rows
//	findings_summary_<ts>.json     statistics
//
// Timestamps use a lexically sortable layout, so the latest run is the
// lexical maximum and consumers can poll the directory without an index.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/voleary/stratus/internal/models"
	"github.com/voleary/stratus/pkg/logger"
	"github.com/voleary/stratus/pkg/pathutil"
)

// TimestampLayout makes artifact names sort lexically by run time.
const TimestampLayout = "20060102_150405"

const (
	findingsPrefix = "aggregated_findings_"
	summaryPrefix  = "findings_summary_"
)

// Artifacts holds the paths written by one run.
type Artifacts struct {
	FindingsJSON string
	FindingsCSV  string
	SummaryJSON  string
}

// Store reads and writes run artifacts in one output directory.
type Store struct {
	logger logger.Logger
	dir    string
}

// NewStore creates a store for the given output directory. The directory
// is created on the first write.
func NewStore(dir string, log logger.Logger) (*Store, error) {
	cleaned, err := pathutil.ValidatePath(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid output directory: %w", err)
	}
	return &Store{dir: cleaned, logger: log}, nil
}

// Dir returns the output directory.
func (s *Store) Dir() string { return s.dir }

// SaveArtifacts writes the findings JSON, findings CSV, and summary JSON
// for one run. Every file goes through a temp-then-rename so a crashed run
// never leaves a half-written artifact behind. The findings JSON is
// written first; if it fails nothing else is attempted.
func (s *Store) SaveArtifacts(findings []models.Finding, st models.Statistics, runTime time.Time) (*Artifacts, error) {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	ts := runTime.Format(TimestampLayout)
	artifacts := &Artifacts{
		FindingsJSON: filepath.Join(s.dir, findingsPrefix+ts+".json"),
		FindingsCSV:  filepath.Join(s.dir, findingsPrefix+ts+".csv"),
		SummaryJSON:  filepath.Join(s.dir, summaryPrefix+ts+".json"),
	}

	if err := s.writeJSON(artifacts.FindingsJSON, findings); err != nil {
		return nil, fmt.Errorf("writing findings: %w", err)
	}
	if err := s.writeCSV(artifacts.FindingsCSV, findings); err != nil {
		return nil, fmt.Errorf("writing CSV: %w", err)
	}
	if err := s.writeJSON(artifacts.SummaryJSON, st); err != nil {
		return nil, fmt.Errorf("writing summary: %w", err)
	}

	s.logger.Info("Saved run artifacts",
		"dir", s.dir, "timestamp", ts, "findings", len(findings))
	return artifacts, nil
}

func (s *Store) writeJSON(path string, v any) error {
	tmp, err := os.CreateTemp(s.dir, ".stratus-*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

var csvHeader = []string{
	"finding_id", "source", "cloud_provider", "account_id", "region",
	"check_id", "title", "severity", "status", "resource",
	"compliance_refs", "remediation", "first_seen", "last_seen", "stale",
}

func (s *Store) writeCSV(path string, findings []models.Finding) error {
	tmp, err := os.CreateTemp(s.dir, ".stratus-*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write(csvHeader); err != nil {
		_ = tmp.Close()
		return err
	}
	for i := range findings {
		if err := w.Write(csvRow(&findings[i])); err != nil {
			_ = tmp.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func csvRow(f *models.Finding) []string {
	remediation := ""
	if len(f.Remediation) > 0 {
		remediation = f.Remediation[0].Summary
	}
	return []string{
		f.ID,
		f.Source,
		f.Provider.Display(),
		f.AccountID,
		f.Region,
		f.CheckID,
		f.Title,
		f.Severity.Display(),
		string(f.Status),
		f.Resource,
		strings.Join(f.Compliance, ";"),
		remediation,
		f.FirstSeen.Format(time.RFC3339),
		f.LastSeen.Format(time.RFC3339),
		fmt.Sprintf("%t", f.Stale),
	}
}

// LoadLatest returns the findings from the most recent run, identified by
// the lexically greatest findings artifact. No previous run is not an
// error; it returns an empty baseline and an empty path.
func (s *Store) LoadLatest() ([]models.Finding, string, error) {
	path, err := s.latestFindingsPath()
	if err != nil || path == "" {
		return nil, "", err
	}

	data, err := os.ReadFile(path) //nolint:gosec // path comes from our own output dir
	if err != nil {
		return nil, "", fmt.Errorf("reading baseline %s: %w", path, err)
	}

	var findings []models.Finding
	if err := json.Unmarshal(data, &findings); err != nil {
		return nil, "", fmt.Errorf("decoding baseline %s: %w", path, err)
	}

	s.logger.Debug("Loaded merge baseline", "path", path, "findings", len(findings))
	return findings, path, nil
}

func (s *Store) latestFindingsPath() (string, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	latest := ""
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, findingsPrefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		tsPart := strings.TrimSuffix(strings.TrimPrefix(name, findingsPrefix), ".json")
		if _, err := time.Parse(TimestampLayout, tsPart); err != nil {
			continue
		}
		if name > latest {
			latest = name
		}
	}
	if latest == "" {
		return "", nil
	}
	return filepath.Join(s.dir, latest), nil
}

// RunInfo describes one stored run.
type RunInfo struct {
	Timestamp    time.Time
	FindingsJSON string
	SummaryJSON  string
}

// ListRuns returns all stored runs, newest first. Files whose timestamps
// do not parse are ignored.
func (s *Store) ListRuns() ([]RunInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var runs []RunInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, findingsPrefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		tsPart := strings.TrimSuffix(strings.TrimPrefix(name, findingsPrefix), ".json")
		ts, err := time.Parse(TimestampLayout, tsPart)
		if err != nil {
			continue
		}

		run := RunInfo{
			Timestamp:    ts,
			FindingsJSON: filepath.Join(s.dir, name),
		}
		summary := filepath.Join(s.dir, summaryPrefix+tsPart+".json")
		if _, err := os.Stat(summary); err == nil {
			run.SummaryJSON = summary
		}
		runs = append(runs, run)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

// LoadSummary reads one stored statistics artifact.
func (s *Store) LoadSummary(path string) (*models.Statistics, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from our own output dir
	if err != nil {
		return nil, err
	}
	var st models.Statistics
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decoding summary %s: %w", path, err)
	}
	return &st, nil
}
