package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voleary/stratus/internal/models"
	"github.com/voleary/stratus/pkg/logger"
)

var (
	runOne = time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	runTwo = time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
)

func testFindings(seen time.Time) []models.Finding {
	return []models.Finding{
		{
			FirstSeen: seen,
			LastSeen:  seen,
			ID:        models.GenerateFindingID(models.ProviderAWS, "s3_bucket_default_encryption", "data-bucket"),
			Source:    "prowler",
			Provider:  models.ProviderAWS,
			AccountID: "123456789012",
			Region:    "eu-west-1",
			CheckID:   "s3_bucket_default_encryption",
			Title:     "Check if S3 buckets have default encryption enabled",
			Severity:  models.SeverityMedium,
			Status:    models.StatusFail,
			Resource:  "data-bucket",
			Compliance: []string{"CIS-1.5"},
			Remediation: []models.RemediationEntry{{
				Format:  "cli",
				Summary: "Enable default SSE-S3 encryption on the bucket",
				Command: "aws s3api put-bucket-encryption --bucket data-bucket",
			}},
		},
	}
}

func testStats(findings []models.Finding, at time.Time) models.Statistics {
	return models.Statistics{
		GeneratedAt: at,
		Total:       len(findings),
		BySeverity:  map[models.Severity]int{models.SeverityMedium: len(findings)},
		ByProvider:  map[models.Provider]int{models.ProviderAWS: len(findings)},
		BySource:    map[string]int{"prowler": len(findings)},
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), logger.NewMockLogger())
	require.NoError(t, err)
	return s
}

func TestSaveArtifactsAndRoundTrip(t *testing.T) {
	s := newTestStore(t)
	findings := testFindings(runOne)

	artifacts, err := s.SaveArtifacts(findings, testStats(findings, runOne), runOne)
	require.NoError(t, err)

	assert.Equal(t, "aggregated_findings_20260824_090000.json", filepath.Base(artifacts.FindingsJSON))
	assert.Equal(t, "aggregated_findings_20260824_090000.csv", filepath.Base(artifacts.FindingsCSV))
	assert.Equal(t, "findings_summary_20260824_090000.json", filepath.Base(artifacts.SummaryJSON))

	loaded, path, err := s.LoadLatest()
	require.NoError(t, err)
	assert.Equal(t, artifacts.FindingsJSON, path)
	assert.Equal(t, findings, loaded, "JSON artifact round-trips without loss")

	// No temp files left behind.
	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	for _, entry := range entries {
		assert.False(t, strings.HasSuffix(entry.Name(), ".tmp"), "leftover %s", entry.Name())
	}
}

func TestCSVHasOneRowPerFinding(t *testing.T) {
	s := newTestStore(t)
	findings := testFindings(runOne)

	artifacts, err := s.SaveArtifacts(findings, testStats(findings, runOne), runOne)
	require.NoError(t, err)

	f, err := os.Open(artifacts.FindingsCSV)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, len(findings)+1)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, "Medium", rows[1][7], "severity is title-cased in CSV")
	assert.Equal(t, "AWS", rows[1][2])
	assert.Equal(t, "Enable default SSE-S3 encryption on the bucket", rows[1][11])
}

func TestLoadLatestPicksNewestRun(t *testing.T) {
	s := newTestStore(t)

	older := testFindings(runOne)
	_, err := s.SaveArtifacts(older, testStats(older, runOne), runOne)
	require.NoError(t, err)

	newer := testFindings(runTwo)
	newer[0].Description = "second run"
	_, err = s.SaveArtifacts(newer, testStats(newer, runTwo), runTwo)
	require.NoError(t, err)

	loaded, path, err := s.LoadLatest()
	require.NoError(t, err)
	assert.Contains(t, path, "20260825_090000")
	require.Len(t, loaded, 1)
	assert.Equal(t, "second run", loaded[0].Description)
}

func TestLoadLatestEmptyStore(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "never-written"), logger.NewMockLogger())
	require.NoError(t, err)

	findings, path, err := s.LoadLatest()
	require.NoError(t, err)
	assert.Nil(t, findings)
	assert.Empty(t, path)
}

func TestListRuns(t *testing.T) {
	s := newTestStore(t)
	for _, ts := range []time.Time{runOne, runTwo} {
		findings := testFindings(ts)
		_, err := s.SaveArtifacts(findings, testStats(findings, ts), ts)
		require.NoError(t, err)
	}
	// A stray file that does not parse as a run is ignored.
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "aggregated_findings_latest.json"), []byte("[]"), 0o600))

	runs, err := s.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, runTwo, runs[0].Timestamp, "newest first")
	assert.Equal(t, runOne, runs[1].Timestamp)
	assert.NotEmpty(t, runs[0].SummaryJSON)

	st, err := s.LoadSummary(runs[0].SummaryJSON)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Total)
}
