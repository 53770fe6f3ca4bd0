package merge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voleary/stratus/internal/models"
)

var (
	firstRun  = time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	secondRun = time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
)

func finding(checkID, resource string, sev models.Severity, seen time.Time) models.Finding {
	return models.Finding{
		FirstSeen: seen,
		LastSeen:  seen,
		ID:        models.GenerateFindingID(models.ProviderAWS, checkID, resource),
		Source:    "prowler",
		Provider:  models.ProviderAWS,
		CheckID:   checkID,
		Severity:  sev,
		Status:    models.StatusFail,
		Resource:  resource,
	}
}

func TestMergeNewFindings(t *testing.T) {
	current := []models.Finding{
		finding("check_a", "res-1", models.SeverityHigh, secondRun),
		finding("check_b", "res-2", models.SeverityLow, secondRun),
	}

	merged, stats := Merge(nil, current, secondRun, StaleRetain)

	require.Len(t, merged, 2)
	assert.Equal(t, Stats{New: 2}, stats)
	for _, f := range merged {
		assert.Equal(t, secondRun, f.FirstSeen)
		assert.Equal(t, secondRun, f.LastSeen)
	}
}

func TestMergePreservesFirstSeen(t *testing.T) {
	baseline := []models.Finding{finding("check_a", "res-1", models.SeverityHigh, firstRun)}

	updated := finding("check_a", "res-1", models.SeverityHigh, secondRun)
	updated.Description = "still failing, new detail"

	merged, stats := Merge(baseline, []models.Finding{updated}, secondRun, StaleRetain)

	require.Len(t, merged, 1)
	assert.Equal(t, Stats{Updated: 1}, stats)
	assert.Equal(t, firstRun, merged[0].FirstSeen, "FirstSeen survives from baseline")
	assert.Equal(t, secondRun, merged[0].LastSeen, "LastSeen advances to run time")
	assert.Equal(t, "still failing, new detail", merged[0].Description, "mutable fields from current run win")
}

func TestMergeStalePolicies(t *testing.T) {
	baseline := []models.Finding{finding("check_gone", "res-old", models.SeverityMedium, firstRun)}
	current := []models.Finding{finding("check_a", "res-1", models.SeverityHigh, secondRun)}

	t.Run("retain", func(t *testing.T) {
		merged, stats := Merge(baseline, current, secondRun, StaleRetain)
		require.Len(t, merged, 2)
		assert.Equal(t, Stats{New: 1, Stale: 1}, stats)
		for _, f := range merged {
			assert.False(t, f.Stale)
		}
	})

	t.Run("mark", func(t *testing.T) {
		merged, stats := Merge(baseline, current, secondRun, StaleMark)
		require.Len(t, merged, 2)
		assert.Equal(t, 1, stats.Stale)
		var marked int
		for _, f := range merged {
			if f.Stale {
				marked++
				assert.Equal(t, "check_gone", f.CheckID)
				assert.Equal(t, firstRun, f.LastSeen, "stale findings keep their old LastSeen")
			}
		}
		assert.Equal(t, 1, marked)
	})

	t.Run("drop", func(t *testing.T) {
		merged, stats := Merge(baseline, current, secondRun, StaleDrop)
		require.Len(t, merged, 1)
		assert.Equal(t, 1, stats.Stale)
		assert.Equal(t, "check_a", merged[0].CheckID)
	})
}

func TestMergeIdempotent(t *testing.T) {
	current := []models.Finding{
		finding("check_a", "res-1", models.SeverityHigh, firstRun),
		finding("check_b", "res-2", models.SeverityLow, firstRun),
	}

	once, _ := Merge(nil, current, firstRun, StaleRetain)
	twice, stats := Merge(once, current, secondRun, StaleRetain)

	require.Len(t, twice, len(once))
	assert.Equal(t, Stats{Updated: 2}, stats)
	for _, f := range twice {
		assert.Equal(t, firstRun, f.FirstSeen)
		assert.Equal(t, secondRun, f.LastSeen)
	}
}

func TestMergeCollapsesDuplicateIDsWithinRun(t *testing.T) {
	dup := finding("check_a", "res-1", models.SeverityHigh, secondRun)
	merged, stats := Merge(nil, []models.Finding{dup, dup}, secondRun, StaleRetain)

	assert.Len(t, merged, 1)
	assert.Equal(t, Stats{New: 1}, stats)
}

func TestMergeSortsBySeverityThenID(t *testing.T) {
	current := []models.Finding{
		finding("check_low", "r1", models.SeverityLow, secondRun),
		finding("check_crit", "r2", models.SeverityCritical, secondRun),
		finding("check_med", "r3", models.SeverityMedium, secondRun),
	}

	merged, _ := Merge(nil, current, secondRun, StaleRetain)

	require.Len(t, merged, 3)
	assert.Equal(t, models.SeverityCritical, merged[0].Severity)
	assert.Equal(t, models.SeverityMedium, merged[1].Severity)
	assert.Equal(t, models.SeverityLow, merged[2].Severity)
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		input   string
		want    StalePolicy
		wantErr bool
	}{
		{"", StaleRetain, false},
		{"retain", StaleRetain, false},
		{"mark", StaleMark, false},
		{"drop", StaleDrop, false},
		{"delete", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
		} else {
			require.NoError(t, err, "input %q", tt.input)
			assert.Equal(t, tt.want, got)
		}
	}
}
