package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voleary/stratus/internal/adapter"
	"github.com/voleary/stratus/internal/models"
	"github.com/voleary/stratus/pkg/logger"
)

var testTime = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

func prowlerRecord() adapter.Record {
	return adapter.Record{
		Adapter:  "prowler",
		Provider: models.ProviderAWS,
		RawRecord: adapter.RawRecord{
			CheckID:        "s3_bucket_default_encryption",
			Title:          "Check if S3 buckets have default encryption enabled",
			Description:    "S3 bucket my-bucket does not have default encryption enabled.",
			NativeSeverity: "medium",
			NativeStatus:   "FAIL",
			Resource:       "my-bucket",
			AccountID:      "123456789012",
			Region:         "eu-west-1",
			Compliance:     []string{"CIS-1.5", "CIS-1.5", "NIST-800-53"},
		},
	}
}

func TestNormalizeProwlerFailure(t *testing.T) {
	n := New(logger.NewMockLogger(), nil)
	res := n.Normalize(prowlerRecord(), testTime)

	require.NotNil(t, res.Finding)
	f := res.Finding
	assert.Equal(t, models.GenerateFindingID(models.ProviderAWS, "s3_bucket_default_encryption", "my-bucket"), f.ID)
	assert.Equal(t, models.SeverityMedium, f.Severity)
	assert.Equal(t, models.StatusFail, f.Status)
	assert.Equal(t, "prowler", f.Source)
	assert.Equal(t, models.ProviderAWS, f.Provider)
	assert.Equal(t, []string{"CIS-1.5", "NIST-800-53"}, f.Compliance, "refs deduplicated, order preserved")
	assert.Equal(t, testTime, f.FirstSeen)
	assert.Equal(t, testTime, f.LastSeen)
	assert.False(t, res.UnknownSeverity)
}

func TestNormalizeFiltersPassing(t *testing.T) {
	n := New(logger.NewMockLogger(), nil)
	for _, status := range []string{"PASS", "pass", "passed"} {
		rec := prowlerRecord()
		rec.NativeStatus = status
		res := n.Normalize(rec, testTime)
		assert.True(t, res.Filtered, "status %q", status)
		assert.Nil(t, res.Finding)
	}
}

func TestNormalizeScoutSuiteSeverities(t *testing.T) {
	tests := []struct {
		native string
		want   models.Severity
	}{
		{"danger", models.SeverityHigh},
		{"warning", models.SeverityMedium},
		{"info", models.SeverityLow},
	}
	n := New(logger.NewMockLogger(), nil)
	for _, tt := range tests {
		rec := adapter.Record{
			Adapter:  "scoutsuite",
			Provider: models.ProviderAzure,
			RawRecord: adapter.RawRecord{
				CheckID:        "storage-account-public-traffic",
				Title:          "Storage account allows public traffic",
				NativeSeverity: tt.native,
				NativeStatus:   "FAIL",
				Resource:       "prodstorage",
			},
		}
		res := n.Normalize(rec, testTime)
		require.NotNil(t, res.Finding, "severity %q", tt.native)
		assert.Equal(t, tt.want, res.Finding.Severity)
	}
}

func TestNormalizeUnknownSeverityFailsClosed(t *testing.T) {
	mock := logger.NewMockLogger()
	n := New(mock, nil)

	rec := prowlerRecord()
	rec.NativeSeverity = "catastrophic"
	res := n.Normalize(rec, testTime)

	require.NotNil(t, res.Finding)
	assert.Equal(t, models.SeverityHigh, res.Finding.Severity)
	assert.True(t, res.UnknownSeverity)
	assert.True(t, mock.HasMessage("WARN", "Unknown native severity"))
}

func TestNormalizeSeverityOverride(t *testing.T) {
	n := New(logger.NewMockLogger(), map[string]models.Severity{
		"s3_bucket_default_encryption": models.SeverityLow,
	})
	res := n.Normalize(prowlerRecord(), testTime)
	require.NotNil(t, res.Finding)
	assert.Equal(t, models.SeverityLow, res.Finding.Severity)
}

func TestNormalizeInvalidRecord(t *testing.T) {
	mock := logger.NewMockLogger()
	n := New(mock, nil)

	rec := prowlerRecord()
	rec.Resource = ""
	res := n.Normalize(rec, testTime)

	assert.Nil(t, res.Finding)
	assert.True(t, res.Invalid)
	assert.True(t, mock.HasMessage("WARN", "invalid finding"))
}

func TestNormalizeAllCounts(t *testing.T) {
	records := []adapter.Record{
		prowlerRecord(),
		func() adapter.Record { r := prowlerRecord(); r.NativeStatus = "PASS"; return r }(),
		func() adapter.Record { r := prowlerRecord(); r.NativeSeverity = "weird"; r.Resource = "other"; return r }(),
		func() adapter.Record { r := prowlerRecord(); r.CheckID = ""; return r }(),
	}

	n := New(logger.NewMockLogger(), nil)
	findings, stats := n.NormalizeAll(records, testTime)

	assert.Len(t, findings, 2)
	assert.Equal(t, 2, stats.Kept)
	assert.Equal(t, 1, stats.Filtered)
	assert.Equal(t, 1, stats.Invalid)
	assert.Equal(t, 1, stats.UnknownSeverities)
}

func TestMapStatusUnknownIsFail(t *testing.T) {
	assert.Equal(t, models.StatusFail, mapStatus("ERROR"))
	assert.Equal(t, models.StatusFail, mapStatus(""))
	assert.Equal(t, models.StatusWarn, mapStatus("WARNING"))
	assert.Equal(t, models.StatusMuted, mapStatus("MUTED"))
}
