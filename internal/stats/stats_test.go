package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voleary/stratus/internal/models"
)

var now = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

func sample() []models.Finding {
	mk := func(checkID, resource string, provider models.Provider, source, account string, sev models.Severity, refs []string) models.Finding {
		return models.Finding{
			ID:         models.GenerateFindingID(provider, checkID, resource),
			Source:     source,
			Provider:   provider,
			AccountID:  account,
			CheckID:    checkID,
			Severity:   sev,
			Status:     models.StatusFail,
			Resource:   resource,
			Compliance: refs,
		}
	}
	return []models.Finding{
		mk("c1", "r1", models.ProviderAWS, "prowler", "111", models.SeverityCritical, []string{"CIS-1.5"}),
		mk("c2", "r2", models.ProviderAWS, "prowler", "111", models.SeverityHigh, []string{"CIS-1.5", "NIST-800-53"}),
		mk("c3", "r3", models.ProviderAzure, "scoutsuite", "sub-1", models.SeverityHigh, nil),
		mk("c4", "r4", models.ProviderAzure, "scoutsuite", "", models.SeverityLow, nil),
	}
}

func TestComputeSeveritySumsToTotal(t *testing.T) {
	st := Compute(sample(), now)

	require.Equal(t, 4, st.Total)
	sum := 0
	for _, count := range st.BySeverity {
		sum += count
	}
	assert.Equal(t, st.Total, sum)
}

func TestComputeAllSeverityKeysPresent(t *testing.T) {
	st := Compute(nil, now)
	assert.Zero(t, st.Total)
	require.Len(t, st.BySeverity, 5)
	for _, sev := range models.Severities() {
		count, ok := st.BySeverity[sev]
		assert.True(t, ok, "missing key %s", sev)
		assert.Zero(t, count)
	}
}

func TestComputeGroupings(t *testing.T) {
	st := Compute(sample(), now)

	assert.Equal(t, 2, st.ByProvider[models.ProviderAWS])
	assert.Equal(t, 2, st.ByProvider[models.ProviderAzure])
	assert.Equal(t, 2, st.BySource["prowler"])
	assert.Equal(t, 2, st.BySource["scoutsuite"])
	assert.Equal(t, 2, st.ByAccount["111"])
	assert.Equal(t, 1, st.ByAccount["sub-1"])
	assert.NotContains(t, st.ByAccount, "", "blank accounts are not bucketed")

	// Each referenced framework counts once per finding.
	assert.Equal(t, 2, st.ByCompliance["CIS-1.5"])
	assert.Equal(t, 1, st.ByCompliance["NIST-800-53"])
	assert.Equal(t, now, st.GeneratedAt)
}

func TestComputeOrderIndependent(t *testing.T) {
	findings := sample()
	reversed := make([]models.Finding, len(findings))
	for i, f := range findings {
		reversed[len(findings)-1-i] = f
	}

	assert.Equal(t, Compute(findings, now), Compute(reversed, now))
}
