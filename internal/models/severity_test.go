package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityRankOrdering(t *testing.T) {
	sevs := Severities()
	for i := 1; i < len(sevs); i++ {
		assert.Less(t, sevs[i-1].Rank(), sevs[i].Rank(),
			"%s should outrank %s", sevs[i-1], sevs[i])
	}
	assert.Equal(t, 5, Severity("bogus").Rank())
}

func TestSeverityValid(t *testing.T) {
	for _, s := range Severities() {
		assert.True(t, s.Valid(), "%s", s)
	}
	assert.False(t, Severity("").Valid())
	assert.False(t, Severity("Critical").Valid(), "canonical form is lowercase")
}

func TestSeverityDisplay(t *testing.T) {
	tests := []struct {
		sev  Severity
		want string
	}{
		{SeverityCritical, "Critical"},
		{SeverityHigh, "High"},
		{SeverityMedium, "Medium"},
		{SeverityLow, "Low"},
		{SeverityInfo, "Informational"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.sev.Display())
	}
}

func TestStatusActionable(t *testing.T) {
	assert.True(t, StatusFail.Actionable())
	assert.True(t, StatusWarn.Actionable())
	assert.False(t, StatusPass.Actionable())
	assert.False(t, StatusMuted.Actionable())
}

func TestProviderDisplay(t *testing.T) {
	assert.Equal(t, "AWS", ProviderAWS.Display())
	assert.Equal(t, "Azure", ProviderAzure.Display())
	assert.Equal(t, "GCP", ProviderGCP.Display())
}
