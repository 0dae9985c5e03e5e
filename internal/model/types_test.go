package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want Severity
	}{
		{"critical", SeverityCritical},
		{"high", SeverityHigh},
		{"medium", SeverityMedium},
		{"low", SeverityLow},
		{"info", SeverityInfo},
		{"", SeverityInfo},
		{"bogus", SeverityInfo},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ParseSeverity(tc.in), tc.in)
	}
}

func TestSeverityGTE(t *testing.T) {
	assert.True(t, SeverityGTE(SeverityCritical, SeverityHigh))
	assert.True(t, SeverityGTE(SeverityMedium, SeverityMedium))
	assert.False(t, SeverityGTE(SeverityLow, SeverityMedium))
	assert.False(t, SeverityGTE(SeverityInfo, SeverityLow))
}

func TestAllFindingsMergesStages(t *testing.T) {
	r := &RunResult{
		Stages: map[StageName]AggregatedStage{
			StageStaticScan: {Findings: map[string][]Finding{
				"/c/A.sol": {{Source: "slither", Title: "s"}},
			}},
			StageAIReview: {Findings: map[string][]Finding{
				"/c/A.sol": {{Source: "ai", Title: "a"}},
				"/c/B.sol": {{Source: "ai", Title: "b"}},
			}},
		},
	}
	got := r.AllFindings()
	assert.Len(t, got["/c/A.sol"], 2)
	assert.Len(t, got["/c/B.sol"], 1)
}
