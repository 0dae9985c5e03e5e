package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xab-mack/solpipe/internal/model"
)

func sampleResult() *model.RunResult {
	return &model.RunResult{
		PipelineName: "static-only",
		Status:       model.RunCompleted,
		Stages: map[model.StageName]model.AggregatedStage{
			model.StageStaticScan: {
				Status: model.StageCompleted,
				Findings: map[string][]model.Finding{
					"/c/Token.sol": {
						{Source: "slither", Severity: model.SeverityHigh, Title: "reentrancy-eth", Description: "Reentrancy", Location: "Token.sol:42", Confidence: 0.85},
						{Source: "solhint", Severity: model.SeverityLow, Title: "func-visibility", Description: "Visibility", Location: "Token.sol:7", Confidence: 0.5},
					},
				},
			},
		},
		Summary: model.Summary{TotalFindings: 2, ArtifactsAnalyzed: 1, ArtifactsWithFindings: 1},
	}
}

func TestToSARIF(t *testing.T) {
	data, err := ToSARIF(sampleResult())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "2.1.0", doc["version"])

	runs := doc["runs"].([]any)
	require.Len(t, runs, 1)
	results := runs[0].(map[string]any)["results"].([]any)
	require.Len(t, results, 2)

	first := results[0].(map[string]any)
	assert.Equal(t, "slither:reentrancy-eth", first["ruleId"])
	assert.Equal(t, "error", first["level"])
}

func TestSplitLocation(t *testing.T) {
	file, line := splitLocation("Token.sol:42", "/c/Token.sol")
	assert.Equal(t, "Token.sol", file)
	assert.Equal(t, 42, line)

	file, line = splitLocation("", "/c/Token.sol")
	assert.Equal(t, "/c/Token.sol", file)
	assert.Equal(t, 1, line)

	file, line = splitLocation(":10", "/c/Token.sol")
	assert.Equal(t, "/c/Token.sol", file)
	assert.Equal(t, 10, line)

	file, line = splitLocation("withdraw()", "/c/Token.sol")
	assert.Equal(t, "withdraw()", file)
	assert.Equal(t, 1, line)
}

func TestFilterBySeverity(t *testing.T) {
	byPath := sampleResult().AllFindings()
	filtered := FilterBySeverity(byPath, model.SeverityMedium)
	require.Len(t, filtered["/c/Token.sol"], 1)
	assert.Equal(t, "reentrancy-eth", filtered["/c/Token.sol"][0].Title)

	none := FilterBySeverity(byPath, model.SeverityCritical)
	assert.Empty(t, none)
}

func TestAnySeverityAtOrAbove(t *testing.T) {
	res := sampleResult()
	assert.True(t, AnySeverityAtOrAbove(res, model.SeverityHigh))
	assert.False(t, AnySeverityAtOrAbove(res, model.SeverityCritical))
}
