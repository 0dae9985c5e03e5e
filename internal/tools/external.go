package tools

import (
	"context"
	"encoding/json"
	"os/exec"
	"time"
)

// Result is one external tool invocation's raw output.
type Result struct {
	Tool     string
	Raw      []byte
	Err      error
	Duration time.Duration
}

func RunWithTimeout(ctx context.Context, tool string, args ...string) Result {
	start := time.Now()
	cmd := exec.CommandContext(ctx, tool, args...)
	out, err := cmd.Output()
	return Result{Tool: tool, Raw: out, Err: err, Duration: time.Since(start)}
}

// RawFinding is the unified shape tool outputs are normalized into before
// conversion to the report model.
type RawFinding struct {
	RuleID     string  `json:"ruleId"`
	Severity   string  `json:"severity"`
	Confidence float64 `json:"confidence"`
	File       string  `json:"file"`
	StartLine  int     `json:"startLine"`
	EndLine    int     `json:"endLine"`
	Message    string  `json:"message"`
}

// Normalize converts known tool outputs into the unified structure.
func Normalize(tool string, raw []byte) ([]RawFinding, error) {
	switch tool {
	case "solhint":
		return normalizeSolhint(raw)
	case "slither":
		return normalizeSlither(raw)
	case "myth":
		return normalizeMythril(raw)
	default:
		var out []RawFinding
		err := json.Unmarshal(raw, &out)
		return out, err
	}
}
