package tools

import "encoding/json"

// Mythril JSON (simplified)
type mythIssue struct {
	SwcID       string `json:"swcID"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Filename    string `json:"filename"`
	LineNo      int    `json:"lineno"`
}
type mythOut struct {
	Issues []mythIssue `json:"issues"`
}

func normalizeMythril(raw []byte) ([]RawFinding, error) {
	var o mythOut
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, err
	}
	var out []RawFinding
	for _, i := range o.Issues {
		sev := "high"
		switch i.Severity {
		case "Medium":
			sev = "medium"
		case "Low":
			sev = "low"
		}
		line := i.LineNo
		if line < 1 {
			line = 1
		}
		out = append(out, RawFinding{RuleID: i.SwcID, Severity: sev, Confidence: 0.7, File: i.Filename, StartLine: line, EndLine: line, Message: i.Description})
	}
	return out, nil
}
