package tools

import "encoding/json"

// Solhint JSON (eslint-style report, simplified)
type solhintMsg struct {
	RuleID   string `json:"ruleId"`
	Message  string `json:"message"`
	Severity int    `json:"severity"` // 1 warning, 2 error
	Line     int    `json:"line"`
	EndLine  int    `json:"endLine"`
}
type solhintFile struct {
	FilePath string       `json:"filePath"`
	Messages []solhintMsg `json:"messages"`
}

func normalizeSolhint(raw []byte) ([]RawFinding, error) {
	var files []solhintFile
	if err := json.Unmarshal(raw, &files); err != nil {
		return nil, err
	}
	var out []RawFinding
	for _, f := range files {
		for _, m := range f.Messages {
			rule := m.RuleID
			if rule == "" {
				// solhint reports compiler/parse failures without a rule id
				rule = "parse-error"
			}
			sev := "low"
			if m.Severity >= 2 {
				sev = "medium"
			}
			line := m.Line
			if line < 1 {
				line = 1
			}
			end := m.EndLine
			if end < line {
				end = line
			}
			out = append(out, RawFinding{
				RuleID:     rule,
				Severity:   sev,
				Confidence: 0.5,
				File:       f.FilePath,
				StartLine:  line,
				EndLine:    end,
				Message:    m.Message,
			})
		}
	}
	return out, nil
}
