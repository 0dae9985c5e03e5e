package report

import "github.com/xab-mack/solpipe/internal/model"

// FilterBySeverity returns a copy of the findings map containing only entries
// at or above threshold. The run result itself is never modified; this is a
// presentation concern.
func FilterBySeverity(byPath map[string][]model.Finding, threshold model.Severity) map[string][]model.Finding {
	out := map[string][]model.Finding{}
	for path, fs := range byPath {
		var kept []model.Finding
		for _, f := range fs {
			if model.SeverityGTE(f.Severity, threshold) {
				kept = append(kept, f)
			}
		}
		if len(kept) > 0 {
			out[path] = kept
		}
	}
	return out
}

// AnySeverityAtOrAbove reports whether any finding in the run meets threshold.
func AnySeverityAtOrAbove(result *model.RunResult, threshold model.Severity) bool {
	for _, fs := range result.AllFindings() {
		for _, f := range fs {
			if model.SeverityGTE(f.Severity, threshold) {
				return true
			}
		}
	}
	return false
}
