package report

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/xab-mack/solpipe/internal/model"
)

type sarif struct {
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}
type sarifDriver struct {
	Name string `json:"name"`
}

type sarifResult struct {
	RuleID    string       `json:"ruleId"`
	Level     string       `json:"level"`
	Message   sarifMessage `json:"message"`
	Locations []sarifLoc   `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}
type sarifLoc struct {
	Physical sarifPhys `json:"physicalLocation"`
}
type sarifPhys struct {
	ArtifactLocation sarifArt    `json:"artifactLocation"`
	Region           sarifRegion `json:"region"`
}
type sarifArt struct {
	URI string `json:"uri"`
}
type sarifRegion struct {
	StartLine int `json:"startLine"`
}

// ToSARIF renders every finding in the run, in path order, as SARIF 2.1.0.
func ToSARIF(result *model.RunResult) ([]byte, error) {
	byPath := result.AllFindings()
	paths := make([]string, 0, len(byPath))
	for p := range byPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var results []sarifResult
	for _, path := range paths {
		for _, f := range byPath[path] {
			level := "note"
			switch f.Severity {
			case model.SeverityMedium:
				level = "warning"
			case model.SeverityHigh, model.SeverityCritical:
				level = "error"
			}
			uri, line := splitLocation(f.Location, path)
			results = append(results, sarifResult{
				RuleID:  f.Source + ":" + f.Title,
				Level:   level,
				Message: sarifMessage{Text: f.Description},
				Locations: []sarifLoc{{Physical: sarifPhys{
					ArtifactLocation: sarifArt{URI: uri},
					Region:           sarifRegion{StartLine: line},
				}}},
			})
		}
	}
	s := sarif{Version: "2.1.0", Runs: []sarifRun{{Tool: sarifTool{Driver: sarifDriver{Name: "solpipe"}}, Results: results}}}
	return json.MarshalIndent(s, "", "  ")
}

// splitLocation breaks a "file:line" location apart, falling back to the
// artifact path when the tool supplied no file of its own.
func splitLocation(loc, fallback string) (string, int) {
	i := strings.LastIndexByte(loc, ':')
	if i < 0 {
		if loc == "" {
			return fallback, 1
		}
		return loc, 1
	}
	file := loc[:i]
	if file == "" {
		file = fallback
	}
	line, err := strconv.Atoi(loc[i+1:])
	if err != nil || line < 1 {
		line = 1
	}
	return file, line
}
