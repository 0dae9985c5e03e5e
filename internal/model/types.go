package model

import "time"

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func ParseSeverity(s string) Severity {
	switch s {
	case string(SeverityCritical):
		return SeverityCritical
	case string(SeverityHigh):
		return SeverityHigh
	case string(SeverityMedium):
		return SeverityMedium
	case string(SeverityLow):
		return SeverityLow
	default:
		return SeverityInfo
	}
}

func SeverityGTE(a, b Severity) bool {
	order := map[Severity]int{SeverityInfo: 1, SeverityLow: 2, SeverityMedium: 3, SeverityHigh: 4, SeverityCritical: 5}
	return order[a] >= order[b]
}

// Finding is a single observation reported by a tool or AI source. The
// orchestrator groups findings but never rewrites their content.
type Finding struct {
	Source       string   `json:"source"`
	Severity     Severity `json:"severity"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Location     string   `json:"location"`
	Confidence   float64  `json:"confidence"`
	Reasoning    string   `json:"reasoning,omitempty"`
	SuggestedFix string   `json:"suggestedFix,omitempty"`
}

type StageName string

const (
	StageParse      StageName = "parse"
	StageStaticScan StageName = "staticScan"
	StageAIReview   StageName = "aiReview"
)

type StageStatus string

const (
	StageCompleted StageStatus = "completed"
	StageFailed    StageStatus = "failed"
	StageSkipped   StageStatus = "skipped"
)

// StageResult records one stage outcome for one artifact.
type StageResult struct {
	Name     StageName     `json:"name"`
	Status   StageStatus   `json:"status"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// AggregatedStage summarizes one stage across all artifacts in a run.
type AggregatedStage struct {
	Status    StageStatus            `json:"status"`
	Completed int                    `json:"completed"`
	Failed    int                    `json:"failed"`
	Skipped   int                    `json:"skipped"`
	Findings  map[string][]Finding   `json:"findings,omitempty"`
	Stats     map[string]any         `json:"stats,omitempty"`
	PerPath   map[string]StageResult `json:"perPath,omitempty"`
}

type RunStatus string

const (
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

type Summary struct {
	TotalFindings         int `json:"totalFindings"`
	ArtifactsAnalyzed     int `json:"artifactsAnalyzed"`
	ArtifactsWithFindings int `json:"artifactsWithFindings"`
}

// RunResult is the report returned to the caller for one pipeline invocation.
type RunResult struct {
	RunID         string                        `json:"runId"`
	PipelineName  string                        `json:"pipeline"`
	Status        RunStatus                     `json:"status"`
	TotalDuration time.Duration                 `json:"totalDuration"`
	Stages        map[StageName]AggregatedStage `json:"stages"`
	Summary       Summary                       `json:"summary"`
}

// AllFindings merges every stage's findings-by-path map into one map.
func (r *RunResult) AllFindings() map[string][]Finding {
	out := map[string][]Finding{}
	for _, st := range r.Stages {
		for path, fs := range st.Findings {
			out[path] = append(out[path], fs...)
		}
	}
	return out
}

// Contract is the parsed unit produced by the Parser collaborator.
type Contract struct {
	Name      string   `json:"name"`
	Path      string   `json:"path"`
	Source    string   `json:"-"`
	AST       any      `json:"-"`
	Functions []string `json:"functions"`
	Events    []string `json:"events"`
	Modifiers []string `json:"modifiers"`
}
