package pipeline

import (
	"sort"
	"time"

	"github.com/xab-mack/solpipe/internal/model"
)

// AggregateOptions carries run metadata into the final report.
type AggregateOptions struct {
	RunID    string
	Pipeline Variant
	Engine   string
	Elapsed  time.Duration
}

// Aggregate folds per-artifact stage outcomes into one report. The fold is
// associative and order-independent: re-ordering outcomes changes neither the
// summary counts nor any per-path finding set. Artifacts with zero findings
// are left out of the findings maps but still counted as analyzed.
func Aggregate(outcomes []*Outcome, opts AggregateOptions) *model.RunResult {
	stages := map[model.StageName]model.AggregatedStage{
		model.StageParse:      newAggregatedStage(),
		model.StageStaticScan: newAggregatedStage(),
	}
	if opts.Pipeline.usesAI() {
		stages[model.StageAIReview] = newAggregatedStage()
	}

	total := 0
	withFindings := map[string]struct{}{}
	for _, o := range outcomes {
		if o == nil {
			continue
		}
		tally(stages, model.StageParse, o.Path, o.Parse)
		tally(stages, model.StageStaticScan, o.Path, o.Scan)

		if fs := flattenStatic(o.Static); len(fs) > 0 {
			stages[model.StageStaticScan].Findings[o.Path] = fs
			total += len(fs)
			withFindings[o.Path] = struct{}{}
		}

		if opts.Pipeline.usesAI() {
			tally(stages, model.StageAIReview, o.Path, o.AI)
			if len(o.AIFindings) > 0 {
				stages[model.StageAIReview].Findings[o.Path] = o.AIFindings
				total += len(o.AIFindings)
				withFindings[o.Path] = struct{}{}
			}
		}
	}

	for name, st := range stages {
		st.Status = stageStatus(st)
		if len(st.Findings) == 0 {
			st.Findings = nil
		}
		stages[name] = st
	}

	if opts.Pipeline.usesAI() {
		ai := stages[model.StageAIReview]
		ai.Stats = map[string]any{
			"engine":                opts.Engine,
			"contractsAnalyzed":     len(outcomes),
			"contractsWithFindings": len(ai.Findings),
		}
		stages[model.StageAIReview] = ai
	}

	return &model.RunResult{
		RunID:         opts.RunID,
		PipelineName:  string(opts.Pipeline),
		Status:        model.RunCompleted,
		TotalDuration: opts.Elapsed,
		Stages:        stages,
		Summary: model.Summary{
			TotalFindings:         total,
			ArtifactsAnalyzed:     len(outcomes),
			ArtifactsWithFindings: len(withFindings),
		},
	}
}

func newAggregatedStage() model.AggregatedStage {
	return model.AggregatedStage{
		Findings: map[string][]model.Finding{},
		PerPath:  map[string]model.StageResult{},
	}
}

func tally(stages map[model.StageName]model.AggregatedStage, name model.StageName, path string, res model.StageResult) {
	st := stages[name]
	switch res.Status {
	case model.StageCompleted:
		st.Completed++
	case model.StageFailed:
		st.Failed++
	default:
		st.Skipped++
	}
	st.PerPath[path] = res
	stages[name] = st
}

// flattenStatic merges the per-tool findings for one artifact, in tool-name
// order so the result is stable regardless of map iteration.
func flattenStatic(static map[string][]model.Finding) []model.Finding {
	if len(static) == 0 {
		return nil
	}
	tools := make([]string, 0, len(static))
	for tool := range static {
		tools = append(tools, tool)
	}
	sort.Strings(tools)
	var out []model.Finding
	for _, tool := range tools {
		out = append(out, static[tool]...)
	}
	return out
}

func stageStatus(st model.AggregatedStage) model.StageStatus {
	switch {
	case st.Completed > 0:
		return model.StageCompleted
	case st.Failed > 0:
		return model.StageFailed
	default:
		return model.StageSkipped
	}
}
