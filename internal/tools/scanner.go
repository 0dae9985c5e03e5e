package tools

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/xab-mack/solpipe/internal/model"
)

// toolArgs maps each supported tool to its invocation for a single artifact.
var toolArgs = map[string]func(path string) []string{
	"slither": func(path string) []string { return []string{"--json", "-", path} },
	"solhint": func(path string) []string { return []string{"-f", "json", path} },
	"myth":    func(path string) []string { return []string{"analyze", path, "-o", "json"} },
}

// Scanner runs the enabled external analyzers against one artifact at a time.
// One tool's internal failure never fails the whole scan call; that tool just
// contributes an empty finding list.
type Scanner struct {
	enabled []string
	log     *slog.Logger
}

func NewScanner(enabled []string, log *slog.Logger) (*Scanner, error) {
	var tools []string
	for _, t := range enabled {
		if _, ok := toolArgs[t]; !ok {
			return nil, fmt.Errorf("unknown static tool %q", t)
		}
		tools = append(tools, t)
	}
	sort.Strings(tools)
	return &Scanner{enabled: tools, log: log}, nil
}

func (s *Scanner) Tools() []string { return s.enabled }

func (s *Scanner) Scan(ctx context.Context, path string) (map[string][]model.Finding, error) {
	out := make(map[string][]model.Finding, len(s.enabled))
	for _, tool := range s.enabled {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[tool] = s.runTool(ctx, tool, path)
	}
	return out, nil
}

func (s *Scanner) runTool(ctx context.Context, tool, path string) []model.Finding {
	// give each tool at most an even share of the remaining artifact budget
	toolCtx := ctx
	if deadline, ok := ctx.Deadline(); ok {
		per := time.Until(deadline) / time.Duration(len(s.enabled))
		var cancel context.CancelFunc
		toolCtx, cancel = context.WithTimeout(ctx, per)
		defer cancel()
	}

	res := RunWithTimeout(toolCtx, tool, toolArgs[tool](path)...)
	if res.Err != nil {
		s.log.Debug("tool failed, absorbing", "tool", tool, "path", path, "err", res.Err)
		return []model.Finding{}
	}
	raw, err := Normalize(tool, res.Raw)
	if err != nil {
		s.log.Debug("tool output unparseable, absorbing", "tool", tool, "path", path, "err", err)
		return []model.Finding{}
	}
	return Convert(raw, tool)
}

// Convert lifts normalized tool output into report findings. Content comes
// from the tool untouched; the orchestrator only attributes the source.
func Convert(raw []RawFinding, source string) []model.Finding {
	out := make([]model.Finding, 0, len(raw))
	for _, f := range raw {
		conf := f.Confidence
		if conf == 0 {
			conf = 0.5
		}
		out = append(out, model.Finding{
			Source:      source,
			Severity:    model.ParseSeverity(f.Severity),
			Title:       f.RuleID,
			Description: f.Message,
			Location:    fmt.Sprintf("%s:%d", f.File, f.StartLine),
			Confidence:  conf,
		})
	}
	return out
}
