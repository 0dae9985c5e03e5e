package pipeline

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/xab-mack/solpipe/internal/model"
)

// Variant names a composition of pipeline stages.
type Variant string

const (
	VariantStaticOnly Variant = "static-only"
	VariantAIDirect   Variant = "ai-direct"
	VariantAIAgent    Variant = "ai-agent"
)

// ParseVariant maps a requested name onto the closed variant set. Unknown
// names are a configuration error, not a crash.
func ParseVariant(name string) (Variant, error) {
	switch Variant(name) {
	case VariantStaticOnly, VariantAIDirect, VariantAIAgent:
		return Variant(name), nil
	default:
		return "", &ConfigError{Reason: "unknown pipeline " + name + " (want static-only, ai-direct or ai-agent)"}
	}
}

func (v Variant) usesAI() bool { return v == VariantAIDirect || v == VariantAIAgent }

// Parser turns one artifact into a parsed contract.
type Parser interface {
	Parse(ctx context.Context, path string) (*model.Contract, error)
}

// Scanner runs the static tools against one artifact and returns findings
// keyed by tool name.
type Scanner interface {
	Scan(ctx context.Context, path string) (map[string][]model.Finding, error)
	Tools() []string
}

// Reviewer produces AI findings for a parsed contract, given the static
// findings as context.
type Reviewer interface {
	Review(ctx context.Context, contract *model.Contract, static map[string][]model.Finding) ([]model.Finding, error)
	Engine() string
}

// Outcome carries one artifact's stage results through aggregation.
type Outcome struct {
	Path       string
	Parse      model.StageResult
	Contract   *model.Contract
	Scan       model.StageResult
	Static     map[string][]model.Finding
	AI         model.StageResult
	AIFindings []model.Finding
}

// Manager is the pipeline orchestration core. Collaborators are supplied at
// construction; their absence is a wiring mistake, not a runtime probe.
type Manager struct {
	resolver *Resolver
	planner  *Planner
	parser   Parser
	scanner  Scanner
	reviewer Reviewer
	store    CacheStore
	sleep    SleepFunc
	fprint   func(path string) string
	log      *slog.Logger
}

// Option adjusts a Manager at construction.
type Option func(*Manager)

// WithStore replaces the default always-miss cache store.
func WithStore(s CacheStore) Option { return func(m *Manager) { m.store = s } }

// WithConfig overrides the starting config (before any Tune pass).
func WithConfig(cfg Config) Option {
	return func(m *Manager) { m.planner = NewPlanner(cfg, m.log) }
}

// WithSleep overrides the backoff sleep, for tests.
func WithSleep(s SleepFunc) Option { return func(m *Manager) { m.sleep = s } }

// WithFingerprint strengthens cache keys from mtime to a content hash.
func WithFingerprint(f func(path string) string) Option {
	return func(m *Manager) { m.fprint = f }
}

func NewManager(parser Parser, scanner Scanner, reviewer Reviewer, log *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		resolver: NewResolver(log),
		planner:  NewPlanner(DefaultConfig(), log),
		parser:   parser,
		scanner:  scanner,
		reviewer: reviewer,
		store:    NoopStore{},
		sleep:    sleepContext,
		fprint:   func(string) string { return "" },
		log:      log,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Stats returns a snapshot of the current pipeline config.
func (m *Manager) Stats() Config { return m.planner.Stats() }

// Tune re-runs the workload heuristics and returns the resulting config.
func (m *Manager) Tune(fileCount, toolCount int) Config { return m.planner.Tune(fileCount, toolCount) }

// Run drives one pipeline invocation: validate -> parse and scan ->
// optional AI review -> aggregate. A collaborator failure for one artifact is
// recorded on that artifact and never aborts its siblings.
func (m *Manager) Run(ctx context.Context, paths []string, variant Variant) (*model.RunResult, error) {
	if _, err := ParseVariant(string(variant)); err != nil {
		return nil, err
	}
	if variant.usesAI() && m.reviewer == nil {
		return nil, &ConfigError{Reason: "pipeline " + string(variant) + " requires an AI reviewer"}
	}
	runID := uuid.NewString()
	log := m.log.With("run", runID, "pipeline", string(variant))
	start := time.Now()

	var files []string
	for _, p := range paths {
		files = append(files, m.resolver.Resolve(p)...)
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, ErrNoEligibleArtifacts
	}

	toolCount := len(m.scanner.Tools())
	if variant.usesAI() {
		toolCount++
	}
	cfg := m.planner.Tune(len(files), toolCount)
	retrier := NewRetrier(cfg.RetryAttempts, cfg.Timeout(), log)
	retrier.Sleep = m.sleep
	log.Info("pipeline started", "artifacts", len(files), "tools", toolCount,
		"parallel", m.planner.ShouldParallelize(toolCount, len(files)))

	outcomes := make([]*Outcome, len(files))
	parallel := m.planner.ShouldParallelize(toolCount, len(files))

	phase := func(work func(i int)) {
		if parallel {
			g := new(errgroup.Group)
			g.SetLimit(cfg.MaxConcurrentTools)
			for i := range files {
				i := i
				g.Go(func() error { work(i); return nil })
			}
			_ = g.Wait()
			return
		}
		for i := range files {
			work(i)
		}
	}

	// Parse and static scan, strictly in order within each artifact.
	phase(func(i int) {
		outcomes[i] = m.parseAndScan(ctx, retrier, cfg, files[i], log)
	})

	// AI review for artifacts that parsed cleanly.
	if variant.usesAI() {
		phase(func(i int) {
			m.review(ctx, retrier, outcomes[i], log)
		})
	} else {
		for _, o := range outcomes {
			o.AI = model.StageResult{Name: model.StageAIReview, Status: model.StageSkipped}
		}
	}

	result := Aggregate(outcomes, AggregateOptions{
		RunID:    runID,
		Pipeline: variant,
		Engine:   m.engineLabel(variant),
		Elapsed:  time.Since(start),
	})
	log.Info("pipeline finished", "status", string(result.Status),
		"findings", result.Summary.TotalFindings, "elapsed", result.TotalDuration)
	return result, nil
}

func (m *Manager) engineLabel(variant Variant) string {
	if !variant.usesAI() || m.reviewer == nil {
		return ""
	}
	return m.reviewer.Engine()
}

func (m *Manager) parseAndScan(ctx context.Context, retrier *Retrier, cfg Config, path string, log *slog.Logger) *Outcome {
	o := &Outcome{Path: path}

	parseStart := time.Now()
	var contract *model.Contract
	err := retrier.Do(ctx, func(ctx context.Context) error {
		c, err := m.parser.Parse(ctx, path)
		if err != nil {
			return err
		}
		contract = c
		return nil
	})
	o.Parse = stageResult(model.StageParse, parseStart, err, path)
	if err != nil {
		log.Warn("parse failed", "artifact", path, "err", err)
		o.Scan = model.StageResult{Name: model.StageStaticScan, Status: model.StageSkipped}
		o.AI = model.StageResult{Name: model.StageAIReview, Status: model.StageSkipped}
		return o
	}
	o.Contract = contract

	scanStart := time.Now()
	var static map[string][]model.Finding
	if cfg.CacheEnabled {
		static = m.cachedScan(path)
	}
	if static == nil {
		err = retrier.Do(ctx, func(ctx context.Context) error {
			s, err := m.scanner.Scan(ctx, path)
			if err != nil {
				return err
			}
			static = s
			return nil
		})
		if err == nil && cfg.CacheEnabled {
			for tool, fs := range static {
				m.store.Put(CacheKey(tool, path, m.fprint(path)), fs)
			}
		}
	}
	o.Scan = stageResult(model.StageStaticScan, scanStart, err, path)
	if err != nil {
		log.Warn("static scan failed", "artifact", path, "err", err)
		return o
	}
	o.Static = static
	return o
}

// cachedScan returns the static findings map only when every tool hits.
func (m *Manager) cachedScan(path string) map[string][]model.Finding {
	tools := m.scanner.Tools()
	if len(tools) == 0 {
		return nil
	}
	out := make(map[string][]model.Finding, len(tools))
	for _, tool := range tools {
		fs, ok := m.store.Get(CacheKey(tool, path, m.fprint(path)))
		if !ok {
			return nil
		}
		out[tool] = fs
	}
	return out
}

func (m *Manager) review(ctx context.Context, retrier *Retrier, o *Outcome, log *slog.Logger) {
	if o.Contract == nil {
		o.AI = model.StageResult{Name: model.StageAIReview, Status: model.StageSkipped}
		return
	}
	start := time.Now()
	var findings []model.Finding
	err := retrier.Do(ctx, func(ctx context.Context) error {
		fs, err := m.reviewer.Review(ctx, o.Contract, o.Static)
		if err != nil {
			return err
		}
		findings = fs
		return nil
	})
	o.AI = stageResult(model.StageAIReview, start, err, o.Path)
	if err != nil {
		log.Warn("ai review failed", "artifact", o.Path, "err", err)
		return
	}
	o.AIFindings = findings
}

func stageResult(name model.StageName, start time.Time, err error, artifact string) model.StageResult {
	res := model.StageResult{Name: name, Status: model.StageCompleted, Duration: time.Since(start)}
	if err != nil {
		res.Status = model.StageFailed
		res.Error = (&StageError{Stage: name, Artifact: artifact, Err: err}).Error()
	}
	return res
}
