package pipeline

import (
	"log/slog"
	"sync"
)

// Planner decides between serial and parallel execution and tunes the worker
// and timeout budgets from the workload size.
type Planner struct {
	mu  sync.Mutex
	cfg Config
	log *slog.Logger
}

func NewPlanner(cfg Config, log *slog.Logger) *Planner {
	return &Planner{cfg: cfg, log: log}
}

// ShouldParallelize favors fan-out whenever there is more than one unit of
// independent work along either axis.
func (p *Planner) ShouldParallelize(toolCount, fileCount int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.cfg.ParallelEnabled {
		return false
	}
	return (toolCount > 1 && fileCount >= 1) || (fileCount > 2 && toolCount >= 1)
}

// Tune adjusts concurrency and timeout budgets for the given workload. The
// ceiling and the per-call timeout scale together so heavier batches get
// proportionally more time without starving any single tool call. Tune runs
// to completion before any concurrent stage work reads the config.
func (p *Planner) Tune(fileCount, toolCount int) Config {
	p.mu.Lock()
	defer p.mu.Unlock()

	total := fileCount * toolCount
	switch {
	case total > 10:
		p.cfg.MaxConcurrentTools = min(4, toolCount)
	case total > 5:
		p.cfg.MaxConcurrentTools = min(3, toolCount)
	default:
		p.cfg.MaxConcurrentTools = min(2, toolCount)
	}
	if p.cfg.MaxConcurrentTools < 1 {
		p.cfg.MaxConcurrentTools = 1
	}
	p.cfg.TimeoutSeconds = 60 + total*10

	p.log.Debug("tuned pipeline config",
		"maxConcurrentTools", p.cfg.MaxConcurrentTools,
		"timeoutSeconds", p.cfg.TimeoutSeconds)
	return p.cfg
}

// Stats returns a snapshot of the current config.
func (p *Planner) Stats() Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg
}
