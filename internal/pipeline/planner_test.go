package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldParallelize(t *testing.T) {
	tests := []struct {
		name     string
		tools    int
		files    int
		parallel bool
		want     bool
	}{
		{"multiple tools one file", 2, 1, true, true},
		{"many files one tool", 1, 3, true, true},
		{"one tool one file", 1, 1, true, false},
		{"one tool two files", 1, 2, true, false},
		{"disabled overrides everything", 5, 50, false, false},
		{"many files no tools", 0, 10, true, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ParallelEnabled = tc.parallel
			p := NewPlanner(cfg, testLogger())
			assert.Equal(t, tc.want, p.ShouldParallelize(tc.tools, tc.files))
		})
	}
}

func TestShouldParallelizeManyFilesAnyTools(t *testing.T) {
	p := NewPlanner(DefaultConfig(), testLogger())
	for tools := 1; tools <= 6; tools++ {
		assert.True(t, p.ShouldParallelize(tools, 3), "tools=%d", tools)
	}
}

func TestTuneBudgets(t *testing.T) {
	tests := []struct {
		name        string
		files       int
		tools       int
		wantWorkers int
		wantTimeout int
	}{
		{"large batch", 3, 4, 4, 180},
		{"medium batch", 2, 3, 3, 120},
		{"small batch", 1, 2, 2, 80},
		{"tool-bound ceiling", 20, 1, 1, 260},
		{"empty workload keeps a worker", 0, 0, 1, 60},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPlanner(DefaultConfig(), testLogger())
			cfg := p.Tune(tc.files, tc.tools)
			assert.Equal(t, tc.wantWorkers, cfg.MaxConcurrentTools)
			assert.Equal(t, tc.wantTimeout, cfg.TimeoutSeconds)
			assert.GreaterOrEqual(t, cfg.MaxConcurrentTools, 1)
			assert.GreaterOrEqual(t, cfg.TimeoutSeconds, 1)
		})
	}
}

func TestTuneMatchesStatsSnapshot(t *testing.T) {
	p := NewPlanner(DefaultConfig(), testLogger())
	tuned := p.Tune(3, 4)
	assert.Equal(t, tuned, p.Stats())
}
