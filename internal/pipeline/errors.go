package pipeline

import (
	"errors"
	"fmt"

	"github.com/xab-mack/solpipe/internal/model"
)

// ErrNoEligibleArtifacts aborts a run whose inputs resolve to zero Solidity files.
var ErrNoEligibleArtifacts = errors.New("no eligible artifacts found")

// ErrAttemptTimeout marks an attempt that was cancelled by the per-call timeout.
// It is retryable like any other attempt failure.
var ErrAttemptTimeout = errors.New("attempt timed out")

// ConfigError reports an invalid pipeline selection or option set. It aborts
// the whole run.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "pipeline configuration error: " + e.Reason }

// StageError records a collaborator call that failed after exhausting retries.
// It is scoped to one (stage, artifact) pair and never aborts sibling artifacts.
type StageError struct {
	Stage    model.StageName
	Artifact string
	Err      error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed for %s: %v", e.Stage, e.Artifact, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
