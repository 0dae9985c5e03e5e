package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// SleepFunc suspends the calling goroutine for d or until ctx is cancelled.
// Injectable so tests can observe backoff without waiting.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Retrier runs a unit of work with bounded retries, exponential backoff and a
// hard per-attempt timeout. A timed-out attempt is retryable like any other
// failure.
type Retrier struct {
	Attempts   int           // additional attempts beyond the first
	Timeout    time.Duration // per-attempt ceiling
	MaxBackoff time.Duration // 0 leaves the 2^i growth uncapped
	Sleep      SleepFunc
	Log        *slog.Logger
}

func NewRetrier(attempts int, timeout time.Duration, log *slog.Logger) *Retrier {
	return &Retrier{Attempts: attempts, Timeout: timeout, Sleep: sleepContext, Log: log}
}

// Do executes op up to Attempts+1 times. Each attempt runs under its own
// deadline; between attempt i and i+1 it sleeps 2^i seconds. On exhaustion
// the last observed error is returned.
func (r *Retrier) Do(ctx context.Context, op func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= r.Attempts; attempt++ {
		if attempt > 0 {
			r.Log.Debug("retrying", "attempt", attempt)
		}
		err := r.runAttempt(ctx, op)
		if err == nil {
			return nil
		}
		lastErr = err
		// the caller going away is not a tool failure; stop immediately
		if ctx.Err() != nil {
			return lastErr
		}
		r.Log.Debug("attempt failed", "attempt", attempt, "err", err)
		if attempt < r.Attempts {
			if err := r.Sleep(ctx, r.backoff(attempt)); err != nil {
				return lastErr
			}
		}
	}
	return lastErr
}

func (r *Retrier) runAttempt(ctx context.Context, op func(ctx context.Context) error) error {
	attemptCtx := ctx
	cancel := context.CancelFunc(func() {})
	if r.Timeout > 0 {
		attemptCtx, cancel = context.WithTimeout(ctx, r.Timeout)
	}
	defer cancel()

	err := op(attemptCtx)
	if err == nil {
		return nil
	}
	// distinguish the attempt deadline from caller cancellation
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Errorf("%w after %s: %w", ErrAttemptTimeout, r.Timeout, err)
	}
	return err
}

func (r *Retrier) backoff(attempt int) time.Duration {
	d := time.Duration(1<<uint(attempt)) * time.Second
	if r.MaxBackoff > 0 && d > r.MaxBackoff {
		d = r.MaxBackoff
	}
	return d
}
