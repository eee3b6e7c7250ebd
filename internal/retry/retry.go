package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// Config controls retry behavior for wrapped model and playback calls.
// A Config is immutable once constructed and safe to share across calls.
type Config struct {
	MaxAttempts     int
	BaseDelay       time.Duration
	MaxDelay        time.Duration
	ExponentialBase float64
	Jitter          bool

	// Retryable classifies errors. Nil retries everything except context
	// cancellation.
	Retryable func(error) bool

	// OnRetry fires before each backoff sleep with the failed attempt's
	// error and number. Telemetry only; it cannot affect control flow.
	OnRetry func(err error, attempt int)
}

// Indirected for tests.
var (
	sleepFn   = sleepContext
	randFloat = rand.Float64
)

// ------------------------------------------------------------------------------------------------------
// Do runs op up to cfg.MaxAttempts times, sleeping with exponential backoff
// between attempts. Non-retryable errors propagate immediately; the final
// attempt's error propagates as-is. The backoff sleep honors ctx
// cancellation, so a canceled caller is never stuck waiting out a delay.
func Do(ctx context.Context, cfg Config, op func(context.Context) error) error {
	attempts := normalizedAttempts(cfg.MaxAttempts)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}

		if attempt == attempts || !shouldRetry(ctx, cfg, lastErr) {
			return lastErr
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(lastErr, attempt)
		}

		if sleepErr := sleepFn(ctx, cfg.Delay(attempt)); sleepErr != nil {
			return sleepErr
		}
	}

	return lastErr
}

// ------------------------------------------------------------------------------------------------------
// Delay computes the backoff before the attempt following the given one.
// attempt is 1-indexed over failed attempts. With jitter the result lies in
// [raw, raw*1.25).
func (c Config) Delay(attempt int) time.Duration {
	raw := float64(c.BaseDelay) * math.Pow(c.ExponentialBase, float64(attempt-1))
	if max := float64(c.MaxDelay); raw > max {
		raw = max
	}
	if c.Jitter {
		raw *= 1 + randFloat()*0.25
	}
	return time.Duration(raw)
}

// ------------------------------------------------------------------------------------------------------
func normalizedAttempts(maxAttempts int) int {
	if maxAttempts < 1 {
		return 1
	}
	return maxAttempts
}

// ------------------------------------------------------------------------------------------------------
func shouldRetry(ctx context.Context, cfg Config, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if cfg.Retryable == nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false
		}
		return true
	}
	return cfg.Retryable(err)
}

// ------------------------------------------------------------------------------------------------------
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
