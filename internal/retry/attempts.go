package retry

import "context"

// Attempts is the pull-based form of the executor, for call sites that need
// their own loop instead of a wrapped function. It shares the delay formula
// and attempt accounting with Do: the backoff sleep happens inside Next,
// before every attempt after a recorded failure.
//
//	a := retry.Start(ctx, cfg)
//	for a.Next() {
//		result, err = fetch()
//		if err == nil {
//			a.Success()
//			break
//		}
//		a.Failure(err)
//	}
//	if err := a.Err(); err != nil { ... }
type Attempts struct {
	ctx     context.Context
	cfg     Config
	max     int
	attempt int
	lastErr error
	done    bool
}

// ------------------------------------------------------------------------------------------------------
// Start begins a new attempt sequence governed by cfg.
func Start(ctx context.Context, cfg Config) *Attempts {
	return &Attempts{
		ctx: ctx,
		cfg: cfg,
		max: normalizedAttempts(cfg.MaxAttempts),
	}
}

// ------------------------------------------------------------------------------------------------------
// Next reports whether another attempt may run. It returns false once the
// attempt budget is spent, the last failure was classified non-retryable,
// or the context was canceled.
func (a *Attempts) Next() bool {
	if a.done || a.attempt >= a.max {
		return false
	}

	if a.attempt > 0 && a.lastErr != nil {
		if !shouldRetry(a.ctx, a.cfg, a.lastErr) {
			return false
		}
		if a.cfg.OnRetry != nil {
			a.cfg.OnRetry(a.lastErr, a.attempt)
		}
		if sleepErr := sleepFn(a.ctx, a.cfg.Delay(a.attempt)); sleepErr != nil {
			a.lastErr = sleepErr
			return false
		}
	}

	a.attempt++
	return true
}

// ------------------------------------------------------------------------------------------------------
// Attempt returns the 1-indexed number of the attempt currently running.
func (a *Attempts) Attempt() int {
	return a.attempt
}

// ------------------------------------------------------------------------------------------------------
// Failure records the error from the attempt that just ran.
func (a *Attempts) Failure(err error) {
	a.lastErr = err
}

// ------------------------------------------------------------------------------------------------------
// Success ends the sequence; Err will report nil.
func (a *Attempts) Success() {
	a.done = true
	a.lastErr = nil
}

// ------------------------------------------------------------------------------------------------------
// Err returns the last recorded failure, or nil after Success.
func (a *Attempts) Err() error {
	return a.lastErr
}
