// Package retry bounds transient-failure handling around a single external
// call with exponential backoff.
package retry

import (
	"context"
	"time"
)

// Policy configures retry behaviour for one provider call.
type Policy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int

	// BaseDelay is the wait before the second attempt; attempt i waits
	// BaseDelay * 2^(i-1).
	BaseDelay time.Duration
}

// DefaultPolicy matches the pipeline defaults: three attempts, one second base.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: time.Second}
}

// Execute runs fn up to policy.MaxAttempts times. Errors for which transient
// returns false propagate immediately; transient errors are retried with
// exponential delay until attempts are exhausted, then the last error is
// returned. Sleeps respect ctx cancellation.
func Execute(ctx context.Context, policy Policy, transient func(error) bool, fn func(context.Context) error) error {
	attempts := policy.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	base := policy.BaseDelay
	if base <= 0 {
		base = 100 * time.Millisecond
	}

	var lastErr error
	for i := 1; i <= attempts; i++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if transient != nil && !transient(err) {
			return err
		}
		if i == attempts {
			return lastErr
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoffFor(base, i)):
		}
	}
	return lastErr
}

// backoffFor returns the delay after the i-th failed attempt (1-based):
// base, 2*base, 4*base, ...
func backoffFor(base time.Duration, attempt int) time.Duration {
	return base * time.Duration(1<<uint(attempt-1))
}
