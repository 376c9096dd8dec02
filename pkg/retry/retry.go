// Package retry provides a fixed-attempt, fixed-delay retry policy for
// calls that cross into an external collaborator (exchange REST API,
// blockchain RPC). Retries are blind: every error is retried the same way
// until the attempt budget is spent, then the last error is returned.
package retry

import (
	"context"
	"time"
)

// Policy describes how many times a call is attempted and how long to wait
// between attempts. The zero value performs exactly one attempt.
type Policy struct {
	Attempts int
	Delay    time.Duration
}

// Do runs fn until it succeeds or the attempt budget is exhausted.
// The context is checked between attempts; a cancelled context stops the
// loop and returns the context error.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.Delay):
			}
		}
		if lastErr = fn(); lastErr == nil {
			return nil
		}
	}
	return lastErr
}

// Do runs fn under the policy and returns its value alongside the final
// error. The zero value of T is returned when every attempt fails.
func Do[T any](ctx context.Context, p Policy, fn func() (T, error)) (T, error) {
	var out T
	err := p.Do(ctx, func() error {
		var innerErr error
		out, innerErr = fn()
		return innerErr
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
