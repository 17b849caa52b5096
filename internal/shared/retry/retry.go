// Package retry wraps idempotent operations with a bounded
// exponential-backoff-with-jitter policy. Callers supply a classifier that
// decides which errors are worth another attempt; everything else fails fast.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Classifier reports whether an error is transient and retryable.
type Classifier func(err error) bool

// Policy holds the retry strategy parameters.
type Policy struct {
	// MaxAttempts is the total number of attempts including the first one.
	MaxAttempts int

	// InitialInterval is the first retry delay.
	InitialInterval time.Duration

	// MaxInterval caps the delay between attempts.
	MaxInterval time.Duration

	// RandomizationFactor adds jitter to prevent synchronized retries.
	RandomizationFactor float64
}

// DefaultPolicy returns the policy used for store write conflicts.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:         3,
		InitialInterval:     50 * time.Millisecond,
		MaxInterval:         2 * time.Second,
		RandomizationFactor: 0.3,
	}
}

// Do runs op until it succeeds, fails with a non-retryable error, the attempt
// budget is exhausted, or ctx is cancelled. The operation must be idempotent.
func Do(ctx context.Context, policy Policy, retryable Classifier, op func(ctx context.Context) error) error {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = policy.InitialInterval
	expBackoff.MaxInterval = policy.MaxInterval
	expBackoff.RandomizationFactor = policy.RandomizationFactor
	expBackoff.Reset()

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if retryable == nil || !retryable(lastErr) {
			return lastErr
		}
		if attempt == policy.MaxAttempts {
			break
		}

		delay := expBackoff.NextBackOff()
		if delay == backoff.Stop {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return fmt.Errorf("retries exhausted after %d attempts: %w", policy.MaxAttempts, lastErr)
}
