// Package retry wraps cenkalti/backoff with an error-classification hook so
// callers decide which failures are worth another attempt.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Classifier reports whether an error is transient. Permanent errors abort
// the loop immediately.
type Classifier func(error) bool

// Do runs op up to maxAttempts times, sleeping baseDelay, 2*baseDelay,
// 4*baseDelay ... between attempts. Cancelling ctx aborts the loop between
// attempts. The error returned is the last one op produced.
func Do(ctx context.Context, maxAttempts int, baseDelay time.Duration, transient Classifier, op func(ctx context.Context) error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = baseDelay
	policy.Multiplier = 2
	policy.RandomizationFactor = 0
	policy.MaxElapsedTime = 0

	wrapped := func() error {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if transient != nil && !transient(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	return backoff.Retry(wrapped, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(maxAttempts-1)), ctx))
}
