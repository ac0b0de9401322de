package ai

import (
	"context"
	"time"
)

// Retry runs op up to maxAttempts times, doubling the delay after each
// failure starting from baseDelay. An error that retryable rejects is
// returned at once; a nil retryable retries every error. Cancellation of
// ctx stops retries and returns the context's error. Otherwise the error
// from the last attempt is returned.
func Retry(ctx context.Context, maxAttempts int, baseDelay time.Duration, retryable func(error) bool, op func(context.Context) error) error {
	maxAttempts = max(1, maxAttempts)
	delay := baseDelay
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if (retryable != nil && !retryable(lastErr)) || attempt == maxAttempts {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
	return lastErr
}
