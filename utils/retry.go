package utils

import (
	"context"
	"fmt"
	"time"
)

// BackoffUnit is the base of the quadratic backoff between attempts.
var BackoffUnit = time.Second

// RetryWithBackoff retries fn up to maxRetries times with quadratic backoff.
// It stops early when ctx is done.
func RetryWithBackoff(ctx context.Context, maxRetries int, fn func(ctx context.Context) error, logger *Logger) error {
	if maxRetries < 1 {
		maxRetries = 1
	}
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt*attempt) * BackoffUnit
			logger.Warn("Retrying (attempt %d/%d) after %v...", attempt+1, maxRetries, backoff)
			t := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}
		if err := fn(ctx); err != nil {
			lastErr = err
			logger.Debug("Attempt %d failed: %v", attempt+1, err)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}
		return nil
	}
	return fmt.Errorf("all %d attempts failed, last error: %w", maxRetries, lastErr)
}
