package notifications

import (
	"context"
	"time"
)

// withRetry runs fn up to maxRetries+1 times with exponential backoff.
// It gives up early when ctx is done.
func withRetry(ctx context.Context, maxRetries int, backoff time.Duration, fn func(attempt int) error) error {
	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err = fn(attempt); err == nil {
			return nil
		}
		if attempt == maxRetries {
			break
		}

		timer := time.NewTimer(backoff * time.Duration(1<<attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}
