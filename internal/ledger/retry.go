package ledger

import (
	"context"
	"time"
)

// maxRetryDelay caps the doubling backoff between attempts.
const maxRetryDelay = 30 * time.Second

// withRetry runs op up to maxRetries+1 times, doubling the delay between
// attempts up to maxRetryDelay. Cancellation is honored while waiting;
// the last attempt's error is returned once retries are exhausted.
func withRetry(ctx context.Context, maxRetries int, baseDelay time.Duration, op func(context.Context) error) error {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}

	var err error
	delay := baseDelay
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err = op(ctx); err == nil {
			return nil
		}
		if attempt == maxRetries {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if delay < maxRetryDelay/2 {
			delay *= 2
		} else {
			delay = maxRetryDelay
		}
	}
	return err
}
