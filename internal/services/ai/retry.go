// File: internal/services/ai/retry.go
package ai

import (
	"context"
	"time"
)

// retry runs call up to maxRetries+1 times within a single timeout budget.
// With maxRetries 0 it is a single call. Errors Retryable rejects end the
// loop immediately.
func retry(ctx context.Context, timeout time.Duration, maxRetries int, delay time.Duration, call func(ctx context.Context) (string, error)) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", &AIError{Type: ErrTypeTimeout, Operation: "generate", Message: "timed out during retry", Cause: lastErr}
			case <-time.After(delay):
			}
		}

		text, err := call(ctx)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", &AIError{Type: ErrTypeTimeout, Operation: "generate", Message: "generation timed out", Cause: ctx.Err()}
		}
		if !Retryable(err) {
			return "", err
		}
	}
	return "", lastErr
}
