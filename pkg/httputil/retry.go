package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks an error as transient so [Retry] attempts the
// operation again. RetryAfter, when set, carries the server's requested
// wait (from a 429 Retry-After header) and takes precedence over the
// backoff delay when it is longer.
type RetryableError struct {
	Err        error
	RetryAfter time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry executes fn up to attempts times with exponential backoff.
// Only errors wrapped in [RetryableError] are retried; anything else is
// returned immediately. The delay doubles after each failed attempt, and
// a RetryAfter hint on the failure stretches the next wait when the
// server asked for more time than the backoff would give.
// Returns the last error if all attempts fail, or ctx.Err() if cancelled.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		var re *RetryableError
		if !errors.As(err, &re) {
			return err
		}

		if i < attempts-1 {
			wait := max(delay, re.RetryAfter)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				delay *= 2
			}
		}
	}
	return lastErr
}

// RetryWithBackoff is [Retry] with defaults sized for the Open Library
// API, which throttles heavy clients to roughly 100 requests per five
// minutes per IP, i.e. one every 3 seconds: 4 attempts with a 3 second
// initial delay.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 4, 3*time.Second, fn)
}
