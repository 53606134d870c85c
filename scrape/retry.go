package scrape

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/cbprofile"
)

// DefaultRetryDelays returns the backoff delays for profile retries: 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{2 * time.Second, 4 * time.Second}
}

// retry calls fn until it succeeds, fails with an application error, or
// the delays are exhausted. Only browser and infrastructure failures are
// retried.
func retry(ctx context.Context, delays []time.Duration, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= len(delays); attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == len(delays) || !transient(ctx, err) {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}
	return lastErr
}

// transient reports whether err may succeed on another attempt.
func transient(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var appErr *cbprofile.Error
	return !errors.As(err, &appErr)
}
