package application

import (
	"context"
	"errors"
	"time"

	domerr "tradepost/contexts/moderation-safety/listing-workflow/domain/errors"
)

const (
	retryReadAttempts = 3
	retryReadBackoff  = 50 * time.Millisecond
)

// RetryRead re-runs a read-only store call on transient unavailability.
// Writes are never routed through here; a retried write could double-apply.
func RetryRead(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= retryReadAttempts; attempt++ {
		err = fn()
		if err == nil || !errors.Is(err, domerr.ErrStoreUnavailable) {
			return err
		}
		if attempt == retryReadAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * retryReadBackoff):
		}
	}
	return err
}
