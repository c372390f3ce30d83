package application

import (
	"context"
	"errors"
	"time"

	domainerrors "tradepost/contexts/trust-core/reputation-service/domain/errors"
)

const (
	readRetryAttempts  = 3
	readRetryBaseDelay = 50 * time.Millisecond
)

// RetryRead retries fn on transient store failures with linear backoff.
// Only reads go through this path; state-changing writes are never retried
// so a transition can never double-apply.
func RetryRead(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < readRetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * readRetryBaseDelay):
			}
		}
		err = fn()
		if err == nil || !errors.Is(err, domainerrors.ErrStoreUnavailable) {
			return err
		}
	}
	return err
}
