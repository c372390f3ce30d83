package workers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"tradepost/contexts/moderation-safety/listing-workflow/application"
	"tradepost/contexts/moderation-safety/listing-workflow/domain/entities"
	domainerrors "tradepost/contexts/moderation-safety/listing-workflow/domain/errors"
	"tradepost/contexts/moderation-safety/listing-workflow/ports"
)

const expiredAdminNote = "expired"

// ExpirySweepJob rejects pending requests whose deadline has passed. It
// goes through the same compare-and-swap transition admins use, so a sweep
// racing an admin decision loses cleanly and moves on.
type ExpirySweepJob struct {
	Repository ports.Repository
	Clock      ports.Clock
	BatchSize  int
	Disabled   bool
	Logger     *slog.Logger
}

func (j ExpirySweepJob) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(j.Logger)
	if j.Disabled {
		logger.Info("listing expiry sweep disabled by feature flag",
			"event", "listing_expiry_sweep_disabled",
			"module", "moderation-safety/listing-workflow",
			"layer", "worker",
		)
		return nil
	}
	now := time.Now().UTC()
	if j.Clock != nil {
		now = j.Clock.Now().UTC()
	}
	limit := j.BatchSize
	if limit <= 0 {
		limit = 100
	}

	items, err := j.Repository.ListExpiredPending(ctx, now, limit)
	if err != nil {
		logger.Error("listing expiry sweep list failed",
			"event", "listing_expiry_sweep_list_failed",
			"module", "moderation-safety/listing-workflow",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	expired := 0
	update := ports.StatusUpdate{
		AdminNote:   expiredAdminNote,
		ProcessedAt: &now,
	}
	for _, request := range items {
		_, err := j.Repository.TransitionStatus(ctx, request.RequestID, entities.StatusPending, entities.StatusRejected, update, now)
		if errors.Is(err, domainerrors.ErrInvalidStatusTransition) {
			// An admin decided in between. Nothing to expire.
			continue
		}
		if err != nil {
			logger.Error("listing expiry transition failed",
				"event", "listing_expiry_transition_failed",
				"module", "moderation-safety/listing-workflow",
				"layer", "worker",
				"request_id", request.RequestID,
				"error", err.Error(),
			)
			return err
		}
		expired++
	}

	if expired > 0 {
		logger.Info("listing expiry sweep cycle completed",
			"event", "listing_expiry_sweep_cycle_completed",
			"module", "moderation-safety/listing-workflow",
			"layer", "worker",
			"expired_count", expired,
		)
	}
	return nil
}
