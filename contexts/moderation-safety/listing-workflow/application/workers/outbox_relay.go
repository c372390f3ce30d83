package workers

import (
	"context"
	"log/slog"
	"time"

	"tradepost/contexts/moderation-safety/listing-workflow/application"
	"tradepost/contexts/moderation-safety/listing-workflow/ports"
)

// OutboxRelayJob re-attempts publish hand-offs that failed inline during
// approval. Entries stay in the outbox until a publish succeeds.
type OutboxRelayJob struct {
	Repository ports.Repository
	Publisher  ports.PublishClient
	Clock      ports.Clock
	BatchSize  int
	Disabled   bool
	Logger     *slog.Logger
}

func (j OutboxRelayJob) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(j.Logger)
	if j.Disabled {
		logger.Info("listing outbox relay disabled by feature flag",
			"event", "listing_outbox_relay_disabled",
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
		limit = 50
	}

	entries, err := j.Repository.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("listing outbox list failed",
			"event", "listing_outbox_list_failed",
			"module", "moderation-safety/listing-workflow",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	published := 0
	for _, entry := range entries {
		if err := j.Publisher.Publish(ctx, entry.Listing); err != nil {
			logger.Warn("listing outbox publish attempt failed",
				"event", "listing_outbox_publish_failed",
				"module", "moderation-safety/listing-workflow",
				"layer", "worker",
				"entry_id", entry.EntryID,
				"attempts", entry.Attempts+1,
				"error", err.Error(),
			)
			if markErr := j.Repository.MarkOutboxAttempt(ctx, entry.EntryID, now); markErr != nil {
				return markErr
			}
			continue
		}
		if err := j.Repository.MarkOutboxPublished(ctx, entry.EntryID, now); err != nil {
			return err
		}
		published++
	}

	if published > 0 {
		logger.Info("listing outbox relay cycle completed",
			"event", "listing_outbox_relay_cycle_completed",
			"module", "moderation-safety/listing-workflow",
			"layer", "worker",
			"published_count", published,
		)
	}
	return nil
}
