package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"tradepost/contexts/moderation-safety/listing-workflow/application"
	"tradepost/contexts/moderation-safety/listing-workflow/domain/entities"
	domainerrors "tradepost/contexts/moderation-safety/listing-workflow/domain/errors"
	"tradepost/contexts/moderation-safety/listing-workflow/ports"
)

type ApproveRequestCommand struct {
	RequestID       string
	PublishedItemID string
	AdminNote       string
}

type RejectRequestCommand struct {
	RequestID string
	AdminNote string
}

// ApproveResult reports the decided request plus whether the publish
// hand-off had to be deferred to the outbox relay.
type ApproveResult struct {
	Request        entities.Request
	PublishPending bool
}

type ReviewRequestUseCase struct {
	Repository ports.Repository
	Publisher  ports.PublishClient
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

// Approve moves a pending request to approved and forwards the listing to
// the publish collaborator. Approving an already approved request is a
// no-op returning the stored record, so admin double-submits stay harmless.
// A publish failure never rolls the decision back; the listing is parked in
// the outbox for the relay worker instead.
func (uc ReviewRequestUseCase) Approve(ctx context.Context, cmd ApproveRequestCommand) (ApproveResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	requestID := strings.TrimSpace(cmd.RequestID)
	if requestID == "" {
		return ApproveResult{}, domainerrors.ErrInvalidInput
	}

	current, err := uc.Repository.GetRequest(ctx, requestID)
	if err != nil {
		return ApproveResult{}, err
	}
	if current.Status == entities.StatusApproved {
		return ApproveResult{Request: current}, nil
	}
	if current.Status != entities.StatusPending {
		return ApproveResult{}, domainerrors.ErrInvalidStatusTransition
	}

	publishedItemID := strings.TrimSpace(cmd.PublishedItemID)
	if publishedItemID == "" {
		publishedItemID = requestID
	}

	now := uc.Clock.Now().UTC()
	expiresAt := now.Add(current.FormData.ListingDuration())
	update := ports.StatusUpdate{
		AdminNote:       strings.TrimSpace(cmd.AdminNote),
		PublishedItemID: publishedItemID,
		ProcessedAt:     &now,
		ExpiresAt:       &expiresAt,
	}
	approved, err := uc.Repository.TransitionStatus(ctx, requestID, entities.StatusPending, entities.StatusApproved, update, now)
	if errors.Is(err, domainerrors.ErrInvalidStatusTransition) {
		// Lost the race. A concurrent approve already published; a
		// concurrent reject or sweep leaves nothing to forward.
		settled, getErr := uc.Repository.GetRequest(ctx, requestID)
		if getErr != nil {
			return ApproveResult{}, getErr
		}
		if settled.Status == entities.StatusApproved {
			return ApproveResult{Request: settled}, nil
		}
		return ApproveResult{}, domainerrors.ErrInvalidStatusTransition
	}
	if err != nil {
		return ApproveResult{}, err
	}

	listing := entities.PublishedListing{
		PublishedItemID: publishedItemID,
		RequestID:       approved.RequestID,
		SubmitterID:     approved.SubmitterID,
		Section:         approved.Section,
		FormData:        approved.FormData,
		ApprovedAt:      now,
	}

	result := ApproveResult{Request: approved}
	if err := uc.Publisher.Publish(ctx, listing); err != nil {
		logger.Warn("publish hand-off failed, parking in outbox",
			"event", "listing_publish_deferred",
			"module", "moderation-safety/listing-workflow",
			"layer", "application",
			"request_id", requestID,
			"error", err.Error(),
		)
		// The decision is already committed; park the hand-off for the
		// relay instead of failing the approval.
		if parkErr := uc.parkInOutbox(ctx, listing, now); parkErr != nil {
			logger.Error("outbox append failed after publish failure",
				"event", "listing_outbox_append_failed",
				"module", "moderation-safety/listing-workflow",
				"layer", "application",
				"request_id", requestID,
				"error", parkErr.Error(),
			)
		}
		result.PublishPending = true
	}

	logger.Info("listing request approved",
		"event", "listing_request_approved",
		"module", "moderation-safety/listing-workflow",
		"layer", "application",
		"request_id", requestID,
		"published_item_id", publishedItemID,
	)
	return result, nil
}

func (uc ReviewRequestUseCase) parkInOutbox(ctx context.Context, listing entities.PublishedListing, now time.Time) error {
	entryID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	return uc.Repository.AppendOutbox(ctx, ports.OutboxEntry{
		EntryID:   entryID,
		Listing:   listing,
		CreatedAt: now,
	})
}

// Reject moves a pending request to rejected. Terminal.
func (uc ReviewRequestUseCase) Reject(ctx context.Context, cmd RejectRequestCommand) (entities.Request, error) {
	logger := application.ResolveLogger(uc.Logger)

	requestID := strings.TrimSpace(cmd.RequestID)
	if requestID == "" {
		return entities.Request{}, domainerrors.ErrInvalidInput
	}

	now := uc.Clock.Now().UTC()
	update := ports.StatusUpdate{
		AdminNote:   strings.TrimSpace(cmd.AdminNote),
		ProcessedAt: &now,
	}
	rejected, err := uc.Repository.TransitionStatus(ctx, requestID, entities.StatusPending, entities.StatusRejected, update, now)
	if err != nil {
		return entities.Request{}, err
	}

	logger.Info("listing request rejected",
		"event", "listing_request_rejected",
		"module", "moderation-safety/listing-workflow",
		"layer", "application",
		"request_id", requestID,
	)
	return rejected, nil
}
