package commands

import (
	"context"
	"log/slog"
	"strings"

	"tradepost/contexts/moderation-safety/listing-workflow/application"
	"tradepost/contexts/moderation-safety/listing-workflow/domain/entities"
	domainerrors "tradepost/contexts/moderation-safety/listing-workflow/domain/errors"
	"tradepost/contexts/moderation-safety/listing-workflow/ports"
)

type CompleteRequestCommand struct {
	RequestID string
	// OwnerID, when set, must match the submitter. Admin callers leave it
	// empty.
	OwnerID string
}

type CompleteRequestUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	Logger     *slog.Logger
}

// Execute closes an approved listing on the owner's behalf. Completed is
// terminal in the owner-visible machine; completing twice is a no-op.
func (uc CompleteRequestUseCase) Execute(ctx context.Context, cmd CompleteRequestCommand) (entities.Request, error) {
	logger := application.ResolveLogger(uc.Logger)

	requestID := strings.TrimSpace(cmd.RequestID)
	if requestID == "" {
		return entities.Request{}, domainerrors.ErrInvalidInput
	}

	current, err := uc.Repository.GetRequest(ctx, requestID)
	if err != nil {
		return entities.Request{}, err
	}
	if owner := strings.TrimSpace(cmd.OwnerID); owner != "" && owner != current.SubmitterID {
		return entities.Request{}, domainerrors.ErrNotRequestOwner
	}
	if current.Status != entities.StatusApproved {
		return entities.Request{}, domainerrors.ErrInvalidStatusTransition
	}
	if current.CompletedAt != nil {
		return current, nil
	}

	now := uc.Clock.Now().UTC()
	completed, err := uc.Repository.MarkCompleted(ctx, requestID, now)
	if err != nil {
		return entities.Request{}, err
	}

	logger.Info("published listing completed",
		"event", "published_listing_completed",
		"module", "moderation-safety/listing-workflow",
		"layer", "application",
		"request_id", requestID,
	)
	return completed, nil
}
