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

type EditRequestCommand struct {
	RequestID string
	Section   string
	FormData  entities.FormData
	AdminNote *string
}

type EditRequestUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	Logger     *slog.Logger
}

// Execute applies a submitter edit (form data, section, admin note) to a
// request that is still pending. Edits racing an admin decision lose and
// surface ErrInvalidStatusTransition.
func (uc EditRequestUseCase) Execute(ctx context.Context, cmd EditRequestCommand) (entities.Request, error) {
	logger := application.ResolveLogger(uc.Logger)

	requestID := strings.TrimSpace(cmd.RequestID)
	if requestID == "" {
		return entities.Request{}, domainerrors.ErrInvalidInput
	}
	if cmd.FormData != nil && len(cmd.FormData) == 0 {
		return entities.Request{}, domainerrors.ErrEmptyFormData
	}

	current, err := uc.Repository.GetRequest(ctx, requestID)
	if err != nil {
		return entities.Request{}, err
	}
	if current.Status != entities.StatusPending {
		return entities.Request{}, domainerrors.ErrInvalidStatusTransition
	}

	update := ports.PendingUpdate{
		FormData:  cmd.FormData,
		AdminNote: cmd.AdminNote,
	}
	if raw := strings.TrimSpace(cmd.Section); raw != "" {
		parsed, ok := entities.ParseSection(raw)
		if !ok {
			return entities.Request{}, domainerrors.ErrInvalidSection
		}
		update.Section = &parsed
	}

	now := uc.Clock.Now().UTC()
	updated, err := uc.Repository.UpdateWhilePending(ctx, requestID, update, now)
	if err != nil {
		return entities.Request{}, err
	}

	logger.Info("listing request edited",
		"event", "listing_request_edited",
		"module", "moderation-safety/listing-workflow",
		"layer", "application",
		"request_id", requestID,
	)
	return updated, nil
}
