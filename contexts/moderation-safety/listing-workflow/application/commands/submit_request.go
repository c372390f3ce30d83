package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"tradepost/contexts/moderation-safety/listing-workflow/application"
	"tradepost/contexts/moderation-safety/listing-workflow/domain/entities"
	domainerrors "tradepost/contexts/moderation-safety/listing-workflow/domain/errors"
	"tradepost/contexts/moderation-safety/listing-workflow/ports"
)

type SubmitRequestCommand struct {
	SubmitterID string
	Section     string
	FormData    entities.FormData
	ExpiresAt   *time.Time
}

type SubmitRequestUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc SubmitRequestUseCase) Execute(ctx context.Context, cmd SubmitRequestCommand) (entities.Request, error) {
	logger := application.ResolveLogger(uc.Logger)

	submitterID := strings.TrimSpace(cmd.SubmitterID)
	if submitterID == "" {
		return entities.Request{}, domainerrors.ErrInvalidInput
	}
	section, ok := entities.ParseSection(cmd.Section)
	if !ok {
		return entities.Request{}, domainerrors.ErrInvalidSection
	}
	if len(cmd.FormData) == 0 {
		return entities.Request{}, domainerrors.ErrEmptyFormData
	}

	requestID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Request{}, err
	}

	now := uc.Clock.Now().UTC()
	request := entities.Request{
		RequestID:   requestID,
		SubmitterID: submitterID,
		Section:     section,
		FormData:    cmd.FormData,
		Status:      entities.StatusPending,
		ExpiresAt:   cmd.ExpiresAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.Repository.CreateRequest(ctx, request); err != nil {
		return entities.Request{}, err
	}

	logger.Info("listing request submitted",
		"event", "listing_request_submitted",
		"module", "moderation-safety/listing-workflow",
		"layer", "application",
		"request_id", request.RequestID,
		"section", string(section),
	)
	return request, nil
}
