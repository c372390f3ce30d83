package commands

import (
	"context"
	"log/slog"
	"strings"

	application "tradepost/contexts/trust-core/reputation-service/application"
	"tradepost/contexts/trust-core/reputation-service/domain/entities"
	domainerrors "tradepost/contexts/trust-core/reputation-service/domain/errors"
	"tradepost/contexts/trust-core/reputation-service/ports"
)

type RecordProfileViewCommand struct {
	ProfileUserID string
	ViewerUserID  string
}

// RecordProfileViewUseCase appends a view row for the audit trail and bumps
// the rolling week/month counters through the same ledger primitive every
// other producer uses.
type RecordProfileViewUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc RecordProfileViewUseCase) Execute(ctx context.Context, cmd RecordProfileViewCommand) error {
	profileUserID := strings.TrimSpace(cmd.ProfileUserID)
	if profileUserID == "" {
		return domainerrors.ErrInvalidInput
	}
	if _, err := uc.Repository.GetUser(ctx, profileUserID); err != nil {
		return err
	}

	viewerUserID := strings.TrimSpace(cmd.ViewerUserID)
	if viewerUserID == "" {
		viewerUserID = profileUserID
	}

	now := uc.Clock.Now().UTC()
	viewID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	if err := uc.Repository.AddProfileView(ctx, entities.ProfileView{
		ViewID:        viewID,
		ProfileUserID: profileUserID,
		ViewerUserID:  viewerUserID,
		ViewedAt:      now,
	}); err != nil {
		return err
	}

	for _, field := range []entities.CounterField{entities.CounterProfileViewsWeek, entities.CounterProfileViewsMonth} {
		if _, err := uc.Repository.ApplyCounterDelta(ctx, profileUserID, field, 1, now); err != nil {
			return err
		}
	}

	application.ResolveLogger(uc.Logger).Debug("profile view recorded",
		"event", "reputation_profile_view_recorded",
		"module", "trust-core/reputation-service",
		"layer", "application",
		"profile_user_id", profileUserID,
	)
	return nil
}
