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

type TrackUserCommand struct {
	ExternalID string
	Username   string
	IsPremium  bool
}

// TrackUserUseCase upserts the user row the first time the marketplace front
// end sees an identity, and refreshes mutable profile fields after that.
type TrackUserUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc TrackUserUseCase) Execute(ctx context.Context, cmd TrackUserCommand) (entities.User, error) {
	externalID := strings.TrimSpace(cmd.ExternalID)
	if externalID == "" {
		return entities.User{}, domainerrors.ErrInvalidInput
	}

	now := uc.Clock.Now().UTC()
	userID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.User{}, err
	}

	user, err := uc.Repository.UpsertUserByExternalID(ctx, entities.User{
		UserID:     userID,
		ExternalID: externalID,
		Username:   strings.TrimPrefix(strings.TrimSpace(cmd.Username), "@"),
		IsPremium:  cmd.IsPremium,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return entities.User{}, err
	}

	application.ResolveLogger(uc.Logger).Debug("user tracked",
		"event", "reputation_user_tracked",
		"module", "trust-core/reputation-service",
		"layer", "application",
		"user_id", user.UserID,
		"external_id", user.ExternalID,
	)
	return user, nil
}
