package commands

import (
	"context"
	"log/slog"
	"math"
	"strings"

	application "tradepost/contexts/trust-core/reputation-service/application"
	"tradepost/contexts/trust-core/reputation-service/domain/entities"
	domainerrors "tradepost/contexts/trust-core/reputation-service/domain/errors"
	"tradepost/contexts/trust-core/reputation-service/ports"
)

type SetManualDeltaCommand struct {
	UserID string
	Delta  float64
}

type SetTrustFlagCommand struct {
	UserID string
	Flag   entities.TrustFlag
	Value  bool
}

// AdminAdjustmentsUseCase covers the admin-surface writes: the manual rating
// delta and the trust flags. Access control belongs to the admin surface,
// not here.
type AdminAdjustmentsUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	Logger     *slog.Logger
}

// SetManualDelta replaces the stored adjustment verbatim. The delta range is
// deliberately unclamped; the only invariant is that the cached total is
// recomputed against the new value.
func (uc AdminAdjustmentsUseCase) SetManualDelta(ctx context.Context, cmd SetManualDeltaCommand) (entities.User, error) {
	userID := strings.TrimSpace(cmd.UserID)
	if userID == "" {
		return entities.User{}, domainerrors.ErrInvalidInput
	}
	if math.IsNaN(cmd.Delta) || math.IsInf(cmd.Delta, 0) {
		return entities.User{}, domainerrors.ErrInvalidInput
	}

	user, err := uc.Repository.SetManualDelta(ctx, userID, cmd.Delta, uc.Clock.Now().UTC())
	if err != nil {
		return entities.User{}, err
	}

	application.ResolveLogger(uc.Logger).Info("manual rating delta set",
		"event", "reputation_manual_delta_set",
		"module", "trust-core/reputation-service",
		"layer", "application",
		"user_id", userID,
		"delta", cmd.Delta,
	)
	return user, nil
}

func (uc AdminAdjustmentsUseCase) SetTrustFlag(ctx context.Context, cmd SetTrustFlagCommand) (entities.User, error) {
	userID := strings.TrimSpace(cmd.UserID)
	if userID == "" {
		return entities.User{}, domainerrors.ErrInvalidInput
	}
	switch cmd.Flag {
	case entities.TrustFlagVerified, entities.TrustFlagScam, entities.TrustFlagBlocked:
	default:
		return entities.User{}, domainerrors.ErrInvalidInput
	}

	user, err := uc.Repository.SetTrustFlag(ctx, userID, cmd.Flag, cmd.Value, uc.Clock.Now().UTC())
	if err != nil {
		return entities.User{}, err
	}

	application.ResolveLogger(uc.Logger).Info("trust flag set",
		"event", "reputation_trust_flag_set",
		"module", "trust-core/reputation-service",
		"layer", "application",
		"user_id", userID,
		"flag", string(cmd.Flag),
		"value", cmd.Value,
	)
	return user, nil
}
