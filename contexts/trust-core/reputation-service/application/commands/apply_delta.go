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

type ApplyDeltaCommand struct {
	UserID string
	Field  string
	Delta  int
}

// ApplyDeltaUseCase is the single write path into the activity ledger.
// External lifecycle producers (ad, deal, profile-view recorders) call it
// whenever their own state changes; it never recomputes the rating itself,
// it only marks the cache dirty by bumping the row version.
type ApplyDeltaUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (uc ApplyDeltaUseCase) Execute(ctx context.Context, cmd ApplyDeltaCommand) (entities.ActivityCounters, error) {
	userID := strings.TrimSpace(cmd.UserID)
	if userID == "" {
		return entities.ActivityCounters{}, domainerrors.ErrInvalidInput
	}
	field, ok := entities.ParseCounterField(cmd.Field)
	if !ok {
		return entities.ActivityCounters{}, domainerrors.ErrUnknownCounterField
	}

	counters, err := uc.Repository.ApplyCounterDelta(ctx, userID, field, cmd.Delta, uc.Clock.Now().UTC())
	if err != nil {
		return entities.ActivityCounters{}, err
	}

	application.ResolveLogger(uc.Logger).Debug("activity counter updated",
		"event", "reputation_counter_updated",
		"module", "trust-core/reputation-service",
		"layer", "application",
		"user_id", userID,
		"field", string(field),
		"delta", cmd.Delta,
		"value", counters.Value(field),
	)
	return counters, nil
}
