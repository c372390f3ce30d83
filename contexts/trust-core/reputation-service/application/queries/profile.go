package queries

import (
	"context"
	"log/slog"
	"strings"

	application "tradepost/contexts/trust-core/reputation-service/application"
	"tradepost/contexts/trust-core/reputation-service/domain/entities"
	domainerrors "tradepost/contexts/trust-core/reputation-service/domain/errors"
	"tradepost/contexts/trust-core/reputation-service/domain/scoring"
	"tradepost/contexts/trust-core/reputation-service/ports"
)

type Profile struct {
	User     entities.User
	Counters entities.ActivityCounters
	Rating   scoring.Breakdown
}

// ProfileUseCase serves the user profile with the rating breakdown. The
// recompute is lazy and version-gated: ledger writes only bump the row
// version, and the first read that observes a stale version recomputes and
// persists the cache before returning.
type ProfileUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (uc ProfileUseCase) GetProfile(ctx context.Context, userID string) (Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Profile{}, domainerrors.ErrInvalidInput
	}

	var user entities.User
	err := application.RetryRead(ctx, func() error {
		var inner error
		user, inner = uc.Repository.GetUser(ctx, userID)
		return inner
	})
	if err != nil {
		return Profile{}, err
	}
	return uc.buildProfile(ctx, user)
}

func (uc ProfileUseCase) GetProfileByExternalID(ctx context.Context, externalID string) (Profile, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return Profile{}, domainerrors.ErrInvalidInput
	}

	var user entities.User
	err := application.RetryRead(ctx, func() error {
		var inner error
		user, inner = uc.Repository.GetUserByExternalID(ctx, externalID)
		return inner
	})
	if err != nil {
		return Profile{}, err
	}
	return uc.buildProfile(ctx, user)
}

func (uc ProfileUseCase) buildProfile(ctx context.Context, user entities.User) (Profile, error) {
	var counters entities.ActivityCounters
	err := application.RetryRead(ctx, func() error {
		var inner error
		counters, inner = uc.Repository.GetCounters(ctx, user.UserID)
		return inner
	})
	if err != nil {
		return Profile{}, err
	}

	breakdown := scoring.Compute(user, counters, uc.Clock.Now().UTC())
	if user.ComputedVersion != user.RatingVersion {
		if err := uc.Repository.SaveRatingCache(ctx, user.UserID, ports.RatingCache{
			Auto:    breakdown.Auto,
			Total:   breakdown.Total,
			Version: user.RatingVersion,
		}); err != nil {
			return Profile{}, err
		}
		application.ResolveLogger(uc.Logger).Debug("rating cache recomputed",
			"event", "reputation_rating_recomputed",
			"module", "trust-core/reputation-service",
			"layer", "application",
			"user_id", user.UserID,
			"version", user.RatingVersion,
			"total", breakdown.Total,
		)
		user.CachedAuto = breakdown.Auto
		user.CachedTotal = breakdown.Total
		user.ComputedVersion = user.RatingVersion
	}

	return Profile{User: user, Counters: counters, Rating: breakdown}, nil
}
