package ports

import (
	"context"
	"time"

	"tradepost/contexts/trust-core/reputation-service/domain/entities"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// RatingCache is the lazily recomputed rating snapshot persisted on the user
// row. Version carries the RatingVersion the snapshot was computed against.
type RatingCache struct {
	Auto    float64
	Total   float64
	Version int64
}

type Repository interface {
	UpsertUserByExternalID(ctx context.Context, user entities.User) (entities.User, error)
	GetUser(ctx context.Context, userID string) (entities.User, error)
	GetUserByExternalID(ctx context.Context, externalID string) (entities.User, error)
	GetCounters(ctx context.Context, userID string) (entities.ActivityCounters, error)

	// ApplyCounterDelta is an atomic single-row read-modify-write: the
	// counter is clamped at zero and the user's RatingVersion is bumped.
	ApplyCounterDelta(ctx context.Context, userID string, field entities.CounterField, delta int, now time.Time) (entities.ActivityCounters, error)

	SetManualDelta(ctx context.Context, userID string, delta float64, now time.Time) (entities.User, error)
	SetTrustFlag(ctx context.Context, userID string, flag entities.TrustFlag, value bool, now time.Time) (entities.User, error)

	// SaveRatingCache persists the snapshot only while the user row still
	// carries cache.Version; a lost race is silently dropped.
	SaveRatingCache(ctx context.Context, userID string, cache RatingCache) error

	AddProfileView(ctx context.Context, view entities.ProfileView) error

	// ListRatingRows returns users joined with their counters for the
	// leaderboard scan, oldest accounts first, capped at limit.
	ListRatingRows(ctx context.Context, limit int) ([]entities.RatingRow, error)
}
