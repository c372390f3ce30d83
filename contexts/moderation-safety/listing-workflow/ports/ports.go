package ports

import (
	"context"
	"time"

	"tradepost/contexts/moderation-safety/listing-workflow/domain/entities"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// PendingUpdate carries the fields a submitter may still change before a
// decision. Nil fields leave the stored value untouched.
type PendingUpdate struct {
	Section   *entities.Section
	FormData  entities.FormData
	AdminNote *string
}

// StatusUpdate carries the fields written together with an admin decision.
// Nil pointers leave the stored value untouched.
type StatusUpdate struct {
	AdminNote       string
	PublishedItemID string
	ProcessedAt     *time.Time
	ExpiresAt       *time.Time
}

type RequestFilter struct {
	Status  *entities.Status
	Section *entities.Section
	Limit   int
	Offset  int
}

// OutboxEntry is a publish hand-off that failed inline and waits for the
// relay worker.
type OutboxEntry struct {
	EntryID   string
	Listing   entities.PublishedListing
	Attempts  int
	CreatedAt time.Time
}

type Repository interface {
	CreateRequest(ctx context.Context, request entities.Request) error
	GetRequest(ctx context.Context, requestID string) (entities.Request, error)

	// UpdateWhilePending applies a submitter edit only while the request is
	// still pending; a concurrent decision surfaces as
	// ErrInvalidStatusTransition.
	UpdateWhilePending(ctx context.Context, requestID string, update PendingUpdate, now time.Time) (entities.Request, error)

	// TransitionStatus is the compare-and-swap primitive behind every
	// decision. It moves the request from one status to another atomically
	// and reports ErrInvalidStatusTransition when the stored status no
	// longer matches from.
	TransitionStatus(ctx context.Context, requestID string, from, to entities.Status, update StatusUpdate, now time.Time) (entities.Request, error)

	// MarkCompleted stamps CompletedAt on an approved request. Completing
	// an already completed request is a no-op.
	MarkCompleted(ctx context.Context, requestID string, now time.Time) (entities.Request, error)

	ListRequests(ctx context.Context, filter RequestFilter) ([]entities.Request, error)
	ListBySubmitter(ctx context.Context, submitterID string, limit, offset int) ([]entities.Request, error)

	// ListExpiredPending returns pending requests whose expiry deadline has
	// passed, oldest first, capped at limit.
	ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]entities.Request, error)

	AppendOutbox(ctx context.Context, entry OutboxEntry) error
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxEntry, error)
	MarkOutboxPublished(ctx context.Context, entryID string, now time.Time) error
	MarkOutboxAttempt(ctx context.Context, entryID string, now time.Time) error
}

// PublishClient forwards an approved listing to the downstream publisher.
type PublishClient interface {
	Publish(ctx context.Context, listing entities.PublishedListing) error
}
