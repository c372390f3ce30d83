package ports

import (
	"context"
	"time"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type Label struct {
	LabelID      string
	Name         string
	DefaultColor string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Assignment links a label to a user. CustomColor, when set, overrides the
// label's default color for this pairing only.
type Assignment struct {
	UserID      string
	LabelID     string
	CustomColor *string
	AssignedAt  time.Time
	UpdatedAt   time.Time
}

// UserLabel is the render projection: name plus effective color.
type UserLabel struct {
	LabelID string
	Name    string
	Color   string
}

type Repository interface {
	CreateLabel(ctx context.Context, label Label) error
	UpdateLabel(ctx context.Context, label Label) error
	DeleteLabel(ctx context.Context, labelID string) error
	GetLabel(ctx context.Context, labelID string) (Label, error)
	ListLabels(ctx context.Context) ([]Label, error)

	// UpsertAssignment keeps the (user, label) pair unique: re-assigning
	// updates CustomColor in place rather than adding a row.
	UpsertAssignment(ctx context.Context, assignment Assignment) (Assignment, error)
	RemoveAssignment(ctx context.Context, userID string, labelID string) (bool, error)
	ListAssignments(ctx context.Context, userID string) ([]Assignment, error)
}
