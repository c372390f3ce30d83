package application

import (
	"context"
	"log/slog"
	"strings"

	domainerrors "tradepost/contexts/trust-core/label-registry/domain/errors"
	"tradepost/contexts/trust-core/label-registry/ports"
)

const fallbackColor = "#0070f3"

// presetColors seeds a default color for well-known label names when the
// admin does not pick one.
var presetColors = map[string]string{
	"designer":   "#8b5cf6",
	"editor":     "#06b6d4",
	"advertiser": "#f59e0b",
	"seo":        "#10b981",
	"copywriter": "#ec4899",
	"developer":  "#3b82f6",
	"marketer":   "#f97316",
}

type Service struct {
	Repo   ports.Repository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

type CreateLabelInput struct {
	Name         string
	DefaultColor string
}

type UpdateLabelInput struct {
	Name         *string
	DefaultColor *string
}

type AssignLabelInput struct {
	UserID      string
	LabelID     string
	CustomColor *string
}

func (s Service) CreateLabel(ctx context.Context, input CreateLabelInput) (ports.Label, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ports.Label{}, domainerrors.ErrInvalidRequest
	}

	color := strings.TrimSpace(input.DefaultColor)
	if color == "" {
		color = defaultColorForName(name)
	}

	labelID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.Label{}, err
	}
	now := s.Clock.Now().UTC()
	label := ports.Label{
		LabelID:      labelID,
		Name:         name,
		DefaultColor: color,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.CreateLabel(ctx, label); err != nil {
		return ports.Label{}, err
	}

	resolveLogger(s.Logger).Info("label created",
		"event", "label_created",
		"module", "trust-core/label-registry",
		"layer", "application",
		"label_id", label.LabelID,
		"name", label.Name,
	)
	return label, nil
}

func (s Service) UpdateLabel(ctx context.Context, labelID string, input UpdateLabelInput) (ports.Label, error) {
	label, err := s.Repo.GetLabel(ctx, strings.TrimSpace(labelID))
	if err != nil {
		return ports.Label{}, err
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return ports.Label{}, domainerrors.ErrInvalidRequest
		}
		label.Name = name
	}
	if input.DefaultColor != nil {
		label.DefaultColor = strings.TrimSpace(*input.DefaultColor)
	}
	label.UpdatedAt = s.Clock.Now().UTC()
	if err := s.Repo.UpdateLabel(ctx, label); err != nil {
		return ports.Label{}, err
	}
	return label, nil
}

func (s Service) DeleteLabel(ctx context.Context, labelID string) error {
	return s.Repo.DeleteLabel(ctx, strings.TrimSpace(labelID))
}

func (s Service) ListLabels(ctx context.Context) ([]ports.Label, error) {
	return s.Repo.ListLabels(ctx)
}

func (s Service) AssignLabel(ctx context.Context, input AssignLabelInput) (ports.Assignment, error) {
	userID := strings.TrimSpace(input.UserID)
	labelID := strings.TrimSpace(input.LabelID)
	if userID == "" || labelID == "" {
		return ports.Assignment{}, domainerrors.ErrInvalidRequest
	}
	if _, err := s.Repo.GetLabel(ctx, labelID); err != nil {
		return ports.Assignment{}, err
	}

	now := s.Clock.Now().UTC()
	assignment, err := s.Repo.UpsertAssignment(ctx, ports.Assignment{
		UserID:      userID,
		LabelID:     labelID,
		CustomColor: normalizeColor(input.CustomColor),
		AssignedAt:  now,
		UpdatedAt:   now,
	})
	if err != nil {
		return ports.Assignment{}, err
	}

	resolveLogger(s.Logger).Debug("label assigned",
		"event", "label_assigned",
		"module", "trust-core/label-registry",
		"layer", "application",
		"user_id", userID,
		"label_id", labelID,
	)
	return assignment, nil
}

// UnassignLabel removes the pairing; removing an absent pair is a no-op.
func (s Service) UnassignLabel(ctx context.Context, userID string, labelID string) error {
	_, err := s.Repo.RemoveAssignment(ctx, strings.TrimSpace(userID), strings.TrimSpace(labelID))
	return err
}

// ListUserLabels resolves the effective render color: the assignment's
// custom color when present, the label default otherwise.
func (s Service) ListUserLabels(ctx context.Context, userID string) ([]ports.UserLabel, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	assignments, err := s.Repo.ListAssignments(ctx, userID)
	if err != nil {
		return nil, err
	}

	labels := make([]ports.UserLabel, 0, len(assignments))
	for _, assignment := range assignments {
		label, err := s.Repo.GetLabel(ctx, assignment.LabelID)
		if err != nil {
			return nil, err
		}
		color := label.DefaultColor
		if assignment.CustomColor != nil {
			color = *assignment.CustomColor
		}
		labels = append(labels, ports.UserLabel{
			LabelID: label.LabelID,
			Name:    label.Name,
			Color:   color,
		})
	}
	return labels, nil
}

func defaultColorForName(name string) string {
	if color, ok := presetColors[strings.ToLower(name)]; ok {
		return color
	}
	return fallbackColor
}

func normalizeColor(color *string) *string {
	if color == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*color)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
