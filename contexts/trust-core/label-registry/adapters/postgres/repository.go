package postgresadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	domainerrors "tradepost/contexts/trust-core/label-registry/domain/errors"
	"tradepost/contexts/trust-core/label-registry/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) CreateLabel(ctx context.Context, label ports.Label) error {
	row := labelModelFromPort(label)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrLabelNameTaken
		}
		return translateErr(err)
	}
	return nil
}

func (r *Repository) UpdateLabel(ctx context.Context, label ports.Label) error {
	result := r.db.WithContext(ctx).
		Model(&labelModel{}).
		Where("label_id = ?", strings.TrimSpace(label.LabelID)).
		Updates(map[string]any{
			"name":          strings.TrimSpace(label.Name),
			"default_color": strings.TrimSpace(label.DefaultColor),
			"updated_at":    label.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domainerrors.ErrLabelNameTaken
		}
		return translateErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrLabelNotFound
	}
	return nil
}

func (r *Repository) DeleteLabel(ctx context.Context, labelID string) error {
	labelID = strings.TrimSpace(labelID)
	return translateErr(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("label_id = ?", labelID).
			Delete(&assignmentModel{}).
			Error; err != nil {
			return err
		}
		result := tx.
			Where("label_id = ?", labelID).
			Delete(&labelModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrLabelNotFound
		}
		return nil
	}))
}

func (r *Repository) GetLabel(ctx context.Context, labelID string) (ports.Label, error) {
	var row labelModel
	err := r.db.WithContext(ctx).
		Where("label_id = ?", strings.TrimSpace(labelID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Label{}, domainerrors.ErrLabelNotFound
		}
		return ports.Label{}, translateErr(err)
	}
	return row.toPort(), nil
}

func (r *Repository) ListLabels(ctx context.Context) ([]ports.Label, error) {
	var rows []labelModel
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&rows).
		Error; err != nil {
		return nil, translateErr(err)
	}
	labels := make([]ports.Label, 0, len(rows))
	for _, row := range rows {
		labels = append(labels, row.toPort())
	}
	return labels, nil
}

func (r *Repository) UpsertAssignment(ctx context.Context, assignment ports.Assignment) (ports.Assignment, error) {
	row := assignmentModel{
		AssignmentID: uuid.NewString(),
		UserID:       strings.TrimSpace(assignment.UserID),
		LabelID:      strings.TrimSpace(assignment.LabelID),
		CustomColor:  assignment.CustomColor,
		AssignedAt:   assignment.AssignedAt.UTC(),
		UpdatedAt:    assignment.UpdatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "label_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"custom_color": row.CustomColor,
				"updated_at":   row.UpdatedAt,
			}),
		}).
		Create(&row).
		Error; err != nil {
		return ports.Assignment{}, translateErr(err)
	}

	var stored assignmentModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", row.UserID).
		Where("label_id = ?", row.LabelID).
		First(&stored).
		Error; err != nil {
		return ports.Assignment{}, translateErr(err)
	}
	return stored.toPort(), nil
}

func (r *Repository) RemoveAssignment(ctx context.Context, userID string, labelID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Where("label_id = ?", strings.TrimSpace(labelID)).
		Delete(&assignmentModel{})
	if result.Error != nil {
		return false, translateErr(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) ListAssignments(ctx context.Context, userID string) ([]ports.Assignment, error) {
	var rows []assignmentModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Order("label_id ASC").
		Find(&rows).
		Error; err != nil {
		return nil, translateErr(err)
	}
	assignments := make([]ports.Assignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, row.toPort())
	}
	return assignments, nil
}

type labelModel struct {
	LabelID      string    `gorm:"column:label_id;primaryKey"`
	Name         string    `gorm:"column:name"`
	DefaultColor string    `gorm:"column:default_color"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (labelModel) TableName() string {
	return "labels"
}

func labelModelFromPort(label ports.Label) labelModel {
	return labelModel{
		LabelID:      strings.TrimSpace(label.LabelID),
		Name:         strings.TrimSpace(label.Name),
		DefaultColor: strings.TrimSpace(label.DefaultColor),
		CreatedAt:    label.CreatedAt.UTC(),
		UpdatedAt:    label.UpdatedAt.UTC(),
	}
}

func (m labelModel) toPort() ports.Label {
	return ports.Label{
		LabelID:      m.LabelID,
		Name:         m.Name,
		DefaultColor: m.DefaultColor,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

type assignmentModel struct {
	AssignmentID string    `gorm:"column:assignment_id;primaryKey"`
	UserID       string    `gorm:"column:user_id"`
	LabelID      string    `gorm:"column:label_id"`
	CustomColor  *string   `gorm:"column:custom_color"`
	AssignedAt   time.Time `gorm:"column:assigned_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (assignmentModel) TableName() string {
	return "user_labels"
}

func (m assignmentModel) toPort() ports.Assignment {
	return ports.Assignment{
		UserID:      m.UserID,
		LabelID:     m.LabelID,
		CustomColor: m.CustomColor,
		AssignedAt:  m.AssignedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func translateErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) || pgconn.SafeToRetry(err) {
		return fmt.Errorf("%w: %v", domainerrors.ErrStoreUnavailable, err)
	}
	return err
}
