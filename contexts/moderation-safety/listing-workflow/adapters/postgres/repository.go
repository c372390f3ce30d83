package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"tradepost/contexts/moderation-safety/listing-workflow/domain/entities"
	domainerrors "tradepost/contexts/moderation-safety/listing-workflow/domain/errors"
	"tradepost/contexts/moderation-safety/listing-workflow/ports"
)

type requestModel struct {
	RequestID       string     `gorm:"primaryKey;column:request_id"`
	SubmitterID     string     `gorm:"column:submitter_id;index"`
	Section         string     `gorm:"column:section"`
	FormData        string     `gorm:"column:form_data;type:jsonb"`
	Status          string     `gorm:"column:status;index"`
	AdminNote       string     `gorm:"column:admin_note"`
	PublishedItemID string     `gorm:"column:published_item_id"`
	ProcessedAt     *time.Time `gorm:"column:processed_at"`
	ExpiresAt       *time.Time `gorm:"column:expires_at;index"`
	CompletedAt     *time.Time `gorm:"column:completed_at"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (requestModel) TableName() string { return "moderation_requests" }

type outboxModel struct {
	EntryID     string     `gorm:"primaryKey;column:entry_id"`
	Payload     string     `gorm:"column:payload;type:jsonb"`
	Attempts    int        `gorm:"column:attempts"`
	PublishedAt *time.Time `gorm:"column:published_at;index"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (outboxModel) TableName() string { return "listing_publish_outbox" }

type outboxPayload struct {
	PublishedItemID string          `json:"publishedItemId"`
	RequestID       string          `json:"requestId"`
	SubmitterID     string          `json:"submitterId"`
	Section         string          `json:"section"`
	FormData        json.RawMessage `json:"formData"`
	ApprovedAt      time.Time       `json:"approvedAt"`
}

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

func (r *Repository) CreateRequest(ctx context.Context, request entities.Request) error {
	row, err := requestModelFromEntity(request)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return translateErr(err)
	}
	return nil
}

func (r *Repository) GetRequest(ctx context.Context, requestID string) (entities.Request, error) {
	var row requestModel
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Request{}, domainerrors.ErrRequestNotFound
		}
		return entities.Request{}, translateErr(err)
	}
	return row.toEntity()
}

func (r *Repository) UpdateWhilePending(ctx context.Context, requestID string, update ports.PendingUpdate, now time.Time) (entities.Request, error) {
	fields := map[string]any{"updated_at": now}
	if update.Section != nil {
		fields["section"] = string(*update.Section)
	}
	if update.FormData != nil {
		encoded, err := json.Marshal(update.FormData)
		if err != nil {
			return entities.Request{}, fmt.Errorf("encode form data: %w", err)
		}
		fields["form_data"] = string(encoded)
	}
	if update.AdminNote != nil {
		fields["admin_note"] = *update.AdminNote
	}

	var updated entities.Request
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&requestModel{}).
			Where("request_id = ?", requestID).
			Where("status = ?", string(entities.StatusPending)).
			Updates(fields)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return statusGuardError(tx, requestID)
		}

		var row requestModel
		if err := tx.Where("request_id = ?", requestID).First(&row).Error; err != nil {
			return err
		}
		entity, err := row.toEntity()
		if err != nil {
			return err
		}
		updated = entity
		return nil
	})
	if err != nil {
		return entities.Request{}, translateErr(err)
	}
	return updated, nil
}

// TransitionStatus performs the compare-and-swap in a single guarded UPDATE.
// Zero rows affected means either the request is gone or its status already
// moved; the follow-up read disambiguates.
func (r *Repository) TransitionStatus(ctx context.Context, requestID string, from, to entities.Status, update ports.StatusUpdate, now time.Time) (entities.Request, error) {
	fields := map[string]any{
		"status":     string(to),
		"updated_at": now,
	}
	if update.AdminNote != "" {
		fields["admin_note"] = update.AdminNote
	}
	if update.PublishedItemID != "" {
		fields["published_item_id"] = update.PublishedItemID
	}
	if update.ProcessedAt != nil {
		fields["processed_at"] = *update.ProcessedAt
	}
	if update.ExpiresAt != nil {
		fields["expires_at"] = *update.ExpiresAt
	}

	var transitioned entities.Request
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&requestModel{}).
			Where("request_id = ?", requestID).
			Where("status = ?", string(from)).
			Updates(fields)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return statusGuardError(tx, requestID)
		}

		var row requestModel
		if err := tx.Where("request_id = ?", requestID).First(&row).Error; err != nil {
			return err
		}
		var err error
		transitioned, err = row.toEntity()
		return err
	})
	if err != nil {
		return entities.Request{}, translateErr(err)
	}
	return transitioned, nil
}

func (r *Repository) MarkCompleted(ctx context.Context, requestID string, now time.Time) (entities.Request, error) {
	var completed entities.Request
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&requestModel{}).
			Where("request_id = ?", requestID).
			Where("status = ?", string(entities.StatusApproved)).
			Where("completed_at IS NULL").
			Updates(map[string]any{
				"completed_at": now,
				"updated_at":   now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var row requestModel
			if err := tx.Where("request_id = ?", requestID).First(&row).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domainerrors.ErrRequestNotFound
				}
				return err
			}
			if row.Status != string(entities.StatusApproved) {
				return domainerrors.ErrInvalidStatusTransition
			}
			// Already completed; fall through to the read below.
		}

		var row requestModel
		if err := tx.Where("request_id = ?", requestID).First(&row).Error; err != nil {
			return err
		}
		var err error
		completed, err = row.toEntity()
		return err
	})
	if err != nil {
		return entities.Request{}, translateErr(err)
	}
	return completed, nil
}

func (r *Repository) ListRequests(ctx context.Context, filter ports.RequestFilter) ([]entities.Request, error) {
	tx := r.db.WithContext(ctx).Model(&requestModel{})
	if filter.Status != nil {
		tx = tx.Where("status = ?", string(*filter.Status))
	}
	if filter.Section != nil {
		tx = tx.Where("section = ?", string(*filter.Section))
	}
	tx = tx.Order("created_at ASC, request_id ASC")
	if filter.Offset > 0 {
		tx = tx.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}

	var rows []requestModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, translateErr(err)
	}
	return toEntities(rows)
}

func (r *Repository) ListBySubmitter(ctx context.Context, submitterID string, limit, offset int) ([]entities.Request, error) {
	tx := r.db.WithContext(ctx).Model(&requestModel{}).
		Where("submitter_id = ?", submitterID).
		Order("created_at ASC, request_id ASC")
	if offset > 0 {
		tx = tx.Offset(offset)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var rows []requestModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, translateErr(err)
	}
	return toEntities(rows)
}

func (r *Repository) ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]entities.Request, error) {
	tx := r.db.WithContext(ctx).Model(&requestModel{}).
		Where("status = ?", string(entities.StatusPending)).
		Where("expires_at IS NOT NULL").
		Where("expires_at <= ?", now).
		Order("expires_at ASC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var rows []requestModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, translateErr(err)
	}
	return toEntities(rows)
}

func (r *Repository) AppendOutbox(ctx context.Context, entry ports.OutboxEntry) error {
	form, err := json.Marshal(entry.Listing.FormData)
	if err != nil {
		return fmt.Errorf("encode outbox form data: %w", err)
	}
	payload, err := json.Marshal(outboxPayload{
		PublishedItemID: entry.Listing.PublishedItemID,
		RequestID:       entry.Listing.RequestID,
		SubmitterID:     entry.Listing.SubmitterID,
		Section:         string(entry.Listing.Section),
		FormData:        form,
		ApprovedAt:      entry.Listing.ApprovedAt,
	})
	if err != nil {
		return fmt.Errorf("encode outbox payload: %w", err)
	}
	row := outboxModel{
		EntryID:   entry.EntryID,
		Payload:   string(payload),
		Attempts:  entry.Attempts,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return translateErr(err)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxEntry, error) {
	tx := r.db.WithContext(ctx).Model(&outboxModel{}).
		Where("published_at IS NULL").
		Order("created_at ASC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var rows []outboxModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, translateErr(err)
	}

	entries := make([]ports.OutboxEntry, 0, len(rows))
	for _, row := range rows {
		var payload outboxPayload
		if err := json.Unmarshal([]byte(row.Payload), &payload); err != nil {
			return nil, fmt.Errorf("decode outbox payload %s: %w", row.EntryID, err)
		}
		var form entities.FormData
		if err := json.Unmarshal(payload.FormData, &form); err != nil {
			return nil, fmt.Errorf("decode outbox form data %s: %w", row.EntryID, err)
		}
		entries = append(entries, ports.OutboxEntry{
			EntryID: row.EntryID,
			Listing: entities.PublishedListing{
				PublishedItemID: payload.PublishedItemID,
				RequestID:       payload.RequestID,
				SubmitterID:     payload.SubmitterID,
				Section:         entities.Section(payload.Section),
				FormData:        form,
				ApprovedAt:      payload.ApprovedAt,
			},
			Attempts:  row.Attempts,
			CreatedAt: row.CreatedAt,
		})
	}
	return entries, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, entryID string, now time.Time) error {
	result := r.db.WithContext(ctx).Model(&outboxModel{}).
		Where("entry_id = ?", entryID).
		Updates(map[string]any{
			"published_at": now,
			"updated_at":   now,
		})
	if result.Error != nil {
		return translateErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRequestNotFound
	}
	return nil
}

func (r *Repository) MarkOutboxAttempt(ctx context.Context, entryID string, now time.Time) error {
	result := r.db.WithContext(ctx).Model(&outboxModel{}).
		Where("entry_id = ?", entryID).
		Updates(map[string]any{
			"attempts":   gorm.Expr("attempts + 1"),
			"updated_at": now,
		})
	if result.Error != nil {
		return translateErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRequestNotFound
	}
	return nil
}

func requestModelFromEntity(request entities.Request) (requestModel, error) {
	encoded, err := json.Marshal(request.FormData)
	if err != nil {
		return requestModel{}, fmt.Errorf("encode form data: %w", err)
	}
	return requestModel{
		RequestID:       request.RequestID,
		SubmitterID:     request.SubmitterID,
		Section:         string(request.Section),
		FormData:        string(encoded),
		Status:          string(request.Status),
		AdminNote:       request.AdminNote,
		PublishedItemID: request.PublishedItemID,
		ProcessedAt:     request.ProcessedAt,
		ExpiresAt:       request.ExpiresAt,
		CompletedAt:     request.CompletedAt,
		CreatedAt:       request.CreatedAt,
		UpdatedAt:       request.UpdatedAt,
	}, nil
}

func (m requestModel) toEntity() (entities.Request, error) {
	var form entities.FormData
	if m.FormData != "" {
		if err := json.Unmarshal([]byte(m.FormData), &form); err != nil {
			return entities.Request{}, fmt.Errorf("decode form data %s: %w", m.RequestID, err)
		}
	}
	return entities.Request{
		RequestID:       m.RequestID,
		SubmitterID:     m.SubmitterID,
		Section:         entities.Section(m.Section),
		FormData:        form,
		Status:          entities.Status(m.Status),
		AdminNote:       m.AdminNote,
		PublishedItemID: m.PublishedItemID,
		ProcessedAt:     m.ProcessedAt,
		ExpiresAt:       m.ExpiresAt,
		CompletedAt:     m.CompletedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}, nil
}

func toEntities(rows []requestModel) ([]entities.Request, error) {
	items := make([]entities.Request, 0, len(rows))
	for _, row := range rows {
		item, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// statusGuardError maps a zero-row guarded update to the right domain error.
func statusGuardError(tx *gorm.DB, requestID string) error {
	var count int64
	if err := tx.Model(&requestModel{}).Where("request_id = ?", requestID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domainerrors.ErrRequestNotFound
	}
	return domainerrors.ErrInvalidStatusTransition
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
