package postgresadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"tradepost/contexts/trust-core/reputation-service/domain/entities"
	domainerrors "tradepost/contexts/trust-core/reputation-service/domain/errors"
	"tradepost/contexts/trust-core/reputation-service/ports"

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

func (r *Repository) UpsertUserByExternalID(ctx context.Context, user entities.User) (entities.User, error) {
	row := userModelFromEntity(user)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"username":   row.Username,
				"is_premium": row.IsPremium,
				"updated_at": row.UpdatedAt,
			}),
		}).
		Create(&row).
		Error; err != nil {
		return entities.User{}, translateErr(err)
	}

	stored, err := r.GetUserByExternalID(ctx, user.ExternalID)
	if err != nil {
		return entities.User{}, err
	}

	activity := activityModel{UserID: stored.UserID, UpdatedAt: stored.UpdatedAt}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&activity).
		Error; err != nil {
		return entities.User{}, translateErr(err)
	}
	return stored, nil
}

func (r *Repository) GetUser(ctx context.Context, userID string) (entities.User, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, domainerrors.ErrUserNotFound
		}
		return entities.User{}, translateErr(err)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetUserByExternalID(ctx context.Context, externalID string) (entities.User, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("external_id = ?", strings.TrimSpace(externalID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, domainerrors.ErrUserNotFound
		}
		return entities.User{}, translateErr(err)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetCounters(ctx context.Context, userID string) (entities.ActivityCounters, error) {
	var row activityModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if _, userErr := r.GetUser(ctx, userID); userErr != nil {
				return entities.ActivityCounters{}, userErr
			}
			return entities.ActivityCounters{UserID: strings.TrimSpace(userID)}, nil
		}
		return entities.ActivityCounters{}, translateErr(err)
	}
	return row.toEntity(), nil
}

func (r *Repository) ApplyCounterDelta(ctx context.Context, userID string, field entities.CounterField, delta int, now time.Time) (entities.ActivityCounters, error) {
	userID = strings.TrimSpace(userID)
	column, ok := counterColumns[field]
	if !ok {
		return entities.ActivityCounters{}, domainerrors.ErrUnknownCounterField
	}

	var counters entities.ActivityCounters
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seed := activityModel{UserID: userID, UpdatedAt: now}
		if err := tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}},
				DoNothing: true,
			}).
			Create(&seed).
			Error; err != nil {
			return err
		}

		// Clamp at zero inside the statement so the read-modify-write is a
		// single atomic row update.
		if err := tx.
			Model(&activityModel{}).
			Where("user_id = ?", userID).
			Updates(map[string]any{
				column:       gorm.Expr(fmt.Sprintf("GREATEST(%s + ?, 0)", column), delta),
				"updated_at": now,
			}).
			Error; err != nil {
			return err
		}

		bump := tx.
			Model(&userModel{}).
			Where("user_id = ?", userID).
			Updates(map[string]any{
				"rating_version": gorm.Expr("rating_version + 1"),
				"updated_at":     now,
			})
		if bump.Error != nil {
			return bump.Error
		}
		if bump.RowsAffected == 0 {
			return domainerrors.ErrUserNotFound
		}

		var row activityModel
		if err := tx.Where("user_id = ?", userID).First(&row).Error; err != nil {
			return err
		}
		counters = row.toEntity()
		return nil
	})
	if err != nil {
		return entities.ActivityCounters{}, translateErr(err)
	}
	return counters, nil
}

func (r *Repository) SetManualDelta(ctx context.Context, userID string, delta float64, now time.Time) (entities.User, error) {
	result := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Updates(map[string]any{
			"manual_delta":   delta,
			"rating_version": gorm.Expr("rating_version + 1"),
			"updated_at":     now,
		})
	if result.Error != nil {
		return entities.User{}, translateErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	return r.GetUser(ctx, userID)
}

func (r *Repository) SetTrustFlag(ctx context.Context, userID string, flag entities.TrustFlag, value bool, now time.Time) (entities.User, error) {
	updates := map[string]any{"updated_at": now}
	switch flag {
	case entities.TrustFlagVerified:
		updates["verified"] = value
		updates["rating_version"] = gorm.Expr("rating_version + 1")
	case entities.TrustFlagScam:
		updates["is_scam"] = value
	case entities.TrustFlagBlocked:
		updates["is_blocked"] = value
	default:
		return entities.User{}, domainerrors.ErrInvalidInput
	}

	result := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Updates(updates)
	if result.Error != nil {
		return entities.User{}, translateErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	return r.GetUser(ctx, userID)
}

func (r *Repository) SaveRatingCache(ctx context.Context, userID string, cache ports.RatingCache) error {
	// Guarded by rating_version: a snapshot computed against a stale version
	// silently loses to the concurrent ledger write.
	err := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Where("rating_version = ?", cache.Version).
		Updates(map[string]any{
			"cached_auto":      cache.Auto,
			"cached_total":     cache.Total,
			"computed_version": cache.Version,
		}).
		Error
	return translateErr(err)
}

func (r *Repository) AddProfileView(ctx context.Context, view entities.ProfileView) error {
	row := profileViewModel{
		ViewID:        strings.TrimSpace(view.ViewID),
		ProfileUserID: strings.TrimSpace(view.ProfileUserID),
		ViewerUserID:  strings.TrimSpace(view.ViewerUserID),
		ViewedAt:      view.ViewedAt.UTC(),
	}
	if row.ViewedAt.IsZero() {
		row.ViewedAt = time.Now().UTC()
	}
	return translateErr(r.db.WithContext(ctx).Create(&row).Error)
}

func (r *Repository) ListRatingRows(ctx context.Context, limit int) ([]entities.RatingRow, error) {
	if limit <= 0 {
		limit = 500
	}

	var users []userModel
	if err := r.db.WithContext(ctx).
		Order("created_at ASC, user_id ASC").
		Limit(limit).
		Find(&users).
		Error; err != nil {
		return nil, translateErr(err)
	}
	if len(users) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(users))
	for _, row := range users {
		ids = append(ids, row.UserID)
	}

	var activity []activityModel
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", ids).
		Find(&activity).
		Error; err != nil {
		return nil, translateErr(err)
	}
	countersByUser := make(map[string]entities.ActivityCounters, len(activity))
	for _, row := range activity {
		countersByUser[row.UserID] = row.toEntity()
	}

	rows := make([]entities.RatingRow, 0, len(users))
	for _, row := range users {
		counters, ok := countersByUser[row.UserID]
		if !ok {
			counters = entities.ActivityCounters{UserID: row.UserID}
		}
		rows = append(rows, entities.RatingRow{User: row.toEntity(), Counters: counters})
	}
	return rows, nil
}

var counterColumns = map[entities.CounterField]string{
	entities.CounterAdsActive:         "ads_active",
	entities.CounterAdsCompleted:      "ads_completed",
	entities.CounterAdsHidden:         "ads_hidden",
	entities.CounterDealsTotal:        "deals_total",
	entities.CounterDealsSuccessful:   "deals_successful",
	entities.CounterDealsDisputed:     "deals_disputed",
	entities.CounterProfileViewsWeek:  "profile_views_week",
	entities.CounterProfileViewsMonth: "profile_views_month",
}

type userModel struct {
	UserID          string    `gorm:"column:user_id;primaryKey"`
	ExternalID      string    `gorm:"column:external_id"`
	Username        string    `gorm:"column:username"`
	Verified        bool      `gorm:"column:verified"`
	IsScam          bool      `gorm:"column:is_scam"`
	IsBlocked       bool      `gorm:"column:is_blocked"`
	IsPremium       bool      `gorm:"column:is_premium"`
	ManualDelta     float64   `gorm:"column:manual_delta"`
	RatingVersion   int64     `gorm:"column:rating_version"`
	CachedAuto      float64   `gorm:"column:cached_auto"`
	CachedTotal     float64   `gorm:"column:cached_total"`
	ComputedVersion int64     `gorm:"column:computed_version"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string {
	return "users"
}

func userModelFromEntity(user entities.User) userModel {
	return userModel{
		UserID:          strings.TrimSpace(user.UserID),
		ExternalID:      strings.TrimSpace(user.ExternalID),
		Username:        strings.TrimSpace(user.Username),
		Verified:        user.Verified,
		IsScam:          user.IsScam,
		IsBlocked:       user.IsBlocked,
		IsPremium:       user.IsPremium,
		ManualDelta:     user.ManualDelta,
		RatingVersion:   user.RatingVersion,
		CachedAuto:      user.CachedAuto,
		CachedTotal:     user.CachedTotal,
		ComputedVersion: user.ComputedVersion,
		CreatedAt:       user.CreatedAt.UTC(),
		UpdatedAt:       user.UpdatedAt.UTC(),
	}
}

func (m userModel) toEntity() entities.User {
	return entities.User{
		UserID:          m.UserID,
		ExternalID:      m.ExternalID,
		Username:        m.Username,
		Verified:        m.Verified,
		IsScam:          m.IsScam,
		IsBlocked:       m.IsBlocked,
		IsPremium:       m.IsPremium,
		ManualDelta:     m.ManualDelta,
		RatingVersion:   m.RatingVersion,
		CachedAuto:      m.CachedAuto,
		CachedTotal:     m.CachedTotal,
		ComputedVersion: m.ComputedVersion,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}

type activityModel struct {
	UserID            string    `gorm:"column:user_id;primaryKey"`
	AdsActive         int       `gorm:"column:ads_active"`
	AdsCompleted      int       `gorm:"column:ads_completed"`
	AdsHidden         int       `gorm:"column:ads_hidden"`
	DealsTotal        int       `gorm:"column:deals_total"`
	DealsSuccessful   int       `gorm:"column:deals_successful"`
	DealsDisputed     int       `gorm:"column:deals_disputed"`
	ProfileViewsWeek  int       `gorm:"column:profile_views_week"`
	ProfileViewsMonth int       `gorm:"column:profile_views_month"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (activityModel) TableName() string {
	return "user_activity"
}

func (m activityModel) toEntity() entities.ActivityCounters {
	return entities.ActivityCounters{
		UserID:            m.UserID,
		AdsActive:         m.AdsActive,
		AdsCompleted:      m.AdsCompleted,
		AdsHidden:         m.AdsHidden,
		DealsTotal:        m.DealsTotal,
		DealsSuccessful:   m.DealsSuccessful,
		DealsDisputed:     m.DealsDisputed,
		ProfileViewsWeek:  m.ProfileViewsWeek,
		ProfileViewsMonth: m.ProfileViewsMonth,
		UpdatedAt:         m.UpdatedAt.UTC(),
	}
}

type profileViewModel struct {
	ViewID        string    `gorm:"column:view_id;primaryKey"`
	ProfileUserID string    `gorm:"column:profile_user_id"`
	ViewerUserID  string    `gorm:"column:viewer_user_id"`
	ViewedAt      time.Time `gorm:"column:viewed_at"`
}

func (profileViewModel) TableName() string {
	return "profile_views"
}

// translateErr maps connectivity failures onto the retryable sentinel while
// leaving server-side errors (constraint violations and the like) intact.
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
