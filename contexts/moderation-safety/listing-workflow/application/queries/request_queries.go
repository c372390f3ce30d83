package queries

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"strings"

	"tradepost/contexts/moderation-safety/listing-workflow/application"
	"tradepost/contexts/moderation-safety/listing-workflow/domain/entities"
	domainerrors "tradepost/contexts/moderation-safety/listing-workflow/domain/errors"
	"tradepost/contexts/moderation-safety/listing-workflow/ports"
)

const (
	listDefaultLimit = 20
	listMaxLimit     = 100
)

type ListRequestsQuery struct {
	Status  string
	Section string
	Limit   int
	Offset  int
}

type MyPublicationsQuery struct {
	SubmitterID string
	Limit       int
	Cursor      string
}

// PublicationView pairs a stored request with its owner-visible status
// projected at read time.
type PublicationView struct {
	Request           entities.Request
	PublicationStatus entities.PublicationStatus
}

type MyPublicationsPage struct {
	Items      []PublicationView
	NextCursor string
}

type QueryUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (uc QueryUseCase) GetRequest(ctx context.Context, requestID string) (entities.Request, error) {
	var request entities.Request
	err := application.RetryRead(ctx, func() error {
		var innerErr error
		request, innerErr = uc.Repository.GetRequest(ctx, strings.TrimSpace(requestID))
		return innerErr
	})
	return request, err
}

func (uc QueryUseCase) ListRequests(ctx context.Context, query ListRequestsQuery) ([]entities.Request, error) {
	filter := ports.RequestFilter{
		Limit:  clampLimit(query.Limit),
		Offset: query.Offset,
	}
	if raw := strings.TrimSpace(query.Status); raw != "" {
		status := entities.Status(raw)
		filter.Status = &status
	}
	if raw := strings.TrimSpace(query.Section); raw != "" {
		section, ok := entities.ParseSection(raw)
		if !ok {
			return nil, domainerrors.ErrInvalidSection
		}
		filter.Section = &section
	}

	var items []entities.Request
	err := application.RetryRead(ctx, func() error {
		var innerErr error
		items, innerErr = uc.Repository.ListRequests(ctx, filter)
		return innerErr
	})
	return items, err
}

// MyPublications is the submitter-facing view. Each row carries the
// projected publication status, so an approved listing past its expiry shows
// as completed without any stored-state change.
func (uc QueryUseCase) MyPublications(ctx context.Context, query MyPublicationsQuery) (MyPublicationsPage, error) {
	submitterID := strings.TrimSpace(query.SubmitterID)
	if submitterID == "" {
		return MyPublicationsPage{}, domainerrors.ErrInvalidInput
	}
	limit := clampLimit(query.Limit)
	offset, err := decodeOffsetCursor(query.Cursor)
	if err != nil {
		return MyPublicationsPage{}, err
	}

	var items []entities.Request
	err = application.RetryRead(ctx, func() error {
		var innerErr error
		items, innerErr = uc.Repository.ListBySubmitter(ctx, submitterID, limit+1, offset)
		return innerErr
	})
	if err != nil {
		return MyPublicationsPage{}, err
	}

	page := MyPublicationsPage{}
	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}
	now := uc.Clock.Now().UTC()
	for _, item := range items {
		page.Items = append(page.Items, PublicationView{
			Request:           item,
			PublicationStatus: item.PublicationStatus(now),
		})
	}
	if hasMore {
		page.NextCursor = encodeOffsetCursor(offset + limit)
	}

	application.ResolveLogger(uc.Logger).Debug("publications listed",
		"event", "listing_publications_listed",
		"module", "moderation-safety/listing-workflow",
		"layer", "application",
		"submitter_id", submitterID,
		"count", len(page.Items),
	)
	return page, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return listDefaultLimit
	}
	if limit > listMaxLimit {
		return listMaxLimit
	}
	return limit
}

type offsetCursor struct {
	Offset int `json:"o"`
}

func encodeOffsetCursor(offset int) string {
	payload, _ := json.Marshal(offsetCursor{Offset: offset})
	return base64.RawURLEncoding.EncodeToString(payload)
}

func decodeOffsetCursor(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	payload, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return 0, domainerrors.ErrInvalidCursor
	}
	var cursor offsetCursor
	if err := json.Unmarshal(payload, &cursor); err != nil || cursor.Offset < 0 {
		return 0, domainerrors.ErrInvalidCursor
	}
	return cursor.Offset, nil
}
