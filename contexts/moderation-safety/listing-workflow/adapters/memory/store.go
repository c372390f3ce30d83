package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tradepost/contexts/moderation-safety/listing-workflow/domain/entities"
	domainerrors "tradepost/contexts/moderation-safety/listing-workflow/domain/errors"
	"tradepost/contexts/moderation-safety/listing-workflow/ports"
)

type outboxRecord struct {
	entry       ports.OutboxEntry
	publishedAt *time.Time
}

// Store is the in-memory repository used by tests and local runs.
type Store struct {
	mu       sync.RWMutex
	requests map[string]entities.Request
	outbox   map[string]*outboxRecord
}

func NewStore() *Store {
	return &Store{
		requests: map[string]entities.Request{},
		outbox:   map[string]*outboxRecord{},
	}
}

func (s *Store) CreateRequest(_ context.Context, request entities.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[request.RequestID] = request
	return nil
}

func (s *Store) GetRequest(_ context.Context, requestID string) (entities.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	request, ok := s.requests[strings.TrimSpace(requestID)]
	if !ok {
		return entities.Request{}, domainerrors.ErrRequestNotFound
	}
	return request, nil
}

func (s *Store) UpdateWhilePending(_ context.Context, requestID string, update ports.PendingUpdate, now time.Time) (entities.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.requests[requestID]
	if !ok {
		return entities.Request{}, domainerrors.ErrRequestNotFound
	}
	if request.Status != entities.StatusPending {
		return entities.Request{}, domainerrors.ErrInvalidStatusTransition
	}
	if update.Section != nil {
		request.Section = *update.Section
	}
	if update.FormData != nil {
		request.FormData = update.FormData
	}
	if update.AdminNote != nil {
		request.AdminNote = *update.AdminNote
	}
	request.UpdatedAt = now
	s.requests[requestID] = request
	return request, nil
}

func (s *Store) TransitionStatus(_ context.Context, requestID string, from, to entities.Status, update ports.StatusUpdate, now time.Time) (entities.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.requests[requestID]
	if !ok {
		return entities.Request{}, domainerrors.ErrRequestNotFound
	}
	if request.Status != from {
		return entities.Request{}, domainerrors.ErrInvalidStatusTransition
	}
	request.Status = to
	if update.AdminNote != "" {
		request.AdminNote = update.AdminNote
	}
	if update.PublishedItemID != "" {
		request.PublishedItemID = update.PublishedItemID
	}
	if update.ProcessedAt != nil {
		request.ProcessedAt = update.ProcessedAt
	}
	if update.ExpiresAt != nil {
		request.ExpiresAt = update.ExpiresAt
	}
	request.UpdatedAt = now
	s.requests[requestID] = request
	return request, nil
}

func (s *Store) MarkCompleted(_ context.Context, requestID string, now time.Time) (entities.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.requests[requestID]
	if !ok {
		return entities.Request{}, domainerrors.ErrRequestNotFound
	}
	if request.Status != entities.StatusApproved {
		return entities.Request{}, domainerrors.ErrInvalidStatusTransition
	}
	if request.CompletedAt == nil {
		stamped := now
		request.CompletedAt = &stamped
		request.UpdatedAt = now
		s.requests[requestID] = request
	}
	return request, nil
}

func (s *Store) ListRequests(_ context.Context, filter ports.RequestFilter) ([]entities.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Request, 0, len(s.requests))
	for _, request := range s.requests {
		if filter.Status != nil && request.Status != *filter.Status {
			continue
		}
		if filter.Section != nil && request.Section != *filter.Section {
			continue
		}
		items = append(items, request)
	}
	sortByCreatedAt(items)
	return window(items, filter.Limit, filter.Offset), nil
}

func (s *Store) ListBySubmitter(_ context.Context, submitterID string, limit, offset int) ([]entities.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Request, 0)
	for _, request := range s.requests {
		if request.SubmitterID == submitterID {
			items = append(items, request)
		}
	}
	sortByCreatedAt(items)
	return window(items, limit, offset), nil
}

func (s *Store) ListExpiredPending(_ context.Context, now time.Time, limit int) ([]entities.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Request, 0)
	for _, request := range s.requests {
		if request.Status != entities.StatusPending || request.ExpiresAt == nil {
			continue
		}
		if !request.ExpiresAt.After(now) {
			items = append(items, request)
		}
	}
	sortByCreatedAt(items)
	return window(items, limit, 0), nil
}

func (s *Store) AppendOutbox(_ context.Context, entry ports.OutboxEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbox[entry.EntryID] = &outboxRecord{entry: entry}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]ports.OutboxEntry, 0)
	for _, record := range s.outbox {
		if record.publishedAt == nil {
			entries = append(entries, record.entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, entryID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.outbox[entryID]
	if !ok {
		return domainerrors.ErrRequestNotFound
	}
	stamped := now
	record.publishedAt = &stamped
	return nil
}

func (s *Store) MarkOutboxAttempt(_ context.Context, entryID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.outbox[entryID]
	if !ok {
		return domainerrors.ErrRequestNotFound
	}
	record.entry.Attempts++
	return nil
}

func sortByCreatedAt(items []entities.Request) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].RequestID < items[j].RequestID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}

func window(items []entities.Request, limit, offset int) []entities.Request {
	if offset >= len(items) {
		return []entities.Request{}
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// Clock and IDGenerator for in-memory wiring.

type Clock struct{}

func (Clock) Now() time.Time { return time.Now() }

type IDGenerator struct{}

func (IDGenerator) NewID(_ context.Context) (string, error) { return uuid.NewString(), nil }
