package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"tradepost/contexts/trust-core/reputation-service/domain/entities"
	domainerrors "tradepost/contexts/trust-core/reputation-service/domain/errors"
	"tradepost/contexts/trust-core/reputation-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	users      map[string]entities.User
	byExternal map[string]string
	counters   map[string]entities.ActivityCounters
	views      map[string]entities.ProfileView
}

func NewStore(seed []entities.RatingRow) *Store {
	store := &Store{
		users:      make(map[string]entities.User, len(seed)),
		byExternal: make(map[string]string, len(seed)),
		counters:   make(map[string]entities.ActivityCounters, len(seed)),
		views:      make(map[string]entities.ProfileView),
	}
	for _, row := range seed {
		store.users[row.User.UserID] = row.User
		store.byExternal[row.User.ExternalID] = row.User.UserID
		counters := row.Counters
		counters.UserID = row.User.UserID
		store.counters[row.User.UserID] = counters
	}
	return store
}

func (s *Store) UpsertUserByExternalID(_ context.Context, user entities.User) (entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existingID, ok := s.byExternal[user.ExternalID]; ok {
		existing := s.users[existingID]
		if user.Username != "" {
			existing.Username = user.Username
		}
		existing.IsPremium = user.IsPremium
		existing.UpdatedAt = user.UpdatedAt
		s.users[existingID] = existing
		return existing, nil
	}

	s.users[user.UserID] = user
	s.byExternal[user.ExternalID] = user.UserID
	s.counters[user.UserID] = entities.ActivityCounters{UserID: user.UserID, UpdatedAt: user.CreatedAt}
	return user, nil
}

func (s *Store) GetUser(_ context.Context, userID string) (entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[strings.TrimSpace(userID)]
	if !ok {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	return user, nil
}

func (s *Store) GetUserByExternalID(_ context.Context, externalID string) (entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.byExternal[strings.TrimSpace(externalID)]
	if !ok {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	return s.users[userID], nil
}

func (s *Store) GetCounters(_ context.Context, userID string) (entities.ActivityCounters, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counters, ok := s.counters[strings.TrimSpace(userID)]
	if !ok {
		if _, exists := s.users[strings.TrimSpace(userID)]; exists {
			return entities.ActivityCounters{UserID: strings.TrimSpace(userID)}, nil
		}
		return entities.ActivityCounters{}, domainerrors.ErrUserNotFound
	}
	return counters, nil
}

func (s *Store) ApplyCounterDelta(_ context.Context, userID string, field entities.CounterField, delta int, now time.Time) (entities.ActivityCounters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID = strings.TrimSpace(userID)
	user, ok := s.users[userID]
	if !ok {
		return entities.ActivityCounters{}, domainerrors.ErrUserNotFound
	}

	counters := s.counters[userID]
	counters.UserID = userID
	counters.Apply(field, delta)
	counters.UpdatedAt = now
	s.counters[userID] = counters

	user.RatingVersion++
	user.UpdatedAt = now
	s.users[userID] = user
	return counters, nil
}

func (s *Store) SetManualDelta(_ context.Context, userID string, delta float64, now time.Time) (entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID = strings.TrimSpace(userID)
	user, ok := s.users[userID]
	if !ok {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	user.ManualDelta = delta
	user.RatingVersion++
	user.UpdatedAt = now
	s.users[userID] = user
	return user, nil
}

func (s *Store) SetTrustFlag(_ context.Context, userID string, flag entities.TrustFlag, value bool, now time.Time) (entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID = strings.TrimSpace(userID)
	user, ok := s.users[userID]
	if !ok {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	switch flag {
	case entities.TrustFlagVerified:
		user.Verified = value
		user.RatingVersion++
	case entities.TrustFlagScam:
		user.IsScam = value
	case entities.TrustFlagBlocked:
		user.IsBlocked = value
	}
	user.UpdatedAt = now
	s.users[userID] = user
	return user, nil
}

func (s *Store) SaveRatingCache(_ context.Context, userID string, cache ports.RatingCache) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID = strings.TrimSpace(userID)
	user, ok := s.users[userID]
	if !ok {
		return domainerrors.ErrUserNotFound
	}
	// A concurrent ledger write bumped the version; drop the stale snapshot.
	if user.RatingVersion != cache.Version {
		return nil
	}
	user.CachedAuto = cache.Auto
	user.CachedTotal = cache.Total
	user.ComputedVersion = cache.Version
	s.users[userID] = user
	return nil
}

func (s *Store) AddProfileView(_ context.Context, view entities.ProfileView) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.views[view.ViewID] = view
	return nil
}

func (s *Store) ListRatingRows(_ context.Context, limit int) ([]entities.RatingRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]entities.RatingRow, 0, len(s.users))
	for userID, user := range s.users {
		rows = append(rows, entities.RatingRow{User: user, Counters: s.counters[userID]})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].User.CreatedAt.Equal(rows[j].User.CreatedAt) {
			return rows[i].User.UserID < rows[j].User.UserID
		}
		return rows[i].User.CreatedAt.Before(rows[j].User.CreatedAt)
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
