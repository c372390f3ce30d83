package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainerrors "tradepost/contexts/trust-core/label-registry/domain/errors"
	"tradepost/contexts/trust-core/label-registry/ports"

	"github.com/google/uuid"
)

type assignmentKey struct {
	userID  string
	labelID string
}

type Store struct {
	mu sync.RWMutex

	labels      map[string]ports.Label
	assignments map[assignmentKey]ports.Assignment
}

func NewStore(seed []ports.Label) *Store {
	labels := make(map[string]ports.Label, len(seed))
	for _, label := range seed {
		labels[label.LabelID] = label
	}
	return &Store{
		labels:      labels,
		assignments: make(map[assignmentKey]ports.Assignment),
	}
}

func (s *Store) CreateLabel(_ context.Context, label ports.Label) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.labels {
		if existing.Name == label.Name {
			return domainerrors.ErrLabelNameTaken
		}
	}
	s.labels[label.LabelID] = label
	return nil
}

func (s *Store) UpdateLabel(_ context.Context, label ports.Label) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.labels[label.LabelID]; !ok {
		return domainerrors.ErrLabelNotFound
	}
	for id, existing := range s.labels {
		if id != label.LabelID && existing.Name == label.Name {
			return domainerrors.ErrLabelNameTaken
		}
	}
	s.labels[label.LabelID] = label
	return nil
}

func (s *Store) DeleteLabel(_ context.Context, labelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.labels[labelID]; !ok {
		return domainerrors.ErrLabelNotFound
	}
	delete(s.labels, labelID)
	for key := range s.assignments {
		if key.labelID == labelID {
			delete(s.assignments, key)
		}
	}
	return nil
}

func (s *Store) GetLabel(_ context.Context, labelID string) (ports.Label, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	label, ok := s.labels[strings.TrimSpace(labelID)]
	if !ok {
		return ports.Label{}, domainerrors.ErrLabelNotFound
	}
	return label, nil
}

func (s *Store) ListLabels(_ context.Context) ([]ports.Label, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	labels := make([]ports.Label, 0, len(s.labels))
	for _, label := range s.labels {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		return labels[i].Name < labels[j].Name
	})
	return labels, nil
}

func (s *Store) UpsertAssignment(_ context.Context, assignment ports.Assignment) (ports.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := assignmentKey{userID: assignment.UserID, labelID: assignment.LabelID}
	if existing, ok := s.assignments[key]; ok {
		existing.CustomColor = assignment.CustomColor
		existing.UpdatedAt = assignment.UpdatedAt
		s.assignments[key] = existing
		return existing, nil
	}
	s.assignments[key] = assignment
	return assignment, nil
}

func (s *Store) RemoveAssignment(_ context.Context, userID string, labelID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := assignmentKey{userID: userID, labelID: labelID}
	if _, ok := s.assignments[key]; !ok {
		return false, nil
	}
	delete(s.assignments, key)
	return true, nil
}

func (s *Store) ListAssignments(_ context.Context, userID string) ([]ports.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	assignments := make([]ports.Assignment, 0)
	for key, assignment := range s.assignments {
		if key.userID == userID {
			assignments = append(assignments, assignment)
		}
	}
	sort.Slice(assignments, func(i, j int) bool {
		return assignments[i].LabelID < assignments[j].LabelID
	})
	return assignments, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
