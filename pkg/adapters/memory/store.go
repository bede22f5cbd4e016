package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/domain"
)

// Store implements ports.EntityStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Entity
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Entity),
	}
}

// Save persists the entities in memory. Either every entity is stored or none is.
// Incomplete keys are completed with a random identifier.
func (s *Store) Save(ctx context.Context, entities ...*domain.Entity) error {
	for _, e := range entities {
		if e == nil || e.Key == nil {
			return domain.ErrNilKey
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entities {
		if e.Key.Incomplete() {
			e.Key = e.Key.WithID(uuid.NewString())
		}
		// Deep copy to ensure isolation, similar to serialization
		s.data[e.Key.String()] = e.Clone()
	}
	return nil
}

// Load retrieves an entity from memory.
func (s *Store) Load(ctx context.Context, key *domain.Key) (*domain.Entity, error) {
	if key.Incomplete() {
		return nil, domain.ErrIncompleteKey
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key.String()]
	if !ok {
		return nil, domain.ErrEntityNotFound
	}

	// Copy on read so callers can't mutate stored data through the pointer
	return e.Clone(), nil
}

// Delete removes an entity.
func (s *Store) Delete(ctx context.Context, key *domain.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key.String())
	return nil
}

// Keys returns the stored keys of one kind, sorted.
func (s *Store) Keys(ctx context.Context, kind string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0)
	for k, e := range s.data {
		if e.Kind() == kind {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
