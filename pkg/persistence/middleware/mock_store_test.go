package middleware_test

import (
	"context"

	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/domain"
	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/ports"
)

// MockStore is a simple map-based store for testing middleware.
// It records every batch it is asked to save.
type MockStore struct {
	data    map[string]*domain.Entity
	saves   [][]*domain.Entity
	saveErr error
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]*domain.Entity),
	}
}

func (s *MockStore) Save(ctx context.Context, entities ...*domain.Entity) error {
	s.saves = append(s.saves, entities)
	if s.saveErr != nil {
		return s.saveErr
	}
	for _, e := range entities {
		if e == nil || e.Key == nil {
			continue
		}
		s.data[e.Key.String()] = e
	}
	return nil
}

func (s *MockStore) Load(ctx context.Context, key *domain.Key) (*domain.Entity, error) {
	e, ok := s.data[key.String()]
	if !ok {
		return nil, domain.ErrEntityNotFound
	}
	return e, nil
}

func (s *MockStore) Delete(ctx context.Context, key *domain.Key) error {
	delete(s.data, key.String())
	return nil
}

var _ ports.EntityStore = (*MockStore)(nil)
