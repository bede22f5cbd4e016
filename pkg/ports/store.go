package ports

import (
	"context"

	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/domain"
)

// EntityStore is the host datastore whose save operation is intercepted.
type EntityStore interface {
	// Save persists one or more entities. Entities with incomplete keys get an
	// identifier allocated by the store, written back into entity.Key.
	// The result is reported exactly once per call.
	Save(ctx context.Context, entities ...*domain.Entity) error

	// Load retrieves the entity stored under key.
	// Returns domain.ErrEntityNotFound if nothing is stored there.
	Load(ctx context.Context, key *domain.Key) (*domain.Entity, error)

	// Delete removes the entity stored under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key *domain.Key) error
}
