package registry

import (
	"sort"
	"sync"

	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/schema"
)

// Registry maps entity kinds to the schema their entities must satisfy.
// Kinds without a schema are unmanaged.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]schema.Schema
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		schemas: make(map[string]schema.Schema),
	}
}

// Register associates a schema with a kind.
// If the kind already has a schema, it is overwritten.
func (r *Registry) Register(kind string, s schema.Schema) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[kind] = s
}

// Unregister makes a kind unmanaged again.
func (r *Registry) Unregister(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.schemas, kind)
}

// Lookup returns the schema registered for kind.
func (r *Registry) Lookup(kind string) (schema.Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[kind]
	return s, ok
}

// Kinds returns the managed kinds in lexical order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	kinds := make([]string, 0, len(r.schemas))
	for k := range r.schemas {
		kinds = append(kinds, k)
	}
	r.mu.RUnlock()

	sort.Strings(kinds)
	return kinds
}

// Len returns the number of managed kinds.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.schemas)
}
