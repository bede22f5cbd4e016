package domain

import (
	"fmt"
	"strings"
)

// Key identifies an entity.
//
// Path alternates kind and identifier segments, e.g. ["Company", "acme", "Person", 42].
// A path of odd length has no trailing identifier (an incomplete key) and the store
// is expected to allocate one on save.
type Key struct {
	// Kind, when set, takes precedence over the kind derived from Path.
	Kind string `json:"kind,omitempty" mapstructure:"kind"`
	Path []any  `json:"path" mapstructure:"path"`
}

// NewKey creates a key from alternating kind/identifier segments.
func NewKey(path ...any) *Key {
	return &Key{Path: path}
}

// ResolveKind returns the kind this key belongs to.
// An explicit Kind wins. Otherwise the kind segment is the second-to-last element
// of an even-length path and the last element of an odd-length one.
func (k *Key) ResolveKind() string {
	if k == nil {
		return ""
	}
	if k.Kind != "" {
		return k.Kind
	}

	n := len(k.Path)
	if n == 0 {
		return ""
	}
	if n%2 == 0 {
		return segment(k.Path[n-2])
	}
	return segment(k.Path[n-1])
}

// Incomplete reports whether the key lacks a trailing identifier.
func (k *Key) Incomplete() bool {
	return k == nil || len(k.Path)%2 == 1 || len(k.Path) == 0
}

// ID returns the trailing identifier, or nil for incomplete keys.
func (k *Key) ID() any {
	if k.Incomplete() {
		return nil
	}
	return k.Path[len(k.Path)-1]
}

// WithID returns a complete copy of an incomplete key using the given identifier.
// Complete keys are returned unchanged.
func (k *Key) WithID(id any) *Key {
	if !k.Incomplete() {
		return k
	}
	path := make([]any, 0, len(k.Path)+2)
	path = append(path, k.Path...)
	if len(path) == 0 {
		path = append(path, k.Kind)
	}
	path = append(path, id)
	return &Key{Kind: k.Kind, Path: path}
}

// String renders the key as a slash separated path, e.g. "Company/acme/Person/42".
func (k *Key) String() string {
	if k == nil {
		return ""
	}
	parts := make([]string, 0, len(k.Path))
	for _, p := range k.Path {
		parts = append(parts, segment(p))
	}
	if len(parts) == 0 {
		return k.Kind
	}
	return strings.Join(parts, "/")
}

func segment(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
