package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Entity is a single record handed to a store: where it lives and what it holds.
type Entity struct {
	Key  *Key           `json:"key" mapstructure:"key"`
	Data map[string]any `json:"data" mapstructure:"data"`
}

// NewEntity builds an entity from a key and a data value.
// Data may be a map[string]any, a struct (see RecordFromStruct) or any other
// string-keyed map, which is decoded with mapstructure.
func NewEntity(key *Key, data any) (*Entity, error) {
	if data == nil {
		return &Entity{Key: key, Data: map[string]any{}}, nil
	}
	if m, ok := data.(map[string]any); ok {
		return &Entity{Key: key, Data: m}, nil
	}
	if m, ok := RecordFromStruct(data); ok {
		return &Entity{Key: key, Data: m}, nil
	}

	var m map[string]any
	if err := mapstructure.Decode(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode entity data for %s: %w", key, err)
	}
	return &Entity{Key: key, Data: m}, nil
}

// Kind is shorthand for e.Key.ResolveKind().
func (e *Entity) Kind() string {
	if e == nil {
		return ""
	}
	return e.Key.ResolveKind()
}

// Clone returns a copy of the entity whose data mapping (and nested mappings) can be
// mutated without affecting the original.
func (e *Entity) Clone() *Entity {
	if e == nil {
		return nil
	}
	out := &Entity{Data: deepCopyMap(e.Data)}
	if e.Key != nil {
		k := *e.Key
		k.Path = append([]any(nil), e.Key.Path...)
		out.Key = &k
	}
	return out
}

func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopyMap(t)
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = deepCopyValue(t[i])
		}
		return arr
	default:
		return v
	}
}
