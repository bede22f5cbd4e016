package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey_ResolveKind(t *testing.T) {
	tests := []struct {
		name string
		key  *Key
		want string
	}{
		{"Explicit kind wins", &Key{Kind: "Person", Path: []any{"Company", "acme"}}, "Person"},
		{"Incomplete key", NewKey("Person"), "Person"},
		{"Complete key", NewKey("Person", int64(5)), "Person"},
		{"Ancestor incomplete", NewKey("Company", "acme", "Person"), "Person"},
		{"Ancestor complete", NewKey("Company", "acme", "Person", "doc"), "Person"},
		{"Empty path", NewKey(), ""},
		{"Nil key", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.ResolveKind())
		})
	}
}

func TestKey_IncompleteAndID(t *testing.T) {
	k := NewKey("Person")
	assert.True(t, k.Incomplete())
	assert.Nil(t, k.ID())

	full := k.WithID("abc")
	assert.False(t, full.Incomplete())
	assert.Equal(t, "abc", full.ID())
	assert.Equal(t, "Person/abc", full.String())

	// Original is untouched.
	assert.Equal(t, []any{"Person"}, k.Path)

	// Complete keys are returned as is.
	assert.Same(t, full, full.WithID("other"))
}

func TestKey_WithIDFromExplicitKind(t *testing.T) {
	k := &Key{Kind: "Task"}
	full := k.WithID(int64(7))
	assert.Equal(t, []any{"Task", int64(7)}, full.Path)
	assert.Equal(t, "Task", full.ResolveKind())
}

func TestNewEntity_FromStruct(t *testing.T) {
	type address struct {
		Street string `mapstructure:"street"`
	}
	type person struct {
		Name    string  `mapstructure:"name"`
		Age     int     `mapstructure:"age"`
		Address address `mapstructure:"address"`
	}

	e, err := NewEntity(NewKey("Person"), person{Name: "Doc", Age: 8, Address: address{Street: "Main"}})
	assert.NoError(t, err)
	assert.Equal(t, "Doc", e.Data["name"])
	assert.Equal(t, 8, e.Data["age"])
	assert.Contains(t, e.Data, "address")
	assert.Equal(t, "Person", e.Kind())
}

func TestEntity_CloneIsDeep(t *testing.T) {
	e := &Entity{
		Key: NewKey("Person", "a"),
		Data: map[string]any{
			"nested": map[string]any{"x": 1},
			"list":   []any{map[string]any{"y": 2}},
		},
	}

	c := e.Clone()
	c.Data["nested"].(map[string]any)["x"] = 99
	c.Data["list"].([]any)[0].(map[string]any)["y"] = 99
	c.Key.Path[1] = "b"

	assert.Equal(t, 1, e.Data["nested"].(map[string]any)["x"])
	assert.Equal(t, 2, e.Data["list"].([]any)[0].(map[string]any)["y"])
	assert.Equal(t, "a", e.Key.Path[1])
}
