package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/domain"
	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/persistence/middleware"
	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/registry"
	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func personRegistry() *registry.Registry {
	reg := registry.NewRegistry()
	reg.Register("Person", schema.Schema{
		{Name: "name", Type: schema.String()},
		{Name: "age", Type: schema.Number()},
	})
	return reg
}

func entity(t *testing.T, key *domain.Key, data map[string]any) *domain.Entity {
	t.Helper()
	e, err := domain.NewEntity(key, data)
	require.NoError(t, err)
	return e
}

func TestValidationMiddleware_Valid(t *testing.T) {
	next := NewMockStore()
	store := middleware.NewValidationMiddleware(middleware.ValidationConfig{Registry: personRegistry()})(next)

	err := store.Save(context.Background(), entity(t, domain.NewKey("Person", 1), map[string]any{"name": "Doc", "age": 8}))
	require.NoError(t, err)

	require.Len(t, next.saves, 1, "conforming save should be delegated")
	_, err = store.Load(context.Background(), domain.NewKey("Person", 1))
	assert.NoError(t, err)
}

func TestValidationMiddleware_Rejects(t *testing.T) {
	next := NewMockStore()
	store := middleware.NewValidationMiddleware(middleware.ValidationConfig{Registry: personRegistry()})(next)

	err := store.Save(context.Background(), entity(t, domain.NewKey("Person", 1), map[string]any{"name": 42, "age": 8, "x": true}))
	require.Error(t, err)
	assert.Empty(t, next.saves, "rejected save must not reach the wrapped store")

	v, ok := domain.AsViolation(err)
	require.True(t, ok)
	assert.Equal(t, "Schema validation failed", v.Message)
	assert.Equal(t, "ESCHEMAVIOLATION", v.Code)
	require.Len(t, v.Errors, 1)
	assert.Equal(t, "Person", v.Errors[0].Kind)
	assert.Equal(t, []string{
		`Schema definition violated for property: "name". Expected type: String, received: 42`,
		`Unexpected properties found: "x"`,
	}, v.Errors[0].Errors)
}

func TestValidationMiddleware_AllOrNothing(t *testing.T) {
	next := NewMockStore()
	reg := personRegistry()
	reg.Register("Company", schema.Schema{{Name: "title", Type: schema.String()}})
	store := middleware.NewValidationMiddleware(middleware.ValidationConfig{Registry: reg})(next)

	err := store.Save(context.Background(),
		entity(t, domain.NewKey("Person", 1), map[string]any{"name": "Doc", "age": 8}),
		entity(t, domain.NewKey("Company", "acme"), map[string]any{}),
		entity(t, domain.NewKey("Person", 2), map[string]any{"name": "Marty"}),
	)

	v, ok := domain.AsViolation(err)
	require.True(t, ok)
	assert.Empty(t, next.saves)
	assert.Empty(t, next.data)

	// Only failing entities are listed, in batch order.
	require.Len(t, v.Errors, 2)
	assert.Equal(t, "Company", v.Errors[0].Kind)
	assert.Equal(t, []string{`Schema definition expected property: "title"`}, v.Errors[0].Errors)
	assert.Equal(t, "Person", v.Errors[1].Kind)
	assert.Equal(t, []string{`Schema definition expected property: "age"`}, v.Errors[1].Errors)

	raw, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"message": "Schema validation failed",
		"code": "ESCHEMAVIOLATION",
		"errors": [
			{"kind": "Company", "errors": ["Schema definition expected property: \"title\""]},
			{"kind": "Person", "errors": ["Schema definition expected property: \"age\""]}
		]
	}`, string(raw))
}

func TestValidationMiddleware_UnmanagedPassThrough(t *testing.T) {
	next := NewMockStore()
	store := middleware.NewValidationMiddleware(middleware.ValidationConfig{Registry: personRegistry()})(next)

	e := entity(t, domain.NewKey("Note", 7), map[string]any{"anything": []any{1, "two"}})
	require.NoError(t, store.Save(context.Background(), e))

	require.Len(t, next.saves, 1)
	assert.Same(t, e, next.saves[0][0], "the original call should be forwarded unchanged")
}

func TestValidationMiddleware_AncestorPath(t *testing.T) {
	next := NewMockStore()
	store := middleware.NewValidationMiddleware(middleware.ValidationConfig{Registry: personRegistry()})(next)

	tests := []struct {
		name string
		key  *domain.Key
	}{
		{"complete", domain.NewKey("Company", "acme", "Person", 5)},
		{"incomplete", domain.NewKey("Company", "acme", "Person")},
		{"explicit kind", &domain.Key{Kind: "Person"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Save(context.Background(), entity(t, tt.key, map[string]any{}))
			v, ok := domain.AsViolation(err)
			require.True(t, ok, "Person schema should apply")
			assert.Equal(t, "Person", v.Errors[0].Kind)
		})
	}
}

func TestValidationMiddleware_NilEntitiesSkipped(t *testing.T) {
	next := NewMockStore()
	store := middleware.NewValidationMiddleware(middleware.ValidationConfig{Registry: personRegistry()})(next)

	err := store.Save(context.Background(), nil, &domain.Entity{Data: map[string]any{"x": 1}})
	require.NoError(t, err)
	assert.Len(t, next.saves, 1)
}

func TestValidationMiddleware_PropagatesStoreError(t *testing.T) {
	next := NewMockStore()
	next.saveErr = errors.New("backend down")
	store := middleware.NewValidationMiddleware(middleware.ValidationConfig{Registry: personRegistry()})(next)

	err := store.Save(context.Background(), entity(t, domain.NewKey("Person", 1), map[string]any{"name": "Doc", "age": 8}))
	assert.EqualError(t, err, "backend down")
	assert.False(t, domain.IsViolation(err))
}

func TestValidationMiddleware_Hooks(t *testing.T) {
	var entities []*domain.EntityEvent
	var batches []*domain.BatchEvent

	store := middleware.NewValidationMiddleware(middleware.ValidationConfig{
		Registry: personRegistry(),
		Hooks: domain.ValidationHooks{
			OnEntityValidated: func(_ context.Context, e *domain.EntityEvent) { entities = append(entities, e) },
			OnBatchValidated:  func(_ context.Context, e *domain.BatchEvent) { batches = append(batches, e) },
		},
	})(NewMockStore())

	_ = store.Save(context.Background(),
		entity(t, domain.NewKey("Person", 1), map[string]any{"name": "Doc"}),
		entity(t, domain.NewKey("Note", 1), nil),
	)

	require.Len(t, entities, 2)
	assert.True(t, entities[0].Managed)
	assert.Len(t, entities[0].Violations, 1)
	assert.False(t, entities[1].Managed)
	assert.Equal(t, "Note", entities[1].Kind)

	require.Len(t, batches, 1)
	assert.True(t, batches[0].Rejected)
	assert.Equal(t, 2, batches[0].Entities)
	require.NotNil(t, batches[0].Err)
	assert.Equal(t, "ESCHEMAVIOLATION", batches[0].Err.Code)
}

func TestValidationMiddleware_ReportAll(t *testing.T) {
	reg := registry.NewRegistry()
	reg.Register("List", schema.Schema{{Name: "nums", Type: schema.ArrayOf(schema.Number())}})

	store := middleware.NewValidationMiddleware(middleware.ValidationConfig{
		Registry:  reg,
		Validator: schema.NewValidator(schema.WithArrayReport(schema.ReportAll)),
	})(NewMockStore())

	err := store.Save(context.Background(), entity(t, domain.NewKey("List", 1), map[string]any{"nums": []any{"a", "b"}}))
	v, ok := domain.AsViolation(err)
	require.True(t, ok)
	assert.Equal(t, []string{
		`Schema definition violated for property: "nums[0].nums". Expected type: Number, received: "a"`,
		`Schema definition violated for property: "nums[1].nums". Expected type: Number, received: "b"`,
	}, v.Errors[0].Errors)
}

func TestValidationMiddleware_RequiresRegistry(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewValidationMiddleware(middleware.ValidationConfig{})
	})
}
