package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunEntityStoreContract runs a suite of tests to verify that an EntityStore
// implementation adheres to the defined interface contract.
func RunEntityStoreContract(t *testing.T, store EntityStore) {
	ctx := context.Background()
	suffix := time.Now().Format("20060102150405.000000")

	t.Run("Save and Load", func(t *testing.T) {
		key := domain.NewKey("Person", "doc-"+suffix)
		entity, err := domain.NewEntity(key, map[string]any{
			"name":  "Doc",
			"tools": []any{"Stethoscope"},
			"age":   8,
		})
		require.NoError(t, err)

		require.NoError(t, store.Save(ctx, entity), "Save should not return error")

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, "Person", loaded.Kind())
		assert.Equal(t, key.String(), loaded.Key.String())
		assert.Equal(t, "Doc", loaded.Data["name"])
		assert.Len(t, loaded.Data["tools"], 1)
		// JSON backed stores may widen numbers, so only presence is checked.
		assert.NotNil(t, loaded.Data["age"])
	})

	t.Run("Save Batch", func(t *testing.T) {
		k1 := domain.NewKey("Person", "batch-1-"+suffix)
		k2 := domain.NewKey("Company", "acme-"+suffix, "Person", "batch-2-"+suffix)
		e1, _ := domain.NewEntity(k1, map[string]any{"name": "one"})
		e2, _ := domain.NewEntity(k2, map[string]any{"name": "two"})

		require.NoError(t, store.Save(ctx, e1, e2))

		for _, k := range []*domain.Key{k1, k2} {
			loaded, err := store.Load(ctx, k)
			require.NoError(t, err, k.String())
			assert.Equal(t, "Person", loaded.Kind())
		}
	})

	t.Run("Incomplete Key", func(t *testing.T) {
		entity, _ := domain.NewEntity(domain.NewKey("Person"), map[string]any{"name": "anon"})

		require.NoError(t, store.Save(ctx, entity))
		require.False(t, entity.Key.Incomplete(), "Save should allocate an identifier")

		loaded, err := store.Load(ctx, entity.Key)
		require.NoError(t, err)
		assert.Equal(t, "anon", loaded.Data["name"])
	})

	t.Run("Overwrite", func(t *testing.T) {
		key := domain.NewKey("Person", "overwrite-"+suffix)
		first, _ := domain.NewEntity(key, map[string]any{"name": "before"})
		second, _ := domain.NewEntity(key, map[string]any{"name": "after"})

		require.NoError(t, store.Save(ctx, first))
		require.NoError(t, store.Save(ctx, second))

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "after", loaded.Data["name"])
	})

	t.Run("Isolation", func(t *testing.T) {
		key := domain.NewKey("Person", "isolation-"+suffix)
		entity, _ := domain.NewEntity(key, map[string]any{"name": "original"})
		require.NoError(t, store.Save(ctx, entity))

		entity.Data["name"] = "mutated"

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "original", loaded.Data["name"], "stored entity must not alias the caller's data")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, domain.NewKey("Person", "missing-"+suffix))
		assert.ErrorIs(t, err, domain.ErrEntityNotFound)
	})

	t.Run("Load Incomplete", func(t *testing.T) {
		_, err := store.Load(ctx, domain.NewKey("Person"))
		assert.ErrorIs(t, err, domain.ErrIncompleteKey)
	})

	t.Run("Nil Key", func(t *testing.T) {
		err := store.Save(ctx, &domain.Entity{Data: map[string]any{}})
		assert.ErrorIs(t, err, domain.ErrNilKey)
	})

	t.Run("Delete", func(t *testing.T) {
		key := domain.NewKey("Person", "delete-"+suffix)
		entity, _ := domain.NewEntity(key, nil)
		require.NoError(t, store.Save(ctx, entity))

		require.NoError(t, store.Delete(ctx, key), "Delete should not return error")

		_, err := store.Load(ctx, key)
		assert.ErrorIs(t, err, domain.ErrEntityNotFound, "Load after Delete should return ErrEntityNotFound")

		assert.NoError(t, store.Delete(ctx, key), "Deleting twice should be a no-op")
	})
}
