package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/adapters/redis"
	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/domain"
	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/ports"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	return mr, backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)

	store := redis.NewFromClient(client)
	ports.RunEntityStoreContract(t, store)
}

func TestRedisStore_OpaqueRoundtrip(t *testing.T) {
	_, client := newClient(t)
	store := redis.NewFromClient(client)
	ctx := context.Background()

	key := domain.NewKey("Person", "doc")
	e, err := domain.NewEntity(key, map[string]any{
		"gpa":  domain.Double(4),
		"id":   domain.Int(9007199254740993),
		"home": domain.GeoPoint{Latitude: 40.7, Longitude: -74},
		"phones": []any{
			map[string]any{"ext": domain.Int(12)},
		},
	})
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, e))

	loaded, err := store.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, domain.Double(4), loaded.Data["gpa"])
	assert.Equal(t, domain.Int(9007199254740993), loaded.Data["id"])
	assert.Equal(t, domain.GeoPoint{Latitude: 40.7, Longitude: -74}, loaded.Data["home"])
	assert.Equal(t, []any{map[string]any{"ext": domain.Int(12)}}, loaded.Data["phones"])
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	// Create store with 1s TTL
	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	key := domain.NewKey("Person", "ttl")
	e, _ := domain.NewEntity(key, map[string]any{"name": "Doc"})
	require.NoError(t, store.Save(ctx, e))

	keys, err := store.Keys(ctx, "Person")
	assert.NoError(t, err)
	assert.Contains(t, keys, "Person/ttl")

	// Fast Forward time in miniredis (for Key Expiration)
	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, key)
	assert.ErrorIs(t, err, domain.ErrEntityNotFound)

	// Index cleanup is lazy and compares against the wall clock.
	time.Sleep(1200 * time.Millisecond)

	keys, err = store.Keys(ctx, "Person")
	assert.NoError(t, err)
	assert.Empty(t, keys)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	e, _ := domain.NewEntity(domain.NewKey("Company", "acme", "Person", 7), nil)
	require.NoError(t, store.Save(ctx, e))

	assert.True(t, mr.Exists("custom:app:Company/acme/Person/7"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index:Person"), "Expected kind index with custom prefix to exist")

	keys, err := store.Keys(ctx, "Person")
	assert.NoError(t, err)
	assert.Equal(t, []string{"Company/acme/Person/7"}, keys)

	require.NoError(t, store.Delete(ctx, e.Key))
	assert.False(t, mr.Exists("custom:app:Company/acme/Person/7"))

	keys, err = store.Keys(ctx, "Person")
	assert.NoError(t, err)
	assert.Empty(t, keys)
}

func TestRedisStore_NilKeyWritesNothing(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)

	good, _ := domain.NewEntity(domain.NewKey("Person", "a"), nil)
	err := store.Save(context.Background(), good, &domain.Entity{})
	assert.ErrorIs(t, err, domain.ErrNilKey)
	assert.Empty(t, mr.Keys())
}
