package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"

	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/domain"
)

// DefaultPrefix is prepended to every key written by the store.
const DefaultPrefix = "dsschema:entity:"

// Store implements ports.EntityStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for entities.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for entities.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(k *domain.Key) string {
	return s.prefix + k.String()
}

func (s *Store) indexKey(kind string) string {
	return s.prefix + "index:" + kind
}

// Save writes all entities in a single MULTI/EXEC transaction.
// Incomplete keys are completed with a random identifier once the write succeeds.
func (s *Store) Save(ctx context.Context, entities ...*domain.Entity) error {
	keys := make([]*domain.Key, len(entities))
	payloads := make([][]byte, len(entities))

	for i, e := range entities {
		if e == nil || e.Key == nil {
			return domain.ErrNilKey
		}
		k := e.Key
		if k.Incomplete() {
			k = k.WithID(uuid.NewString())
		}

		data, err := json.Marshal(record{
			Kind: k.ResolveKind(),
			Path: k.Path,
			Data: encodeValue(e.Data).(map[string]any),
		})
		if err != nil {
			return fmt.Errorf("failed to marshal entity %s: %w", k, err)
		}
		keys[i] = k
		payloads[i] = data
	}

	// Score = Now + TTL. If TTL = 0, Score = far future.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}

	_, err := s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		for i, k := range keys {
			pipe.Set(ctx, s.key(k), payloads[i], s.ttl)
			pipe.ZAdd(ctx, s.indexKey(k.ResolveKind()), backend.Z{
				Score:  score,
				Member: k.String(),
			})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}

	for i, e := range entities {
		e.Key = keys[i]
	}
	return nil
}

// Load retrieves an entity from Redis.
func (s *Store) Load(ctx context.Context, key *domain.Key) (*domain.Entity, error) {
	if key.Incomplete() {
		return nil, domain.ErrIncompleteKey
	}

	val, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var rec record
	if err := json.Unmarshal(val, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entity: %w", err)
	}

	data, err := decodeValue(rec.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode entity %s: %w", key, err)
	}
	m, _ := data.(map[string]any)
	if m == nil {
		m = map[string]any{}
	}

	k := *key
	k.Path = append([]any(nil), key.Path...)
	return &domain.Entity{Key: &k, Data: m}, nil
}

// Delete removes an entity and its index entry.
func (s *Store) Delete(ctx context.Context, key *domain.Key) error {
	pipe := s.client.Pipeline()

	pipe.Del(ctx, s.key(key))
	pipe.ZRem(ctx, s.indexKey(key.ResolveKind()), key.String())

	_, err := pipe.Exec(ctx)
	return err
}

// Keys returns the stored keys of one kind, pruning expired index entries first.
func (s *Store) Keys(ctx context.Context, kind string) ([]string, error) {
	now := float64(time.Now().Unix())

	err := s.client.ZRemRangeByScore(ctx, s.indexKey(kind), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired entities: %w", err)
	}

	keys, err := s.client.ZRange(ctx, s.indexKey(kind), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}
	return keys, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
