package middleware_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/domain"
	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/persistence/middleware"
	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/ports"
)

func newRecorder() (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	return sr, tp
}

func attr(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, a := range attrs {
		if string(a.Key) == key {
			return a.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracingMiddleware_RejectedSave(t *testing.T) {
	sr, tp := newRecorder()
	store := middleware.Chain(NewMockStore(),
		middleware.NewTracingMiddleware(tp.Tracer("test")),
		middleware.NewValidationMiddleware(middleware.ValidationConfig{Registry: personRegistry()}),
	)

	err := store.Save(context.Background(), entity(t, domain.NewKey("Person", 1), map[string]any{}))
	require.True(t, domain.IsViolation(err))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "datastore.save", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)

	code, ok := attr(spans[0].Attributes(), "schema.violation.code")
	require.True(t, ok)
	assert.Equal(t, "ESCHEMAVIOLATION", code.AsString())

	kinds, ok := attr(spans[0].Attributes(), "datastore.kinds")
	require.True(t, ok)
	assert.Equal(t, []string{"Person"}, kinds.AsStringSlice())
}

func TestTracingMiddleware_LoadAndDelete(t *testing.T) {
	sr, tp := newRecorder()
	next := NewMockStore()
	store := middleware.NewTracingMiddleware(tp.Tracer("test"))(next)
	ctx := context.Background()

	key := domain.NewKey("Person", "doc")
	require.NoError(t, store.Save(ctx, entity(t, key, map[string]any{"name": "Doc"})))

	_, err := store.Load(ctx, key)
	require.NoError(t, err)

	_, err = store.Load(ctx, domain.NewKey("Person", "missing"))
	assert.ErrorIs(t, err, domain.ErrEntityNotFound)

	require.NoError(t, store.Delete(ctx, key))

	spans := sr.Ended()
	require.Len(t, spans, 4)
	assert.Equal(t, "datastore.save", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Equal(t, "datastore.load", spans[1].Name())

	k, ok := attr(spans[1].Attributes(), "datastore.key")
	require.True(t, ok)
	assert.Equal(t, "Person/doc", k.AsString())

	found, ok := attr(spans[2].Attributes(), "datastore.found")
	require.True(t, ok)
	assert.False(t, found.AsBool())
	assert.Equal(t, codes.Ok, spans[2].Status().Code, "a missing entity is not a failure")

	assert.Equal(t, "datastore.delete", spans[3].Name())
}

func TestChain_Order(t *testing.T) {
	var calls []string
	tag := func(name string) middleware.Middleware {
		return func(next ports.EntityStore) ports.EntityStore {
			return &recordingStore{EntityStore: next, name: name, calls: &calls}
		}
	}

	store := middleware.Chain(NewMockStore(), tag("outer"), nil, tag("inner"))
	require.NoError(t, store.Save(context.Background()))

	assert.Equal(t, []string{"outer", "inner"}, calls)
}

type recordingStore struct {
	ports.EntityStore
	name  string
	calls *[]string
}

func (s *recordingStore) Save(ctx context.Context, entities ...*domain.Entity) error {
	*s.calls = append(*s.calls, s.name)
	return s.EntityStore.Save(ctx, entities...)
}
