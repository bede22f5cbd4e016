package middleware

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/domain"
	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/ports"
)

type tracingMiddleware struct {
	next   ports.EntityStore
	tracer trace.Tracer
}

// NewTracingMiddleware creates a middleware that records one span per store call.
// Placed outside the validation middleware, rejected saves show up as failed spans
// carrying the violation code.
func NewTracingMiddleware(tracer trace.Tracer) Middleware {
	return func(next ports.EntityStore) ports.EntityStore {
		return &tracingMiddleware{next: next, tracer: tracer}
	}
}

func (m *tracingMiddleware) Save(ctx context.Context, entities ...*domain.Entity) error {
	ctx, span := m.tracer.Start(ctx, "datastore.save")
	defer span.End()

	kinds := make([]string, 0, len(entities))
	seen := make(map[string]struct{}, len(entities))
	for _, e := range entities {
		k := e.Kind()
		if _, ok := seen[k]; ok || k == "" {
			continue
		}
		seen[k] = struct{}{}
		kinds = append(kinds, k)
	}
	span.SetAttributes(
		attribute.Int("datastore.entity_count", len(entities)),
		attribute.StringSlice("datastore.kinds", kinds),
	)

	err := m.next.Save(ctx, entities...)
	if v, ok := domain.AsViolation(err); ok {
		span.SetAttributes(
			attribute.String("schema.violation.code", v.Code),
			attribute.Int("schema.violation.entities", len(v.Errors)),
		)
	}
	endSpan(span, err)
	return err
}

func (m *tracingMiddleware) Load(ctx context.Context, key *domain.Key) (*domain.Entity, error) {
	ctx, span := m.tracer.Start(ctx, "datastore.load")
	defer span.End()

	span.SetAttributes(
		attribute.String("datastore.kind", key.ResolveKind()),
		attribute.String("datastore.key", key.String()),
	)

	e, err := m.next.Load(ctx, key)
	if errors.Is(err, domain.ErrEntityNotFound) {
		span.SetAttributes(attribute.Bool("datastore.found", false))
		span.SetStatus(codes.Ok, "not found")
		return e, err
	}
	endSpan(span, err)
	return e, err
}

func (m *tracingMiddleware) Delete(ctx context.Context, key *domain.Key) error {
	ctx, span := m.tracer.Start(ctx, "datastore.delete")
	defer span.End()

	span.SetAttributes(
		attribute.String("datastore.kind", key.ResolveKind()),
		attribute.String("datastore.key", key.String()),
	)

	err := m.next.Delete(ctx, key)
	endSpan(span, err)
	return err
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}
