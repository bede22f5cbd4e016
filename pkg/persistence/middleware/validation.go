package middleware

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/domain"
	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/ports"
	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/registry"
	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/schema"
)

// ValidationConfig configures the schema validation middleware.
type ValidationConfig struct {
	// Registry supplies the schema of each managed kind. Required.
	Registry *registry.Registry

	// Validator walks entities against their schema. Defaults to a ReportFirst validator.
	Validator *schema.Validator

	// Logger defaults to a discard logger.
	Logger *slog.Logger

	// Hooks are notified for every validated entity and every intercepted save.
	Hooks domain.ValidationHooks
}

type validationMiddleware struct {
	next      ports.EntityStore
	registry  *registry.Registry
	validator *schema.Validator
	logger    *slog.Logger
	hooks     domain.ValidationHooks
}

// NewValidationMiddleware creates a middleware that checks every entity of a save
// against the schema registered for its kind. If any entity violates its schema
// the whole save is rejected with a *domain.ViolationError and the wrapped store
// is never called. Entities of unmanaged kinds pass through unchecked.
func NewValidationMiddleware(config ValidationConfig) Middleware {
	if config.Registry == nil {
		panic("validation middleware requires a registry")
	}
	if config.Validator == nil {
		config.Validator = schema.NewValidator()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return func(next ports.EntityStore) ports.EntityStore {
		return &validationMiddleware{
			next:      next,
			registry:  config.Registry,
			validator: config.Validator,
			logger:    config.Logger,
			hooks:     config.Hooks,
		}
	}
}

func (m *validationMiddleware) Save(ctx context.Context, entities ...*domain.Entity) error {
	start := time.Now()

	if verr := m.check(ctx, entities); verr != nil {
		m.logger.Warn("save rejected by schema validation",
			"entities", len(entities),
			"invalid", len(verr.Errors),
		)
		m.notifyBatch(ctx, &domain.BatchEvent{
			Entities: len(entities),
			Rejected: true,
			Err:      verr,
			Duration: time.Since(start),
		})
		return verr
	}

	m.notifyBatch(ctx, &domain.BatchEvent{
		Entities: len(entities),
		Duration: time.Since(start),
	})
	return m.next.Save(ctx, entities...)
}

// check validates the batch in order and returns the aggregate, or nil when every
// managed entity conforms.
func (m *validationMiddleware) check(ctx context.Context, entities []*domain.Entity) *domain.ViolationError {
	verr := domain.NewViolationError()

	for _, e := range entities {
		if e == nil || e.Key == nil {
			continue
		}

		kind := e.Kind()
		s, managed := m.registry.Lookup(kind)
		event := &domain.EntityEvent{Kind: kind, Key: e.Key, Managed: managed}

		if !managed {
			m.logger.Debug("no schema registered, skipping validation", "kind", kind, "key", e.Key.String())
			m.notifyEntity(ctx, event)
			continue
		}

		violations := m.validator.Validate(s, e.Data)
		event.Violations = violations
		m.notifyEntity(ctx, event)

		if len(violations) > 0 {
			m.logger.Debug("entity violates schema", "kind", kind, "key", e.Key.String(), "violations", len(violations))
			verr.Add(kind, violations)
		}
	}

	if !verr.HasErrors() {
		return nil
	}
	return verr
}

func (m *validationMiddleware) notifyEntity(ctx context.Context, e *domain.EntityEvent) {
	if m.hooks.OnEntityValidated != nil {
		m.hooks.OnEntityValidated(ctx, e)
	}
}

func (m *validationMiddleware) notifyBatch(ctx context.Context, e *domain.BatchEvent) {
	if m.hooks.OnBatchValidated != nil {
		m.hooks.OnBatchValidated(ctx, e)
	}
}

func (m *validationMiddleware) Load(ctx context.Context, key *domain.Key) (*domain.Entity, error) {
	return m.next.Load(ctx, key)
}

func (m *validationMiddleware) Delete(ctx context.Context, key *domain.Key) error {
	return m.next.Delete(ctx, key)
}
