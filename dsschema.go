package dsschema

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/domain"
	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/observability"
	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/persistence/middleware"
	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/ports"
	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/registry"
	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/schema"
)

// ErrKindNotRegistered is returned by Validate for kinds without a schema.
var ErrKindNotRegistered = errors.New("kind not registered")

// Datastore wraps a host EntityStore so that every save is checked against the
// schema registered for each entity's kind.
type Datastore struct {
	store     ports.EntityStore
	registry  *registry.Registry
	validator *schema.Validator
	hooks     domain.ValidationHooks
	tracer    trace.Tracer
	logger    *slog.Logger
	extra     []middleware.Middleware
}

// Option defines a functional option for configuring the Datastore.
type Option func(*Datastore)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Datastore) {
		d.logger = logger
	}
}

// WithRegistry shares an existing kind registry instead of creating a fresh one.
func WithRegistry(reg *registry.Registry) Option {
	return func(d *Datastore) {
		d.registry = reg
	}
}

// WithValidationHooks registers observability hooks. Repeated calls accumulate.
func WithValidationHooks(hooks domain.ValidationHooks) Option {
	return func(d *Datastore) {
		d.hooks = d.hooks.Merge(hooks)
	}
}

// WithMetrics records validation activity into m.
func WithMetrics(m *observability.Metrics) Option {
	return WithValidationHooks(m.Hooks())
}

// WithTracer records one span per store call.
func WithTracer(tracer trace.Tracer) Option {
	return func(d *Datastore) {
		d.tracer = tracer
	}
}

// WithArrayReport selects how failing array elements are reported.
func WithArrayReport(r schema.ArrayReport) Option {
	return func(d *Datastore) {
		d.validator = schema.NewValidator(schema.WithArrayReport(r))
	}
}

// WithMiddleware wraps the host store with additional middleware, inside validation:
// they only see saves that passed.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(d *Datastore) {
		d.extra = append(d.extra, mws...)
	}
}

// New wraps store. The returned Datastore forwards Load and Delete unchanged and
// intercepts Save.
func New(store ports.EntityStore, opts ...Option) (*Datastore, error) {
	if store == nil {
		return nil, fmt.Errorf("a host store is required")
	}

	d := &Datastore{}
	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if d.registry == nil {
		d.registry = registry.NewRegistry()
	}
	if d.validator == nil {
		d.validator = schema.NewValidator()
	}

	chain := make([]middleware.Middleware, 0, len(d.extra)+2)
	if d.tracer != nil {
		chain = append(chain, middleware.NewTracingMiddleware(d.tracer))
	}
	chain = append(chain, middleware.NewValidationMiddleware(middleware.ValidationConfig{
		Registry:  d.registry,
		Validator: d.validator,
		Logger:    d.logger,
		Hooks:     d.hooks,
	}))
	chain = append(chain, d.extra...)

	d.store = middleware.Chain(store, chain...)
	return d, nil
}

// Register associates a schema with a kind, replacing any previous one.
// Saves of that kind are validated from now on.
func (d *Datastore) Register(kind string, s schema.Schema) {
	d.registry.Register(kind, s)
	d.logger.Debug("schema registered", "kind", kind, "properties", len(s))
}

// Registry exposes the kind registry.
func (d *Datastore) Registry() *registry.Registry {
	return d.registry
}

// Save validates the entities and, when all of them conform, persists them
// through the host store. A rejected save returns a *domain.ViolationError.
func (d *Datastore) Save(ctx context.Context, entities ...*domain.Entity) error {
	return d.store.Save(ctx, entities...)
}

// Load reads an entity from the host store.
func (d *Datastore) Load(ctx context.Context, key *domain.Key) (*domain.Entity, error) {
	return d.store.Load(ctx, key)
}

// Delete removes an entity from the host store.
func (d *Datastore) Delete(ctx context.Context, key *domain.Key) error {
	return d.store.Delete(ctx, key)
}

// Validate checks data against the schema registered for kind without saving.
func (d *Datastore) Validate(kind string, data any) (schema.Violations, error) {
	s, ok := d.registry.Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKindNotRegistered, kind)
	}
	return d.validator.Validate(s, data), nil
}

// Key is shorthand for domain.NewKey.
func (d *Datastore) Key(path ...any) *domain.Key {
	return domain.NewKey(path...)
}
