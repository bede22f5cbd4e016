package domain

import (
	"context"
	"time"
)

// EntityEvent describes the validation of a single entity.
type EntityEvent struct {
	Kind       string
	Key        *Key
	Managed    bool // false when no schema is registered for Kind
	Violations []string
}

// BatchEvent describes the outcome of one intercepted save.
type BatchEvent struct {
	Entities int
	Rejected bool
	Err      *ViolationError
	Duration time.Duration
}

// ValidationHooks defines callbacks for validation observability.
// Any hook may be nil.
type ValidationHooks struct {
	OnEntityValidated func(context.Context, *EntityEvent)
	OnBatchValidated  func(context.Context, *BatchEvent)
}

// Merge returns hooks that call h first and then other.
func (h ValidationHooks) Merge(other ValidationHooks) ValidationHooks {
	return ValidationHooks{
		OnEntityValidated: chainEntity(h.OnEntityValidated, other.OnEntityValidated),
		OnBatchValidated:  chainBatch(h.OnBatchValidated, other.OnBatchValidated),
	}
}

func chainEntity(a, b func(context.Context, *EntityEvent)) func(context.Context, *EntityEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *EntityEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainBatch(a, b func(context.Context, *BatchEvent)) func(context.Context, *BatchEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *BatchEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
