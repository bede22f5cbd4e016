package observability

import (
	"context"
	"log/slog"

	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/domain"
)

// LogHooks returns validation hooks that write one structured record per event.
// Violations of rejected entities are logged individually at Info level.
func LogHooks(logger *slog.Logger) domain.ValidationHooks {
	return domain.ValidationHooks{
		OnEntityValidated: func(ctx context.Context, e *domain.EntityEvent) {
			if !e.Managed {
				logger.DebugContext(ctx, "entity_unmanaged", "kind", e.Kind, "key", e.Key.String())
				return
			}
			if len(e.Violations) == 0 {
				logger.DebugContext(ctx, "entity_valid", "kind", e.Kind, "key", e.Key.String())
				return
			}
			for _, v := range e.Violations {
				logger.InfoContext(ctx, "entity_violation",
					"kind", e.Kind,
					"key", e.Key.String(),
					"violation", v,
				)
			}
		},
		OnBatchValidated: func(ctx context.Context, e *domain.BatchEvent) {
			logger.DebugContext(ctx, "save_validated",
				"entities", e.Entities,
				"rejected", e.Rejected,
				"duration", e.Duration,
			)
		},
	}
}
