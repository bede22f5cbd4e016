package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/domain"
	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/observability"
)

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	hooks := observability.LogHooks(logger)
	ctx := context.Background()

	hooks.OnEntityValidated(ctx, &domain.EntityEvent{Kind: "Note", Key: domain.NewKey("Note", 1)})
	hooks.OnEntityValidated(ctx, &domain.EntityEvent{
		Kind:       "Person",
		Key:        domain.NewKey("Person", 1),
		Managed:    true,
		Violations: []string{`Schema definition expected property: "name"`},
	})
	hooks.OnBatchValidated(ctx, &domain.BatchEvent{Entities: 2, Rejected: true})

	out := buf.String()
	assert.NotContains(t, out, "entity_unmanaged", "debug records are filtered at info level")
	assert.Contains(t, out, "msg=entity_violation")
	assert.Contains(t, out, "kind=Person")
	assert.Contains(t, out, "key=Person/1")
	assert.NotContains(t, out, "save_validated")
}
