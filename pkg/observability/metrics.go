package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/domain"
)

// Entity validation outcomes used as the "result" label.
const (
	ResultValid     = "valid"
	ResultInvalid   = "invalid"
	ResultUnmanaged = "unmanaged"
)

// Save outcomes used as the "result" label.
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
)

// Metrics exports validation activity as Prometheus collectors.
type Metrics struct {
	EntitiesValidated *prometheus.CounterVec
	Violations        *prometheus.CounterVec
	Saves             *prometheus.CounterVec
	Duration          prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EntitiesValidated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dsschema_entities_validated_total",
				Help: "Total number of entities checked on save, by kind and result",
			},
			[]string{"kind", "result"},
		),
		Violations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dsschema_violations_total",
				Help: "Total number of schema violation messages, by kind",
			},
			[]string{"kind"},
		),
		Saves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dsschema_saves_total",
				Help: "Total number of intercepted saves, by result",
			},
			[]string{"result"},
		),
		Duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dsschema_validation_duration_seconds",
				Help:    "Time spent validating one save batch",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.EntitiesValidated, m.Violations, m.Saves, m.Duration)
	}
	return m
}

// Hooks returns validation hooks that record into m.
func (m *Metrics) Hooks() domain.ValidationHooks {
	return domain.ValidationHooks{
		OnEntityValidated: func(_ context.Context, e *domain.EntityEvent) {
			result := ResultValid
			switch {
			case !e.Managed:
				result = ResultUnmanaged
			case len(e.Violations) > 0:
				result = ResultInvalid
				m.Violations.WithLabelValues(e.Kind).Add(float64(len(e.Violations)))
			}
			m.EntitiesValidated.WithLabelValues(e.Kind, result).Inc()
		},
		OnBatchValidated: func(_ context.Context, e *domain.BatchEvent) {
			result := ResultAccepted
			if e.Rejected {
				result = ResultRejected
			}
			m.Saves.WithLabelValues(result).Inc()
			m.Duration.Observe(e.Duration.Seconds())
		},
	}
}
