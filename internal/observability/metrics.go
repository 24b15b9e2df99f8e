package observability

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/piepengu/satmath"

// Metrics holds the counters recorded across the service.
type Metrics struct {
	guardrailChecks  metric.Int64Counter
	guardrailReasons metric.Int64Counter
	fallbacks        metric.Int64Counter
	grades           metric.Int64Counter
}

// NewMetrics creates instruments on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var (
		out Metrics
		err error
	)
	if out.guardrailChecks, err = m.Int64Counter("satmath.guardrail.checks",
		metric.WithDescription("Untrusted payloads checked, by kind and verdict")); err != nil {
		return nil, err
	}
	if out.guardrailReasons, err = m.Int64Counter("satmath.guardrail.reasons",
		metric.WithDescription("Rejection reasons, by kind and reason code")); err != nil {
		return nil, err
	}
	if out.fallbacks, err = m.Int64Counter("satmath.ai.fallbacks",
		metric.WithDescription("Template fallbacks served instead of model output")); err != nil {
		return nil, err
	}
	if out.grades, err = m.Int64Counter("satmath.grades",
		metric.WithDescription("Graded responses, by skill and correctness")); err != nil {
		return nil, err
	}
	return &out, nil
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// Default returns instruments on the global meter provider.
func Default() *Metrics {
	defaultOnce.Do(func() {
		m, err := NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observability: create instruments: " + err.Error())
		}
		defaultMetrics = m
	})
	return defaultMetrics
}

// Guardrail records one verdict. kind is "item" or "elaboration".
func (m *Metrics) Guardrail(ctx context.Context, kind string, valid bool, reasons []string) {
	m.guardrailChecks.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.Bool("valid", valid),
	))
	for _, r := range reasons {
		m.guardrailReasons.Add(ctx, 1, metric.WithAttributes(
			attribute.String("kind", kind),
			attribute.String("reason", r),
		))
	}
}

// Fallback records a template fallback and its cause.
func (m *Metrics) Fallback(ctx context.Context, kind, cause string) {
	m.fallbacks.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("cause", cause),
	))
}

// Grade records one graded response.
func (m *Metrics) Grade(ctx context.Context, skill, source string, correct bool) {
	m.grades.Add(ctx, 1, metric.WithAttributes(
		attribute.String("skill", skill),
		attribute.String("source", source),
		attribute.Bool("correct", correct),
	))
}
