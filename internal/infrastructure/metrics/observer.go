// Package metrics records decision engine telemetry through OpenTelemetry.
package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/bibbank/loan-decision-service/internal/domain/port"
	"github.com/bibbank/loan-decision-service/internal/domain/valueobject"
)

const instrumentationName = "github.com/bibbank/loan-decision-service/internal/infrastructure/metrics"

// EngineObserver implements port.EvaluationObserver.
type EngineObserver struct {
	evaluations metric.Int64Counter
	fallbacks   metric.Int64Counter
	duration    metric.Float64Histogram
}

var _ port.EvaluationObserver = (*EngineObserver)(nil)

// NewEngineObserver creates the engine instruments on provider's meter.
func NewEngineObserver(provider metric.MeterProvider) (*EngineObserver, error) {
	meter := provider.Meter(instrumentationName)

	evaluations, err := meter.Int64Counter("loan_evaluations",
		metric.WithDescription("Completed loan evaluations by decision and classifier path."),
	)
	if err != nil {
		return nil, fmt.Errorf("create evaluations counter: %w", err)
	}
	fallbacks, err := meter.Int64Counter("loan_classifier_fallbacks",
		metric.WithDescription("Classifications served by the rule-based fallback, by failure reason."),
	)
	if err != nil {
		return nil, fmt.Errorf("create fallbacks counter: %w", err)
	}
	duration, err := meter.Float64Histogram("loan_classifier_duration",
		metric.WithDescription("Time spent producing a classification."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10),
	)
	if err != nil {
		return nil, fmt.Errorf("create classifier duration histogram: %w", err)
	}

	return &EngineObserver{evaluations: evaluations, fallbacks: fallbacks, duration: duration}, nil
}

func (o *EngineObserver) ClassifierCompleted(ctx context.Context, source valueobject.ClassifierSource, elapsed time.Duration) {
	o.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String("path", source.String())))
}

func (o *EngineObserver) ClassifierFellBack(ctx context.Context, reason string) {
	o.fallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

func (o *EngineObserver) EvaluationCompleted(ctx context.Context, status valueobject.ApprovalStatus, source valueobject.ClassifierSource) {
	o.evaluations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status.String()),
		attribute.String("path", source.String()),
	))
}
