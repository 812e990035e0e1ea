package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	apperrors "github.com/allisson/secretgate/internal/errors"
)

// Outcome labels. The set is closed so dashboards can rely on it.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeDenied   = "denied"
	OutcomeTimeout  = "timeout"
	OutcomeError    = "error"
)

// OutcomeOf classifies err into one of the Outcome labels.
func OutcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case apperrors.Is(err, apperrors.ErrNotFound):
		return OutcomeNotFound
	case apperrors.Is(err, apperrors.ErrInvalidInput), apperrors.Is(err, apperrors.ErrConflict):
		return OutcomeInvalid
	case apperrors.Is(err, apperrors.ErrUnauthorized), apperrors.Is(err, apperrors.ErrForbidden):
		return OutcomeDenied
	case apperrors.Is(err, apperrors.ErrTimeout):
		return OutcomeTimeout
	default:
		return OutcomeError
	}
}

// BusinessMetrics records finished use case calls.
type BusinessMetrics interface {
	// Observe counts one call of domain/operation and records its latency,
	// labelled with OutcomeOf(err).
	Observe(ctx context.Context, domain, operation string, elapsed time.Duration, err error)
}

type businessMetrics struct {
	calls   metric.Int64Counter
	latency metric.Float64Histogram
}

// NewBusinessMetrics creates <namespace>_operations_total and
// <namespace>_operation_duration_seconds.
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	calls, err := meter.Int64Counter(
		namespace+"_operations_total",
		metric.WithDescription("Use case calls by outcome"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	latency, err := meter.Float64Histogram(
		namespace+"_operation_duration_seconds",
		metric.WithDescription("Use case latency, record store time included"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &businessMetrics{calls: calls, latency: latency}, nil
}

func (b *businessMetrics) Observe(
	ctx context.Context,
	domain, operation string,
	elapsed time.Duration,
	err error,
) {
	attrs := metric.WithAttributes(
		attribute.String("domain", domain),
		attribute.String("operation", operation),
		attribute.String("outcome", OutcomeOf(err)),
	)
	b.calls.Add(ctx, 1, attrs)
	b.latency.Record(ctx, elapsed.Seconds(), attrs)
}

// NoOpBusinessMetrics is used when METRICS_ENABLED is false.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a BusinessMetrics that discards everything.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return NoOpBusinessMetrics{}
}

func (NoOpBusinessMetrics) Observe(context.Context, string, string, time.Duration, error) {}
