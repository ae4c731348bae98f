package license

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	TracerName = "license-core"
	MeterName  = "license-core"
)

// startSpan opens a span for a lifecycle operation.
func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// endSpan closes the span, recording err when the operation failed.
// Meant for defer with a named error return.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Metrics holds the license-core OpenTelemetry instruments.
type Metrics struct {
	LicensesCreated    metric.Int64Counter
	ActivationAttempts metric.Int64Counter
	ActivationFailures metric.Int64Counter
	ValidationAttempts metric.Int64Counter
	ValidationFailures metric.Int64Counter
	UsageRecorded      metric.Int64Counter
	Exports            metric.Int64Counter
	Imports            metric.Int64Counter
	EventsDropped      metric.Int64Counter
	OperationDuration  metric.Float64Histogram
}

// InitMetrics creates the license-core instruments on the given meter.
func InitMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.LicensesCreated, err = meter.Int64Counter(
		"license_created_total",
		metric.WithDescription("Total number of licenses issued"),
	); err != nil {
		return nil, fmt.Errorf("create licenses counter: %w", err)
	}

	if m.ActivationAttempts, err = meter.Int64Counter(
		"license_activation_attempts_total",
		metric.WithDescription("Total number of license activation attempts"),
	); err != nil {
		return nil, fmt.Errorf("create activation attempts counter: %w", err)
	}

	if m.ActivationFailures, err = meter.Int64Counter(
		"license_activation_failures_total",
		metric.WithDescription("Total number of failed license activations"),
	); err != nil {
		return nil, fmt.Errorf("create activation failures counter: %w", err)
	}

	if m.ValidationAttempts, err = meter.Int64Counter(
		"license_validation_attempts_total",
		metric.WithDescription("Total number of license validations"),
	); err != nil {
		return nil, fmt.Errorf("create validation attempts counter: %w", err)
	}

	if m.ValidationFailures, err = meter.Int64Counter(
		"license_validation_failures_total",
		metric.WithDescription("Total number of failed license validations"),
	); err != nil {
		return nil, fmt.Errorf("create validation failures counter: %w", err)
	}

	if m.UsageRecorded, err = meter.Int64Counter(
		"license_usage_recorded_total",
		metric.WithDescription("Total metered usage increments"),
	); err != nil {
		return nil, fmt.Errorf("create usage counter: %w", err)
	}

	if m.Exports, err = meter.Int64Counter(
		"license_exports_total",
		metric.WithDescription("Total offline license exports"),
	); err != nil {
		return nil, fmt.Errorf("create exports counter: %w", err)
	}

	if m.Imports, err = meter.Int64Counter(
		"license_imports_total",
		metric.WithDescription("Total offline license imports"),
	); err != nil {
		return nil, fmt.Errorf("create imports counter: %w", err)
	}

	if m.EventsDropped, err = meter.Int64Counter(
		"license_events_dropped_total",
		metric.WithDescription("Domain events dropped because the event buffer was full"),
	); err != nil {
		return nil, fmt.Errorf("create events dropped counter: %w", err)
	}

	if m.OperationDuration, err = meter.Float64Histogram(
		"license_operation_duration_seconds",
		metric.WithDescription("License operation duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}

	return m, nil
}
