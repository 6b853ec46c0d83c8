package observability

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records parser metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordParse records a completed (or failed) document parse.
	RecordParse(ctx context.Context, format string, success bool, duration time.Duration)

	// RecordExtraction records how many events and master-data entries a
	// parse produced.
	RecordExtraction(ctx context.Context, format string, events, masterData int)

	// RecordValidation records a schema validation outcome.
	RecordValidation(ctx context.Context, format string, valid bool)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	parses             metric.Int64Counter
	parseLatency       metric.Float64Histogram
	eventsExtracted    metric.Int64Counter
	masterDataEntries  metric.Int64Counter
	validationFailures metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("epcis-parser")

	parses, err := meter.Int64Counter("epcis.parse.count",
		metric.WithDescription("Number of document parses"),
	)
	if err != nil {
		return nil, err
	}

	parseLatency, err := meter.Float64Histogram("epcis.parse.latency_ms",
		metric.WithDescription("Document parse latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	eventsExtracted, err := meter.Int64Counter("epcis.events.extracted",
		metric.WithDescription("Number of events extracted from documents"),
	)
	if err != nil {
		return nil, err
	}

	masterDataEntries, err := meter.Int64Counter("epcis.masterdata.extracted",
		metric.WithDescription("Number of master-data entries extracted from documents"),
	)
	if err != nil {
		return nil, err
	}

	validationFailures, err := meter.Int64Counter("epcis.validation.failures",
		metric.WithDescription("Number of schema validation failures"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		parses:             parses,
		parseLatency:       parseLatency,
		eventsExtracted:    eventsExtracted,
		masterDataEntries:  masterDataEntries,
		validationFailures: validationFailures,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		return NoopMetrics{}
	}
	return m
}

// RecordParse records a completed (or failed) document parse.
func (m *otelMetrics) RecordParse(ctx context.Context, format string, success bool, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("format", format),
		attribute.Bool("success", success),
	)
	m.parses.Add(ctx, 1, attrs)
	m.parseLatency.Record(ctx, float64(duration.Milliseconds()), attrs)
}

// RecordExtraction records extraction counts for a parse.
func (m *otelMetrics) RecordExtraction(ctx context.Context, format string, events, masterData int) {
	attrs := metric.WithAttributes(attribute.String("format", format))
	m.eventsExtracted.Add(ctx, int64(events), attrs)
	m.masterDataEntries.Add(ctx, int64(masterData), attrs)
}

// RecordValidation records a schema validation outcome.
func (m *otelMetrics) RecordValidation(ctx context.Context, format string, valid bool) {
	if valid {
		return
	}
	m.validationFailures.Add(ctx, 1,
		metric.WithAttributes(attribute.String("format", format)),
	)
}
