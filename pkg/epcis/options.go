package epcis

import (
	"log/slog"

	"github.com/jamischarles/epcis-parser/pkg/epcis/config"
	"github.com/jamischarles/epcis-parser/pkg/epcis/observability"
)

// Options configures a Parser.
type Options struct {
	// Validate runs schema validation during the parse. Default: true.
	Validate bool

	// ThrowOnError makes a validation failure fatal. When false the
	// failure is recorded in the validity result and extraction proceeds
	// best-effort. Default: true.
	ThrowOnError bool

	// Logger receives structured parse logs. Nil disables logging.
	Logger *slog.Logger

	// Spans receives trace spans for the parse and its stages.
	Spans observability.SpanManager

	// Metrics receives parse metrics.
	Metrics observability.MetricsRecorder
}

// defaultOptions returns the default parser configuration.
func defaultOptions() Options {
	return Options{
		Validate:     true,
		ThrowOnError: true,
		Spans:        observability.NoopSpanManager{},
		Metrics:      observability.NoopMetrics{},
	}
}

// Option configures parser behavior.
type Option func(*Options)

// WithValidation enables or disables schema validation.
// Default: enabled.
func WithValidation(enabled bool) Option {
	return func(o *Options) { o.Validate = enabled }
}

// WithThrowOnError controls whether a validation failure aborts the
// parse. When disabled, callers get a best-effort document plus the
// recorded validity errors. Default: enabled.
func WithThrowOnError(enabled bool) Option {
	return func(o *Options) { o.ThrowOnError = enabled }
}

// WithLogger attaches a structured logger to the parse.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithTracing attaches a span manager. Use
// observability.NewSpanManager() for OpenTelemetry tracing.
func WithTracing(spans observability.SpanManager) Option {
	return func(o *Options) {
		if spans != nil {
			o.Spans = spans
		}
	}
}

// WithMetrics attaches a metrics recorder. Use
// observability.NewMetricsRecorder() for OpenTelemetry metrics.
func WithMetrics(metrics observability.MetricsRecorder) Option {
	return func(o *Options) {
		if metrics != nil {
			o.Metrics = metrics
		}
	}
}

// OptionsFromConfig binds the recognized configuration keys to options:
//
//	validate: bool
//	validationOptions:
//	  throwOnError: bool
//
// Unrecognized keys are ignored.
func OptionsFromConfig(cfg config.Config) []Option {
	var opts []Option
	if cfg.Has("validate") {
		opts = append(opts, WithValidation(cfg.Bool("validate", true)))
	}
	vo := cfg.Sub("validationOptions")
	if vo.Has("throwOnError") {
		opts = append(opts, WithThrowOnError(vo.Bool("throwOnError", true)))
	}
	return opts
}
