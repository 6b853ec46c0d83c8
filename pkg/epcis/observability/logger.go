// Package observability provides opt-in observability for the EPCIS
// parser: structured logging via slog, metrics and tracing via
// OpenTelemetry. Every feature has a no-op implementation and tolerates
// a nil logger, so instrumentation never becomes a hard dependency of a
// parse.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds parse context to a logger.
// Returns a new logger with parse_id and format fields.
func EnrichLogger(logger *slog.Logger, parseID, format string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("parse_id", parseID),
		slog.String("format", format),
	)
}

// LogParseStart logs the start of a document parse.
func LogParseStart(logger *slog.Logger, parseID, format string, sizeBytes int) {
	if logger == nil {
		return
	}
	logger.Info("parse starting",
		slog.String("parse_id", parseID),
		slog.String("format", format),
		slog.Int("size_bytes", sizeBytes),
	)
}

// LogParseComplete logs successful parse completion.
func LogParseComplete(logger *slog.Logger, parseID string, eventCount, masterDataCount int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("parse completed",
		slog.String("parse_id", parseID),
		slog.Int("events", eventCount),
		slog.Int("master_data_entries", masterDataCount),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogParseError logs parse failure.
func LogParseError(logger *slog.Logger, parseID string, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Error("parse failed",
		slog.String("parse_id", parseID),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogValidation logs the outcome of schema validation (non-fatal path).
func LogValidation(logger *slog.Logger, parseID string, valid bool, errorCount int) {
	if logger == nil {
		return
	}
	if valid {
		logger.Debug("validation passed", slog.String("parse_id", parseID))
		return
	}
	logger.Warn("validation failed",
		slog.String("parse_id", parseID),
		slog.Int("errors", errorCount),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
