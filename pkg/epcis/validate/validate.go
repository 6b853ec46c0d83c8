// Package validate checks EPCIS documents against per-version schemas.
//
// Validation is best-effort and structural: the XML validators enforce a
// per-version structural profile (root element, namespace, required
// event fields) and the JSON-LD validator enforces a JSON Schema. The
// parser consumes validators as a black box through the Validator
// interface; a validator never aborts extraction by itself, it only
// reports.
//
// Schema state (compiled JSON Schema, XML structural profiles) is
// private to each validator instance so tests run in isolation; there is
// no process-wide cache.
package validate

import "context"

// Result is the outcome of one validation run.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Invalid builds a failed Result from the given messages.
func Invalid(errs ...string) Result {
	return Result{Valid: false, Errors: errs}
}

// OK is a passing result.
func OK() Result {
	return Result{Valid: true, Errors: []string{}}
}

// Validator validates one dialect of raw EPCIS document text.
type Validator interface {
	// Validate checks the raw document. It never returns an error for
	// an invalid document; violations are reported through the Result.
	Validate(ctx context.Context, data string) Result
}
