package epcis

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for format detection and parsing.
var (
	// ErrUnknownFormat indicates the input matches none of the supported
	// dialects (EPCIS 1.2 XML, 2.0 XML, 2.0 JSON-LD).
	ErrUnknownFormat = errors.New("unknown EPCIS document format")

	// ErrStructure indicates the tokenized tree lacks the mandatory root
	// or body container for the detected dialect.
	ErrStructure = errors.New("invalid EPCIS document structure")

	// ErrValidation indicates schema validation failed and the parser is
	// configured to treat that as fatal.
	ErrValidation = errors.New("EPCIS schema validation failed")
)

// ValidationError carries the individual schema or syntax violations
// behind a fatal validation failure.
type ValidationError struct {
	// Message summarizes what was being validated.
	Message string
	// Errors are the individual violations reported by the validator.
	Errors []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Errors, "; "))
}

// Unwrap returns ErrValidation for errors.Is support.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// StructureError reports a missing mandatory container in the parsed tree.
type StructureError struct {
	// Format is the dialect being parsed.
	Format Format
	// Detail names the missing container.
	Detail string
}

// Error implements the error interface.
func (e *StructureError) Error() string {
	return fmt.Sprintf("%s: %s", e.Format, e.Detail)
}

// Unwrap returns ErrStructure for errors.Is support.
func (e *StructureError) Unwrap() error { return ErrStructure }
