package validate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ContextURI is the EPCIS 2.0 JSON-LD context identifier. A document
// without it is not an EPCIS 2.0 JSON-LD document.
const ContextURI = "https://ref.gs1.org/standards/epcis/2.0.0/epcis-context.jsonld"

// epcis20Schema is the EPCIS 2.0 JSON-LD document schema. It is a
// simplified structural schema: it pins the envelope, the event list
// shape and the required per-event fields, not the full CBV semantics.
const epcis20Schema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["@context", "type", "epcisBody"],
  "properties": {
    "@context": {
      "oneOf": [
        {"type": "string"},
        {
          "type": "array",
          "items": {"type": "string"},
          "contains": {"const": "https://ref.gs1.org/standards/epcis/2.0.0/epcis-context.jsonld"}
        }
      ]
    },
    "type": {"const": "EPCISDocument"},
    "schemaVersion": {"type": "string"},
    "creationDate": {"type": "string", "format": "date-time"},
    "epcisHeader": {
      "type": "object",
      "properties": {
        "epcisMasterData": {"type": "object"},
        "sender": {"type": "object"},
        "receiver": {"type": "object"},
        "documentIdentification": {"type": "object"}
      }
    },
    "epcisBody": {
      "type": "object",
      "required": ["eventList"],
      "properties": {
        "eventList": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["type", "eventTime", "eventTimeZoneOffset"],
            "properties": {
              "type": {"type": "string"},
              "eventTime": {"type": "string", "format": "date-time"},
              "eventTimeZoneOffset": {"type": "string", "pattern": "^[+-][0-9]{2}:00$"},
              "epcList": {"type": "array", "items": {"type": "string"}},
              "action": {"type": "string", "enum": ["OBSERVE", "ADD", "DELETE"]},
              "bizStep": {"type": "string"},
              "disposition": {"type": "string"},
              "readPoint": {"type": "object"},
              "bizLocation": {"type": "object"},
              "bizTransactionList": {"type": "array"},
              "persistentDisposition": {"type": "object"},
              "sensorElementList": {"type": "array"}
            }
          }
        }
      }
    }
  }
}`

// JSONValidator validates EPCIS 2.0 JSON-LD documents against the
// embedded JSON Schema. The compiled schema is private instance state,
// built once on first use.
type JSONValidator struct {
	once   sync.Once
	schema *jsonschema.Schema
	err    error
}

var _ Validator = (*JSONValidator)(nil)

// NewJSON creates a JSON-LD validator.
func NewJSON() *JSONValidator {
	return &JSONValidator{}
}

// compile builds the schema on first use and memoizes the outcome.
func (v *JSONValidator) compile() (*jsonschema.Schema, error) {
	v.once.Do(func() {
		c := jsonschema.NewCompiler()
		c.AssertFormat = true
		if err := c.AddResource("epcis20.schema.json", strings.NewReader(epcis20Schema)); err != nil {
			v.err = fmt.Errorf("load EPCIS 2.0 JSON schema: %w", err)
			return
		}
		v.schema, v.err = c.Compile("epcis20.schema.json")
	})
	return v.schema, v.err
}

// Validate checks JSON syntax, the EPCIS 2.0 context URI and the
// document schema.
func (v *JSONValidator) Validate(ctx context.Context, data string) Result {
	if err := ctx.Err(); err != nil {
		return Invalid(err.Error())
	}

	var doc any
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return Invalid(fmt.Sprintf("json syntax error: %v", err))
	}

	if !HasEPCISContext(doc) {
		return Invalid("missing or invalid EPCIS 2.0 context in JSON-LD document")
	}

	schema, err := v.compile()
	if err != nil {
		return Invalid(err.Error())
	}

	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return Invalid(flatten(ve)...)
		}
		return Invalid(err.Error())
	}
	return OK()
}

// HasEPCISContext reports whether the decoded document declares the
// EPCIS 2.0 JSON-LD context, either as a plain string or as an array
// member.
func HasEPCISContext(doc any) bool {
	m, ok := doc.(map[string]any)
	if !ok {
		return false
	}
	switch c := m["@context"].(type) {
	case string:
		return c == ContextURI
	case []any:
		for _, item := range c {
			if s, ok := item.(string); ok && s == ContextURI {
				return true
			}
		}
	}
	return false
}

// flatten renders a schema validation error tree as one message per
// leaf cause, prefixed with the failing instance location.
func flatten(ve *jsonschema.ValidationError) []string {
	var out []string
	for _, e := range ve.BasicOutput().Errors {
		// The basic output interleaves branch summaries; keep leaves only.
		if strings.HasPrefix(e.Error, "doesn't validate with") {
			continue
		}
		loc := e.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		out = append(out, fmt.Sprintf("%s %s", loc, e.Error))
	}
	if len(out) == 0 {
		out = append(out, ve.Error())
	}
	return out
}
