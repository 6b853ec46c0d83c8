// Package tree provides coercion helpers for generic parsed document trees.
//
// A tokenized EPCIS document is a recursive value of three shapes:
// map[string]any (an element or object), []any (repeated elements or a
// JSON array), or a scalar (usually string). Namespace-oblivious XML
// tokenizers collapse a list with one child into a bare value, and encode
// "text content plus attributes" as a map with a reserved text slot; the
// helpers here paper over both quirks so the version adapters can walk
// every dialect with the same code.
package tree

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// TextKey is the reserved map slot holding an element's character data
// when the element also carries attributes.
const TextKey = "#text"

// knownVocabPrefixes are serialization prefixes that carry no semantic
// meaning and are stripped even from attribute names, where generic
// colon-stripping would be wrong (xmlns:foo must survive).
var knownVocabPrefixes = []string{"epcis:", "standard:", "sbdh:"}

// StripPrefix removes a leading namespace prefix ("ns:Tag" -> "Tag").
// Names beginning with "xmlns" are returned unchanged so namespace
// declarations stay recognizable.
func StripPrefix(name string) string {
	if strings.HasPrefix(name, "xmlns") {
		return name
	}
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// StripVocabPrefixes removes only the well-known vocabulary prefixes
// (epcis:, standard:, sbdh:) from a name. Used for attribute names,
// where arbitrary colon-stripping would destroy xmlns declarations.
func StripVocabPrefixes(name string) string {
	for _, p := range knownVocabPrefixes {
		if strings.HasPrefix(name, p) {
			return name[len(p):]
		}
	}
	return name
}

// AsList normalizes a node into a slice.
//
// A missing node yields an empty slice, a slice is returned as-is, and
// any other value is wrapped as a one-element slice. This is the
// load-bearing cardinality fix: every dialect encodes "one child"
// ambiguously as either a scalar or a singleton wrapper.
func AsList(node any) []any {
	switch v := node.(type) {
	case nil:
		return []any{}
	case []any:
		return v
	default:
		return []any{v}
	}
}

// AsMap returns the node as a map, or false if it is not one.
func AsMap(node any) (map[string]any, bool) {
	m, ok := node.(map[string]any)
	return m, ok
}

// Get walks a chain of map keys and returns the value at the end of the
// path, or nil as soon as a segment is missing or not a map.
func Get(node any, keys ...string) any {
	cur := node
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[k]
		if !ok {
			return nil
		}
	}
	return cur
}

// GetString walks a key path and returns the scalar at the end as a
// string, unwrapping a text-plus-attributes map if needed. Returns ""
// when the path is absent.
func GetString(node any, keys ...string) string {
	v := Get(node, keys...)
	if v == nil {
		return ""
	}
	s, _ := UnwrapTextOrValue(v)
	return s
}

// UnwrapTextOrValue resolves a node that is either a plain scalar or a
// map carrying its text content under TextKey alongside sibling
// attributes (e.g. an Authority attribute on an Identifier element).
//
// Resolution order: a string is returned as-is; a map with a text slot
// yields the slot's content plus the sibling keys as attributes; any
// other map is JSON-stringified as a last resort (deliberately lossy).
func UnwrapTextOrValue(node any) (string, map[string]any) {
	switch v := node.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case map[string]any:
		if text, ok := v[TextKey]; ok {
			attrs := make(map[string]any, len(v)-1)
			for k, val := range v {
				if k != TextKey {
					attrs[k] = val
				}
			}
			if len(attrs) == 0 {
				attrs = nil
			}
			return Scalar(text), attrs
		}
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v), nil
		}
		return string(b), nil
	default:
		return Scalar(v), nil
	}
}

// Scalar renders a scalar node as a string. Floats that hold integral
// values (the default JSON number decoding) print without an exponent
// or trailing fraction.
func Scalar(node any) string {
	switch v := node.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprint(v)
	}
}

// Int coerces a scalar node into an int. Accepts numeric strings and
// JSON numbers; reports false for anything else.
func Int(node any) (int, bool) {
	switch v := node.(type) {
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	case int:
		return v, true
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n, true
		}
	}
	return 0, false
}
