package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestStripPrefix tests namespace prefix removal from element names.
func TestStripPrefix(t *testing.T) {
	assert.Equal(t, "EPCISDocument", StripPrefix("epcis:EPCISDocument"))
	assert.Equal(t, "EventList", StripPrefix("ns2:EventList"))
	assert.Equal(t, "eventTime", StripPrefix("eventTime"))
}

// TestStripPrefix_PreservesXmlns tests that namespace declarations survive.
func TestStripPrefix_PreservesXmlns(t *testing.T) {
	assert.Equal(t, "xmlns:epcis", StripPrefix("xmlns:epcis"))
	assert.Equal(t, "xmlns", StripPrefix("xmlns"))
}

// TestStripVocabPrefixes tests removal of known vocabulary prefixes only.
func TestStripVocabPrefixes(t *testing.T) {
	assert.Equal(t, "schemaVersion", StripVocabPrefixes("epcis:schemaVersion"))
	assert.Equal(t, "HeaderVersion", StripVocabPrefixes("sbdh:HeaderVersion"))
	assert.Equal(t, "type", StripVocabPrefixes("standard:type"))
	assert.Equal(t, "xmlns:epcis", StripVocabPrefixes("xmlns:epcis"))
	assert.Equal(t, "custom:field", StripVocabPrefixes("custom:field"))
}

// TestAsList tests the list normalization invariant: absent nodes yield
// an empty sequence, scalars are wrapped, sequences pass through.
func TestAsList(t *testing.T) {
	assert.Empty(t, AsList(nil))
	assert.Equal(t, []any{"one"}, AsList("one"))
	assert.Equal(t, []any{"a", "b"}, AsList([]any{"a", "b"}))

	m := map[string]any{"id": "x"}
	assert.Equal(t, []any{m}, AsList(m))
}

// TestGet tests key path traversal.
func TestGet(t *testing.T) {
	node := map[string]any{
		"EPCISBody": map[string]any{
			"EventList": map[string]any{"ObjectEvent": "e"},
		},
	}

	assert.Equal(t, "e", Get(node, "EPCISBody", "EventList", "ObjectEvent"))
	assert.Nil(t, Get(node, "EPCISBody", "missing"))
	assert.Nil(t, Get(node, "EPCISBody", "EventList", "ObjectEvent", "tooDeep"))
	assert.Nil(t, Get(nil, "anything"))
}

// TestGetString tests scalar extraction along a key path.
func TestGetString(t *testing.T) {
	node := map[string]any{
		"readPoint": map[string]any{"id": "urn:epc:id:sgln:0614141.00001.0"},
		"quantity":  float64(200),
	}

	assert.Equal(t, "urn:epc:id:sgln:0614141.00001.0", GetString(node, "readPoint", "id"))
	assert.Equal(t, "200", GetString(node, "quantity"))
	assert.Equal(t, "", GetString(node, "absent"))
}

// TestUnwrapTextOrValue_String tests the plain string case.
func TestUnwrapTextOrValue_String(t *testing.T) {
	s, attrs := UnwrapTextOrValue("urn:epc:id:sgln:0614141.00001.0")

	assert.Equal(t, "urn:epc:id:sgln:0614141.00001.0", s)
	assert.Nil(t, attrs)
}

// TestUnwrapTextOrValue_TextWithAttributes tests a text node carrying
// sibling attributes.
func TestUnwrapTextOrValue_TextWithAttributes(t *testing.T) {
	node := map[string]any{
		TextKey:     "urn:epc:id:sgln:0614141.00001.0",
		"Authority": "GS1",
	}

	s, attrs := UnwrapTextOrValue(node)

	assert.Equal(t, "urn:epc:id:sgln:0614141.00001.0", s)
	assert.Equal(t, map[string]any{"Authority": "GS1"}, attrs)
}

// TestUnwrapTextOrValue_StringifyFallback tests that a map without a
// text slot is rendered as JSON.
func TestUnwrapTextOrValue_StringifyFallback(t *testing.T) {
	s, attrs := UnwrapTextOrValue(map[string]any{"a": "b"})

	assert.Equal(t, `{"a":"b"}`, s)
	assert.Nil(t, attrs)
}

// TestScalar tests scalar rendering, including integral floats.
func TestScalar(t *testing.T) {
	assert.Equal(t, "", Scalar(nil))
	assert.Equal(t, "text", Scalar("text"))
	assert.Equal(t, "true", Scalar(true))
	assert.Equal(t, "200", Scalar(float64(200)))
	assert.Equal(t, "1.5", Scalar(1.5))
	assert.Equal(t, "42", Scalar(42))
}

// TestInt tests integer coercion from JSON numbers and strings.
func TestInt(t *testing.T) {
	n, ok := Int(float64(200))
	assert.True(t, ok)
	assert.Equal(t, 200, n)

	n, ok = Int("15")
	assert.True(t, ok)
	assert.Equal(t, 15, n)

	_, ok = Int("not a number")
	assert.False(t, ok)

	_, ok = Int(1.5)
	assert.False(t, ok)
}
