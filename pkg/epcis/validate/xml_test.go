package validate

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const valid12Doc = `<?xml version="1.0" encoding="UTF-8"?>
<epcis:EPCISDocument xmlns:epcis="urn:epcglobal:epcis:xsd:1" schemaVersion="1.2" creationDate="2023-01-01T00:00:00Z">
  <EPCISBody>
    <EventList>
      <ObjectEvent>
        <eventTime>2023-01-01T10:00:00Z</eventTime>
        <eventTimeZoneOffset>+00:00</eventTimeZoneOffset>
        <action>OBSERVE</action>
      </ObjectEvent>
    </EventList>
  </EPCISBody>
</epcis:EPCISDocument>`

// TestXMLValidator_Valid tests a structurally correct 1.2 document.
func TestXMLValidator_Valid(t *testing.T) {
	res := NewXML("1.2").Validate(context.Background(), valid12Doc)

	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
}

// TestXMLValidator_WrongRoot tests rejection of a non-EPCIS root element.
func TestXMLValidator_WrongRoot(t *testing.T) {
	res := NewXML("1.2").Validate(context.Background(), `<SomeDocument><EPCISBody/></SomeDocument>`)

	require.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], "root element")
}

// TestXMLValidator_MissingNamespace tests that a document without the
// version namespace is reported.
func TestXMLValidator_MissingNamespace(t *testing.T) {
	doc := `<EPCISDocument><EPCISBody><EventList/></EPCISBody></EPCISDocument>`
	res := NewXML("1.2").Validate(context.Background(), doc)

	require.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], "namespace")
}

// TestXMLValidator_NamespaceDeclarationForms tests that both declaration
// forms satisfy the namespace check: the default xmlns and a prefixed
// xmlns:epcis, which the tokenizer must keep recognizable.
func TestXMLValidator_NamespaceDeclarationForms(t *testing.T) {
	for name, doc := range map[string]string{
		"default":  `<EPCISDocument xmlns="urn:epcglobal:epcis:xsd:1"><EPCISBody><EventList/></EPCISBody></EPCISDocument>`,
		"prefixed": `<epcis:EPCISDocument xmlns:epcis="urn:epcglobal:epcis:xsd:1"><EPCISBody><EventList/></EPCISBody></epcis:EPCISDocument>`,
	} {
		res := NewXML("1.2").Validate(context.Background(), doc)
		assert.True(t, res.Valid, "%s: %v", name, res.Errors)
	}
}

// TestXMLValidator_MissingBody tests that a missing EPCISBody is reported.
func TestXMLValidator_MissingBody(t *testing.T) {
	doc := `<EPCISDocument xmlns="urn:epcglobal:epcis:xsd:1"></EPCISDocument>`
	res := NewXML("1.2").Validate(context.Background(), doc)

	require.False(t, res.Valid)
	assert.Contains(t, strings.Join(res.Errors, "; "), "EPCISBody")
}

// TestXMLValidator_MissingEventFields tests per-event structural checks.
func TestXMLValidator_MissingEventFields(t *testing.T) {
	doc := `<EPCISDocument xmlns="urn:epcglobal:epcis:xsd:1">
	  <EPCISBody><EventList>
	    <ObjectEvent><action>OBSERVE</action></ObjectEvent>
	  </EventList></EPCISBody>
	</EPCISDocument>`
	res := NewXML("1.2").Validate(context.Background(), doc)

	require.False(t, res.Valid)
	joined := strings.Join(res.Errors, "; ")
	assert.Contains(t, joined, "eventTime")
	assert.Contains(t, joined, "eventTimeZoneOffset")
}

// TestXMLValidator_InvalidAction tests the action enumeration check.
func TestXMLValidator_InvalidAction(t *testing.T) {
	doc := `<EPCISDocument xmlns="urn:epcglobal:epcis:xsd:1">
	  <EPCISBody><EventList>
	    <ObjectEvent>
	      <eventTime>2023-01-01T10:00:00Z</eventTime>
	      <eventTimeZoneOffset>+00:00</eventTimeZoneOffset>
	      <action>LOOK</action>
	    </ObjectEvent>
	  </EventList></EPCISBody>
	</EPCISDocument>`
	res := NewXML("1.2").Validate(context.Background(), doc)

	require.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], `invalid action "LOOK"`)
}

// TestXMLValidator_QueryDocument tests that the query-results event list
// nesting is accepted.
func TestXMLValidator_QueryDocument(t *testing.T) {
	doc := `<EPCISQueryDocument xmlns="urn:epcglobal:epcis:xsd:1">
	  <EPCISBody>
	    <QueryResults>
	      <resultsBody>
	        <EventList>
	          <ObjectEvent>
	            <eventTime>2023-01-01T10:00:00Z</eventTime>
	            <eventTimeZoneOffset>+00:00</eventTimeZoneOffset>
	          </ObjectEvent>
	        </EventList>
	      </resultsBody>
	    </QueryResults>
	  </EPCISBody>
	</EPCISQueryDocument>`
	res := NewXML("1.2").Validate(context.Background(), doc)

	assert.True(t, res.Valid, "errors: %v", res.Errors)
}

// TestXMLValidator_V20Namespace tests 2.0 namespace acceptance.
func TestXMLValidator_V20Namespace(t *testing.T) {
	doc := `<EPCISDocument xmlns="urn:epcglobal:epcis:xsd:2">
	  <EPCISBody><EventList/></EPCISBody>
	</EPCISDocument>`
	res := NewXML("2.0").Validate(context.Background(), doc)

	assert.True(t, res.Valid, "errors: %v", res.Errors)
}

// TestXMLValidator_UnsupportedVersion tests the version guard.
func TestXMLValidator_UnsupportedVersion(t *testing.T) {
	res := NewXML("3.0").Validate(context.Background(), valid12Doc)

	require.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], "unsupported EPCIS version")
}

// TestXMLValidator_DeterministicErrors tests that repeated validation of
// the same document reports violations in the same order.
func TestXMLValidator_DeterministicErrors(t *testing.T) {
	doc := `<EPCISDocument xmlns="urn:epcglobal:epcis:xsd:1">
	  <EPCISBody><EventList>
	    <ObjectEvent><action>OBSERVE</action></ObjectEvent>
	    <AggregationEvent><action>ADD</action></AggregationEvent>
	  </EventList></EPCISBody>
	</EPCISDocument>`

	first := NewXML("1.2").Validate(context.Background(), doc)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first.Errors, NewXML("1.2").Validate(context.Background(), doc).Errors)
	}
}
