package epcis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jamischarles/epcis-parser/pkg/epcis/validate"
)

// Format identifies one of the supported EPCIS dialects.
type Format string

// Supported dialects.
const (
	FormatV12XML    Format = "epcis-1.2-xml"
	FormatV20XML    Format = "epcis-2.0-xml"
	FormatV20JSONLD Format = "epcis-2.0-jsonld"
)

// Namespace and context markers used for detection. Detection is
// deliberate substring matching, not schema negotiation: the two XML
// dialects differ only by a namespace literal, not by structural shape.
const (
	ns12XML    = "urn:epcglobal:epcis:xsd:1"
	ns20XML    = "urn:epcglobal:epcis:xsd:2"
	ns20GS1Ref = "https://ref.gs1.org/standards/epcis/2.0.0/"
)

// DetectFormat decides which dialect the raw document text is written
// in, or fails with ErrUnknownFormat.
//
// Order matters: JSON-LD is tried first (a successful JSON parse with
// the EPCIS 2.0 context URI is unambiguous), then the XML namespaces
// are probed by substring.
func DetectFormat(data string) (Format, error) {
	var doc any
	if err := json.Unmarshal([]byte(data), &doc); err == nil {
		if validate.HasEPCISContext(doc) {
			return FormatV20JSONLD, nil
		}
	}

	if strings.HasPrefix(strings.TrimSpace(data), "<") {
		if strings.Contains(data, ns12XML) {
			return FormatV12XML, nil
		}
		if strings.Contains(data, ns20XML) || strings.Contains(data, ns20GS1Ref) {
			return FormatV20XML, nil
		}
	}

	return "", fmt.Errorf("%w: expected EPCIS 1.2 XML, EPCIS 2.0 XML, or EPCIS 2.0 JSON-LD", ErrUnknownFormat)
}

// String returns the format identifier.
func (f Format) String() string { return string(f) }

// Version returns the EPCIS standard version of the format.
func (f Format) Version() string {
	if f == FormatV12XML {
		return "1.2"
	}
	return "2.0"
}
