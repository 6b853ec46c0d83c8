package epcis

import "encoding/json"

// Document is the canonical, version-independent representation of an
// EPCIS document. It is produced once per parse and never mutated after
// cross-linking completes.
type Document struct {
	// Events in document order: grouped by event type in the fixed
	// per-version enumeration order, source order preserved within each
	// group.
	Events []*Event `json:"events"`

	// MasterData maps vocabulary element id to its entry. Keys are
	// unique; a repeated id across vocabularies is last-write-wins (a
	// source-data anomaly, not deduplicated further).
	MasterData map[string]*MasterData `json:"masterData"`

	// Header is an open metadata mapping (standard version, document
	// identification, arbitrary passthrough fields).
	Header Header `json:"header"`

	Sender   Party `json:"sender"`
	Receiver Party `json:"receiver"`
}

// Header holds document-level metadata as an open mapping.
type Header map[string]any

// StandardVersion returns the declared schema version, if present.
func (h Header) StandardVersion() string {
	s, _ := h["standardVersion"].(string)
	return s
}

// Party identifies a document sender or receiver. Identification may be
// partial: heuristic resolution fills whatever fields it can and leaves
// the rest empty.
type Party struct {
	Identifier string
	Authority  string
	Name       string
	// Extra holds passthrough fields from producers that attach more
	// than the standard identifier/name pair.
	Extra map[string]any
}

// IsZero reports whether no field of the party was resolved.
func (p Party) IsZero() bool {
	return p.Identifier == "" && p.Authority == "" && p.Name == "" && len(p.Extra) == 0
}

// MarshalJSON flattens Extra next to the standard fields. Standard
// fields win on a key collision.
func (p Party) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Extra)+3)
	for k, v := range p.Extra {
		out[k] = v
	}
	if p.Identifier != "" {
		out["identifier"] = p.Identifier
	}
	if p.Authority != "" {
		out["authority"] = p.Authority
	}
	if p.Name != "" {
		out["name"] = p.Name
	}
	return json.Marshal(out)
}

// Ref is an identifier reference, such as a read point or a vocabulary
// child element.
type Ref struct {
	ID string `json:"id"`
}

// BizTransaction is one entry of an event's bizTransactionList.
type BizTransaction struct {
	Type  string `json:"type,omitempty"`
	Value string `json:"value"`
}

// SourceDest is one entry of an event's sourceList or destinationList.
type SourceDest struct {
	Type  string `json:"type,omitempty"`
	Value string `json:"value"`
}

// QuantityElement is one entry of a childQuantityList or the quantity
// pair of a legacy QuantityEvent.
type QuantityElement struct {
	EPCClass string `json:"epcClass"`
	Quantity int    `json:"quantity"`
}

// RelatedEvent is a cross-link from a master-data entry back to an
// event that references one of its identifiers.
type RelatedEvent struct {
	EventIndex int    `json:"eventIndex"`
	EventType  string `json:"eventType"`
	EventTime  string `json:"eventTime"`
}

// RelatedMasterData is a cross-link summary from an event to a
// master-data entry sharing a GS1 company prefix.
type RelatedMasterData struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Event type names, shared across dialects. The per-version adapters
// enumerate their own subsets in a fixed order.
const (
	ObjectEventType         = "ObjectEvent"
	AggregationEventType    = "AggregationEvent"
	TransactionEventType    = "TransactionEvent"
	TransformationEventType = "TransformationEvent"
	AssociationEventType    = "AssociationEvent"
	QuantityEventType       = "QuantityEvent" // legacy, EPCIS 1.2 only
)

// Event is one normalized EPCIS event. Every nominally list-shaped
// field is a slice regardless of source cardinality; a non-nil empty
// slice means the field was present but empty, nil means absent.
//
// eventTime and eventTimeZoneOffset are preserved verbatim: the two
// fields independently encode instant and offset and are never merged
// or normalized.
type Event struct {
	Type                string
	EventTime           string
	EventTimeZoneOffset string
	Action              string
	BizStep             string
	Disposition         string
	EPCList             []string
	ChildEPCs           []string
	ParentID            string
	ReadPoint           *Ref
	BizLocation         *Ref
	BizTransactionList  []BizTransaction
	SourceList          []SourceDest
	DestinationList     []SourceDest
	ChildQuantityList   []QuantityElement

	// EPCIS 2.0 payloads carried through without further interpretation.
	PersistentDisposition any
	SensorElementList     any
	ILMD                  any

	// RelatedMasterData is populated by cross-linking, after extraction.
	RelatedMasterData []RelatedMasterData

	// Extensions holds unrecognized sibling fields under their original
	// keys. Structured extraction always wins: a key is only copied here
	// when no typed field claimed it.
	Extensions map[string]any
}

// MarshalJSON flattens the extension bag next to the typed fields.
// Typed fields win on a key collision; key order is the encoder's
// deterministic sort.
func (e *Event) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Extensions)+16)
	for k, v := range e.Extensions {
		out[k] = v
	}
	out["type"] = e.Type
	out["eventTime"] = e.EventTime
	out["eventTimeZoneOffset"] = e.EventTimeZoneOffset
	if e.Action != "" {
		out["action"] = e.Action
	}
	if e.BizStep != "" {
		out["bizStep"] = e.BizStep
	}
	if e.Disposition != "" {
		out["disposition"] = e.Disposition
	}
	if e.EPCList != nil {
		out["epcList"] = e.EPCList
	}
	if e.ChildEPCs != nil {
		out["childEPCs"] = e.ChildEPCs
	}
	if e.ParentID != "" {
		out["parentID"] = e.ParentID
	}
	if e.ReadPoint != nil {
		out["readPoint"] = e.ReadPoint
	}
	if e.BizLocation != nil {
		out["bizLocation"] = e.BizLocation
	}
	if e.BizTransactionList != nil {
		out["bizTransactionList"] = e.BizTransactionList
	}
	if e.SourceList != nil {
		out["sourceList"] = e.SourceList
	}
	if e.DestinationList != nil {
		out["destinationList"] = e.DestinationList
	}
	if e.ChildQuantityList != nil {
		out["childQuantityList"] = e.ChildQuantityList
	}
	if e.PersistentDisposition != nil {
		out["persistentDisposition"] = e.PersistentDisposition
	}
	if e.SensorElementList != nil {
		out["sensorElementList"] = e.SensorElementList
	}
	if e.ILMD != nil {
		out["ilmd"] = e.ILMD
	}
	if e.RelatedMasterData != nil {
		out["relatedMasterData"] = e.RelatedMasterData
	}
	return json.Marshal(out)
}

// MasterData is one vocabulary element from the document's master-data
// section. RelatedEPCs and RelatedEvents are empty until cross-linking
// runs.
type MasterData struct {
	ID   string `json:"id"`
	Type string `json:"type,omitempty"`
	Name string `json:"name,omitempty"`

	// Attributes maps attribute id to either a scalar or a
	// {value, ...extra} object when the source attribute carried
	// sibling attributes of its own.
	Attributes map[string]any `json:"attributes"`

	Children []Ref `json:"children,omitempty"`

	// RelatedEPCs are the distinct EPCs observed in events that share
	// this entry's GS1 company prefix.
	RelatedEPCs []string `json:"relatedEPCs,omitempty"`

	// RelatedEvents are the events referencing those EPCs, deduplicated
	// by event index.
	RelatedEvents []RelatedEvent `json:"relatedEvents,omitempty"`
}
