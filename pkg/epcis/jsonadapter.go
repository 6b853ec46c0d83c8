package epcis

import (
	"strings"

	"github.com/jamischarles/epcis-parser/pkg/epcis/tokenize"
	"github.com/jamischarles/epcis-parser/pkg/epcis/tree"
	"github.com/jamischarles/epcis-parser/pkg/epcis/validate"
)

// vocabTypeURIPrefix turns bare JSON-LD vocabulary type names into the
// URI form the XML dialects carry, so a vocabulary extracted from
// either serialization keys identically.
const vocabTypeURIPrefix = "urn:epcglobal:epcis:vtype:"

// jsonEventTypes is the fixed extraction order for the 2.0 JSON-LD
// dialect, matching the 2.0 XML enumeration.
var jsonEventTypes = []string{
	ObjectEventType, AggregationEventType, TransactionEventType,
	TransformationEventType, AssociationEventType,
}

// jsonAdapter extracts EPCIS 2.0 JSON-LD documents. The JSON tree is
// flatter than the XML one (no singleton wrapper elements around
// lists), but list fields can still arrive as bare scalars from lenient
// producers, so every list walk goes through the same coercion.
type jsonAdapter struct {
	val *validate.JSONValidator
}

func newV20JSONAdapter() *jsonAdapter {
	return &jsonAdapter{val: validate.NewJSON()}
}

func (a *jsonAdapter) format() Format                { return FormatV20JSONLD }
func (a *jsonAdapter) validator() validate.Validator { return a.val }

func (a *jsonAdapter) extract(data string) (*extraction, error) {
	doc, err := tokenize.JSON(data)
	if err != nil {
		return nil, &StructureError{Format: FormatV20JSONLD, Detail: err.Error()}
	}

	masterData := extractJSONMasterData(doc)
	ext := &extraction{
		events:     extractJSONEvents(doc),
		masterData: masterData,
		header:     extractJSONHeader(doc),
	}
	if sbdh, ok := tree.AsMap(tree.Get(doc, "epcisHeader", "standardBusinessDocumentHeader")); ok {
		ext.sbdh = sbdh
	}
	if eh, ok := tree.AsMap(doc["epcisHeader"]); ok {
		ext.headerContainer = eh
	}
	return ext, nil
}

// extractJSONEvents groups the flat event list by type in enumeration
// order, source order preserved within each type, so documents carry
// their events in the same order regardless of serialization.
func extractJSONEvents(doc map[string]any) []*Event {
	events := []*Event{}

	list := tree.Get(doc, "epcisBody", "eventList")
	if list == nil {
		// Query documents nest the list inside the results body.
		list = tree.Get(doc, "epcisBody", "queryResults", "resultsBody", "eventList")
	}
	items := tree.AsList(list)

	for _, typeName := range jsonEventTypes {
		for _, node := range items {
			m, ok := tree.AsMap(node)
			if !ok {
				continue
			}
			if strings.EqualFold(jsonEventType(m), typeName) {
				events = append(events, buildJSONEvent(typeName, m))
			}
		}
	}
	return events
}

// jsonEventType reads the event's type discriminator, accepting the
// legacy "isA" key some pre-ratification producers emit. Matching
// against the enumeration is case-insensitive; the built event carries
// the canonical name.
func jsonEventType(m map[string]any) string {
	if t := tree.GetString(m, "type"); t != "" {
		return t
	}
	return tree.GetString(m, "isA")
}

func buildJSONEvent(typeName string, m map[string]any) *Event {
	ev := &Event{
		Type:                typeName,
		EventTime:           tree.GetString(m, "eventTime"),
		EventTimeZoneOffset: tree.GetString(m, "eventTimeZoneOffset"),
		Action:              tree.GetString(m, "action"),
		BizStep:             tree.GetString(m, "bizStep"),
		Disposition:         tree.GetString(m, "disposition"),
		ParentID:            tree.GetString(m, "parentID"),
	}
	claimed := map[string]bool{
		"type": true, "isA": true, "@context": true,
		"eventTime": true, "eventTimeZoneOffset": true,
		"action": true, "bizStep": true, "disposition": true, "parentID": true,
	}

	if node, ok := m["epcList"]; ok {
		ev.EPCList = stringList(node)
		claimed["epcList"] = true
	}
	if node, ok := m["childEPCs"]; ok {
		ev.ChildEPCs = stringList(node)
		claimed["childEPCs"] = true
	}
	if ref := refNode(m["readPoint"]); ref != nil {
		ev.ReadPoint = ref
		claimed["readPoint"] = true
	}
	if ref := refNode(m["bizLocation"]); ref != nil {
		ev.BizLocation = ref
		claimed["bizLocation"] = true
	}

	if node, ok := m["bizTransactionList"]; ok {
		pairs := typedPairs(node, "bizTransaction", "value")
		ev.BizTransactionList = make([]BizTransaction, 0, len(pairs))
		for _, p := range pairs {
			ev.BizTransactionList = append(ev.BizTransactionList, BizTransaction{Type: p.typ, Value: p.value})
		}
		claimed["bizTransactionList"] = true
	}
	if node, ok := m["sourceList"]; ok {
		ev.SourceList = jsonSourceDests(node, "source")
		claimed["sourceList"] = true
	}
	if node, ok := m["destinationList"]; ok {
		ev.DestinationList = jsonSourceDests(node, "destination")
		claimed["destinationList"] = true
	}
	if node, ok := m["childQuantityList"]; ok {
		ev.ChildQuantityList = quantityElements(node)
		claimed["childQuantityList"] = true
	}

	if v, ok := m["persistentDisposition"]; ok {
		ev.PersistentDisposition = v
		claimed["persistentDisposition"] = true
	}
	if v, ok := m["sensorElementList"]; ok {
		ev.SensorElementList = v
		claimed["sensorElementList"] = true
	}
	if v, ok := m["ilmd"]; ok {
		ev.ILMD = v
		claimed["ilmd"] = true
	}

	for k, v := range m {
		if claimed[k] {
			continue
		}
		if ev.Extensions == nil {
			ev.Extensions = make(map[string]any)
		}
		ev.Extensions[k] = v
	}
	return ev
}

// jsonSourceDests shapes source or destination entries, whose value key
// in JSON-LD is named after the entry kind rather than a generic slot.
func jsonSourceDests(node any, valueKey string) []SourceDest {
	pairs := typedPairs(node, valueKey, "value")
	out := make([]SourceDest, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, SourceDest{Type: p.typ, Value: p.value})
	}
	return out
}

// extractJSONMasterData walks the header vocabulary list. The element
// container appears in two shapes in the wild: a bare array of
// vocabulary elements, or an object wrapping the array under a
// vocabularyElement key. Both are accepted.
func extractJSONMasterData(doc map[string]any) map[string]*MasterData {
	md := map[string]*MasterData{}

	for _, vn := range tree.AsList(tree.Get(doc, "epcisHeader", "epcisMasterData", "vocabularyList")) {
		voc, ok := tree.AsMap(vn)
		if !ok {
			continue
		}
		vocType := normalizeVocabType(tree.GetString(voc, "type"))

		elements := voc["vocabularyElementList"]
		if wrapper, ok := tree.AsMap(elements); ok {
			elements = wrapper["vocabularyElement"]
		}

		for _, en := range tree.AsList(elements) {
			el, ok := tree.AsMap(en)
			if !ok {
				continue
			}
			id := tree.GetString(el, "id")
			if id == "" {
				continue
			}

			entry := &MasterData{ID: id, Type: vocType, Attributes: jsonAttributes(el["attributes"])}
			entry.Children = childRefs(el["children"])
			entry.Name = promoteName(entry.Attributes)

			md[id] = entry
		}
	}
	return md
}

// jsonAttributes accepts both attribute encodings: a plain id-to-value
// mapping, or the standard array of {id, attribute} entries.
func jsonAttributes(node any) map[string]any {
	attrs := map[string]any{}
	if m, ok := tree.AsMap(node); ok {
		for k, v := range m {
			attrs[k] = v
		}
		return attrs
	}
	for _, an := range tree.AsList(node) {
		am, ok := tree.AsMap(an)
		if !ok {
			continue
		}
		id := tree.GetString(am, "id")
		if id == "" {
			continue
		}
		if v, present := am["attribute"]; present {
			attrs[id] = v
		} else if v, present := am["value"]; present {
			attrs[id] = v
		}
	}
	return attrs
}

// normalizeVocabType expands a bare vocabulary type name into its URI
// form. Already-qualified types pass through verbatim.
func normalizeVocabType(t string) string {
	if t == "" || strings.Contains(t, ":") {
		return t
	}
	return vocabTypeURIPrefix + t
}

// extractJSONHeader copies document metadata into the open header
// mapping. Sender and receiver feed identity resolution instead, and
// the master-data section has its own extraction.
func extractJSONHeader(doc map[string]any) Header {
	header := Header{}
	if v := tree.GetString(doc, "schemaVersion"); v != "" {
		header["standardVersion"] = v
	}

	eh, ok := tree.AsMap(doc["epcisHeader"])
	if !ok {
		return header
	}
	for k, v := range eh {
		switch k {
		case "sender", "receiver", "epcisMasterData":
		default:
			header[k] = v
		}
	}
	return header
}
