package epcis

import (
	"strings"

	"github.com/jamischarles/epcis-parser/pkg/epcis/tokenize"
	"github.com/jamischarles/epcis-parser/pkg/epcis/tree"
	"github.com/jamischarles/epcis-parser/pkg/epcis/validate"
)

// xmlAdapter extracts both EPCIS XML dialects. The 1.2 and 2.0 trees
// share their structure almost entirely; the differences are the event
// type enumeration (1.2 keeps the legacy QuantityEvent, 2.0 adds
// AssociationEvent) and the 2.0-only event payloads.
type xmlAdapter struct {
	fmtID Format
	val   *validate.XMLValidator

	// eventTypes is the fixed extraction order. Events are grouped by
	// type in this order, source order preserved within each type.
	eventTypes []string

	v20 bool
}

func newV12XMLAdapter() *xmlAdapter {
	return &xmlAdapter{
		fmtID: FormatV12XML,
		val:   validate.NewXML("1.2"),
		eventTypes: []string{
			ObjectEventType, AggregationEventType, TransactionEventType,
			TransformationEventType, QuantityEventType,
		},
	}
}

func newV20XMLAdapter() *xmlAdapter {
	return &xmlAdapter{
		fmtID: FormatV20XML,
		val:   validate.NewXML("2.0"),
		eventTypes: []string{
			ObjectEventType, AggregationEventType, TransactionEventType,
			TransformationEventType, AssociationEventType,
		},
		v20: true,
	}
}

func (a *xmlAdapter) format() Format                { return a.fmtID }
func (a *xmlAdapter) validator() validate.Validator { return a.val }

func (a *xmlAdapter) extract(data string) (*extraction, error) {
	root, err := tokenize.XML(data)
	if err != nil {
		return nil, &StructureError{Format: a.fmtID, Detail: err.Error()}
	}

	doc := xmlDocRoot(root)
	if doc == nil {
		return nil, &StructureError{
			Format: a.fmtID,
			Detail: "root element must be EPCISDocument or EPCISQueryDocument",
		}
	}

	ext := &extraction{
		events:     a.extractEvents(doc),
		masterData: extractXMLMasterData(doc),
		header:     extractXMLHeader(doc),
	}
	if sbdh, ok := tree.AsMap(tree.Get(doc, "EPCISHeader", "StandardBusinessDocumentHeader")); ok {
		ext.sbdh = sbdh
	}
	if hd, ok := tree.AsMap(doc["EPCISHeader"]); ok {
		ext.headerContainer = hd
	}
	return ext, nil
}

// xmlDocRoot unwraps the document root, accepting capture documents and
// query result documents alike.
func xmlDocRoot(root map[string]any) map[string]any {
	for _, name := range []string{"EPCISDocument", "EPCISQueryDocument"} {
		if doc, ok := tree.AsMap(root[name]); ok {
			return doc
		}
	}
	return nil
}

// extractEvents walks the event list container. A missing body or list
// is not an error; the document simply carries no events.
func (a *xmlAdapter) extractEvents(doc map[string]any) []*Event {
	events := []*Event{}

	list, _ := tree.AsMap(tree.Get(doc, "EPCISBody", "EventList"))
	if list == nil {
		// Query documents nest the list inside the results body.
		list, _ = tree.AsMap(tree.Get(doc, "EPCISBody", "QueryResults", "resultsBody", "EventList"))
	}
	if list == nil {
		return events
	}

	for _, typeName := range a.eventTypes {
		for _, node := range tree.AsList(list[typeName]) {
			if m, ok := tree.AsMap(node); ok {
				events = append(events, a.buildEvent(typeName, m))
			}
		}
	}
	return events
}

func (a *xmlAdapter) buildEvent(typeName string, m map[string]any) *Event {
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
		"eventTime": true, "eventTimeZoneOffset": true,
		"action": true, "bizStep": true, "disposition": true, "parentID": true,
	}

	if node, ok := m["epcList"]; ok {
		ev.EPCList = stringList(tree.Get(node, "epc"))
		claimed["epcList"] = true
	}
	if node, ok := m["childEPCs"]; ok {
		ev.ChildEPCs = stringList(tree.Get(node, "epc"))
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
		pairs := typedPairs(tree.Get(node, "bizTransaction"))
		ev.BizTransactionList = make([]BizTransaction, 0, len(pairs))
		for _, p := range pairs {
			ev.BizTransactionList = append(ev.BizTransactionList, BizTransaction{Type: p.typ, Value: p.value})
		}
		claimed["bizTransactionList"] = true
	}
	if node, ok := m["sourceList"]; ok {
		ev.SourceList = sourceDests(tree.Get(node, "source"))
		claimed["sourceList"] = true
	}
	if node, ok := m["destinationList"]; ok {
		ev.DestinationList = sourceDests(tree.Get(node, "destination"))
		claimed["destinationList"] = true
	}
	if node, ok := m["childQuantityList"]; ok {
		ev.ChildQuantityList = quantityElements(tree.Get(node, "quantityElement"))
		claimed["childQuantityList"] = true
	}

	if a.v20 {
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
	}

	for k, v := range m {
		if claimed[k] || k == tree.TextKey || strings.HasPrefix(k, "xmlns") {
			continue
		}
		if ev.Extensions == nil {
			ev.Extensions = make(map[string]any)
		}
		ev.Extensions[k] = v
	}
	return ev
}

// sourceDests shapes a list of source or destination elements.
func sourceDests(node any) []SourceDest {
	pairs := typedPairs(node)
	out := make([]SourceDest, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, SourceDest{Type: p.typ, Value: p.value})
	}
	return out
}

// extractXMLMasterData walks the vocabulary list under the document
// header. EPCIS 1.2 nests master data inside an extension wrapper;
// EPCIS 2.0 allows it directly under the header.
func extractXMLMasterData(doc map[string]any) map[string]*MasterData {
	md := map[string]*MasterData{}

	vl := tree.Get(doc, "EPCISHeader", "extension", "EPCISMasterData", "VocabularyList")
	if vl == nil {
		vl = tree.Get(doc, "EPCISHeader", "EPCISMasterData", "VocabularyList")
	}
	vlm, ok := tree.AsMap(vl)
	if !ok {
		return md
	}

	for _, vn := range tree.AsList(vlm["Vocabulary"]) {
		voc, ok := tree.AsMap(vn)
		if !ok {
			continue
		}
		vocType := tree.GetString(voc, "type")

		// Elements appear either directly under Vocabulary or inside a
		// VocabularyElementList wrapper.
		elements := tree.AsList(voc["VocabularyElement"])
		if len(elements) == 0 {
			elements = tree.AsList(tree.Get(voc, "VocabularyElementList", "VocabularyElement"))
		}

		for _, en := range elements {
			el, ok := tree.AsMap(en)
			if !ok {
				continue
			}
			id := tree.GetString(el, "id")
			if id == "" {
				continue
			}

			entry := &MasterData{ID: id, Type: vocType, Attributes: map[string]any{}}
			for _, an := range tree.AsList(el["attribute"]) {
				am, ok := tree.AsMap(an)
				if !ok {
					continue
				}
				attrID := tree.GetString(am, "id")
				raw, present := am[tree.TextKey]
				if attrID == "" || !present {
					continue
				}
				value := tree.Scalar(raw)
				extra := make(map[string]any)
				for k, v := range am {
					if k != "id" && k != tree.TextKey {
						extra[k] = v
					}
				}
				if len(extra) == 0 {
					entry.Attributes[attrID] = value
				} else {
					extra["value"] = value
					entry.Attributes[attrID] = extra
				}
			}
			entry.Children = childRefs(tree.Get(el, "children", "id"))
			entry.Name = promoteName(entry.Attributes)

			md[id] = entry
		}
	}
	return md
}

// extractXMLHeader copies document metadata into the open header
// mapping. Sender and receiver are handled by identity resolution, and
// the master-data section has its own extraction, so both are excluded
// from the passthrough copy.
func extractXMLHeader(doc map[string]any) Header {
	header := Header{}
	if v := tree.GetString(doc, "schemaVersion"); v != "" {
		header["standardVersion"] = v
	}

	hd, ok := tree.AsMap(doc["EPCISHeader"])
	if !ok {
		return header
	}

	if sbdh, ok := tree.AsMap(hd["StandardBusinessDocumentHeader"]); ok {
		docID := map[string]any{}
		if s := tree.GetString(sbdh, "DocumentIdentification", "CreationDateAndTime"); s != "" {
			docID["creationDateTime"] = s
		}
		if s := tree.GetString(sbdh, "DocumentIdentification", "InstanceIdentifier"); s != "" {
			docID["instanceIdentifier"] = s
		}
		header["documentIdentification"] = docID

		for k, v := range sbdh {
			switch {
			case k == "DocumentIdentification" || k == "Sender" || k == "Receiver":
			case strings.HasPrefix(k, "xmlns"):
			default:
				header[k] = v
			}
		}
	}

	for k, v := range hd {
		switch {
		case k == "StandardBusinessDocumentHeader" || k == "extension" || k == "EPCISMasterData":
		case strings.HasPrefix(k, "xmlns"):
		default:
			header[k] = v
		}
	}
	return header
}
