package epcis

import (
	"sort"
	"strings"

	"github.com/jamischarles/epcis-parser/pkg/epcis/tree"
)

// identityContext carries everything the resolution chain may consult:
// the business document header, the plain header container, the
// extracted master data and the extracted events.
type identityContext struct {
	sbdh            map[string]any
	headerContainer map[string]any
	masterData      map[string]*MasterData
	events          []*Event
}

// identityStrategy is one named step of the resolution chain.
type identityStrategy struct {
	name string
	run  func(identityContext, *Party, *Party)
}

// identityStrategies is the resolution chain in strict priority order.
// Each strategy fills only fields a higher-priority strategy left
// unset, so partial results combine across strategies without a lower
// strategy ever overwriting a higher one.
var identityStrategies = []identityStrategy{
	{name: "business-document-header", run: partiesFromSBDH},
	{name: "plain-header", run: partiesFromHeader},
	{name: "masterdata-pgln", run: partiesFromMasterData},
	{name: "event-owning-party", run: partiesFromEvents},
}

// resolveParties runs the full chain. Failure to resolve either party
// is not an error; the unresolved party stays empty.
func resolveParties(ic identityContext) (Party, Party) {
	var sender, receiver Party
	for _, s := range identityStrategies {
		s.run(ic, &sender, &receiver)
	}
	return sender, receiver
}

// pick returns the first present key, tolerating the capitalization
// conventions of both serializations (SBDH XML uses PascalCase, JSON-LD
// camelCase).
func pick(node map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := node[k]; ok {
			return v
		}
	}
	return nil
}

// partyValue resolves an identifier or contact node that is either a
// plain string or a wrapped value with sibling attributes. The value
// slot differs by serialization: "#text" for XML, "value" or "@value"
// for JSON-LD.
func partyValue(node any) (string, map[string]any) {
	m, ok := tree.AsMap(node)
	if !ok {
		return tree.Scalar(node), nil
	}
	for _, slot := range []string{tree.TextKey, "value", "@value"} {
		raw, present := m[slot]
		if !present {
			continue
		}
		attrs := make(map[string]any, len(m)-1)
		for k, v := range m {
			if k != slot {
				attrs[k] = v
			}
		}
		if len(attrs) == 0 {
			attrs = nil
		}
		return tree.Scalar(raw), attrs
	}
	s, _ := tree.UnwrapTextOrValue(m)
	return s, nil
}

// partiesFromSBDH fills identity from the StandardBusinessDocumentHeader
// Sender and Receiver blocks.
func partiesFromSBDH(ic identityContext, sender, receiver *Party) {
	if ic.sbdh == nil {
		return
	}
	fillFromSBDHParty(pick(ic.sbdh, "Sender", "sender"), sender)
	fillFromSBDHParty(pick(ic.sbdh, "Receiver", "receiver"), receiver)
}

func fillFromSBDHParty(node any, p *Party) {
	m, ok := tree.AsMap(node)
	if !ok {
		return
	}
	if idNode := pick(m, "Identifier", "identifier"); idNode != nil {
		value, attrs := partyValue(idNode)
		if p.Identifier == "" {
			p.Identifier = value
		}
		if p.Authority == "" {
			p.Authority = tree.Scalar(pickAttr(attrs, "Authority", "authority"))
		}
	}
	if ci, ok := tree.AsMap(pick(m, "ContactInformation", "contactInformation")); ok {
		if name, _ := partyValue(pick(ci, "Contact", "contact")); name != "" && p.Name == "" {
			p.Name = name
		}
	}
}

func pickAttr(attrs map[string]any, keys ...string) any {
	if attrs == nil {
		return nil
	}
	return pick(attrs, keys...)
}

// partiesFromHeader fills identity from plain sender/receiver objects
// directly on the header container, as emitted by JSON-LD producers
// that skip the SBDH wrapper.
func partiesFromHeader(ic identityContext, sender, receiver *Party) {
	if ic.headerContainer == nil {
		return
	}
	fillFromPlainParty(pick(ic.headerContainer, "sender", "Sender"), sender)
	fillFromPlainParty(pick(ic.headerContainer, "receiver", "Receiver"), receiver)
}

func fillFromPlainParty(node any, p *Party) {
	m, ok := tree.AsMap(node)
	if !ok {
		return
	}
	for k, v := range m {
		switch strings.ToLower(k) {
		case "identifier":
			if p.Identifier == "" {
				p.Identifier = tree.Scalar(v)
			}
		case "authority":
			if p.Authority == "" {
				p.Authority = tree.Scalar(v)
			}
		case "name":
			if p.Name == "" {
				p.Name = tree.Scalar(v)
			}
		default:
			if p.Extra == nil {
				p.Extra = make(map[string]any)
			}
			if _, taken := p.Extra[k]; !taken {
				p.Extra[k] = v
			}
		}
	}
}

// partiesFromMasterData fills identity from PGLN vocabulary entries
// whose attributes hint at a sender/source or receiver/destination
// role, or that carry an explicit owning-party boolean.
func partiesFromMasterData(ic identityContext, sender, receiver *Party) {
	ids := make([]string, 0, len(ic.masterData))
	for id := range ic.masterData {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if !strings.Contains(id, ":pgln:") {
			continue
		}
		md := ic.masterData[id]
		role := strings.ToLower(attrString(md.Attributes["role"]))
		owning := attrString(md.Attributes[owningPartyAttrURI])

		if sender.Identifier == "" && sender.Name == "" {
			if owning == "true" || strings.Contains(role, "sender") || strings.Contains(role, "source") {
				sender.Identifier = id
				sender.Name = masterDataName(md)
			}
		}
		if receiver.Identifier == "" && receiver.Name == "" {
			if owning == "false" || strings.Contains(role, "receiver") || strings.Contains(role, "destination") {
				receiver.Identifier = id
				receiver.Name = masterDataName(md)
			}
		}
	}
}

func masterDataName(md *MasterData) string {
	if md.Name != "" {
		return md.Name
	}
	return attrString(md.Attributes["name"])
}

// partiesFromEvents is the last resort: the owning-party entry of the
// first event carrying a source list names the sender, its destination
// counterpart the receiver. The referenced id is looked up in master
// data for a display name.
func partiesFromEvents(ic identityContext, sender, receiver *Party) {
	if sender.Identifier == "" || sender.Name == "" {
		for _, ev := range ic.events {
			if len(ev.SourceList) == 0 {
				continue
			}
			for _, src := range ev.SourceList {
				if src.Type != owningPartySDTypeURI {
					continue
				}
				fillPartyFromReference(sender, src.Value, ic.masterData)
				break
			}
			break
		}
	}
	if receiver.Identifier == "" || receiver.Name == "" {
		for _, ev := range ic.events {
			if len(ev.DestinationList) == 0 {
				continue
			}
			for _, dst := range ev.DestinationList {
				if dst.Type != owningPartySDTypeURI {
					continue
				}
				fillPartyFromReference(receiver, dst.Value, ic.masterData)
				break
			}
			break
		}
	}
}

func fillPartyFromReference(p *Party, id string, masterData map[string]*MasterData) {
	if p.Identifier == "" {
		p.Identifier = id
	}
	if p.Name == "" {
		if md, ok := masterData[id]; ok {
			p.Name = masterDataName(md)
		}
	}
}
