package epcis

import (
	"github.com/jamischarles/epcis-parser/pkg/epcis/tree"
)

// Well-known CBV identifiers used during extraction and resolution.
const (
	nameAttributeURI     = "urn:epcglobal:cbv:mda#name"
	owningPartyAttrURI   = "urn:epcglobal:cbv:owning_party"
	owningPartySDTypeURI = "urn:epcglobal:cbv:sdt:owning_party"
)

// stringList materializes a list-shaped node as a string slice. The
// node may be absent (empty result), a single scalar, or a sequence;
// wrapped values contribute their text slot.
func stringList(node any) []string {
	items := tree.AsList(node)
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, _ := tree.UnwrapTextOrValue(item)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// typedPair is one element of a bizTransactionList, sourceList or
// destinationList before it is shaped into its typed struct.
type typedPair struct {
	typ   string
	value string
}

// typedPairs materializes a list of {type, value} elements. Each
// element carries its type as an attribute (or sibling key) and its
// value either as text content or under a dialect-specific value key.
func typedPairs(node any, valueKeys ...string) []typedPair {
	items := tree.AsList(node)
	out := make([]typedPair, 0, len(items))
	for _, item := range items {
		m, ok := tree.AsMap(item)
		if !ok {
			out = append(out, typedPair{value: tree.Scalar(item)})
			continue
		}
		p := typedPair{typ: tree.GetString(m, "type")}
		for _, k := range valueKeys {
			if v, present := m[k]; present {
				p.value, _ = tree.UnwrapTextOrValue(v)
				break
			}
		}
		if p.value == "" {
			if text, present := m[tree.TextKey]; present {
				p.value = tree.Scalar(text)
			}
		}
		out = append(out, p)
	}
	return out
}

// quantityElements materializes a childQuantityList.
func quantityElements(node any) []QuantityElement {
	items := tree.AsList(node)
	out := make([]QuantityElement, 0, len(items))
	for _, item := range items {
		m, ok := tree.AsMap(item)
		if !ok {
			continue
		}
		qe := QuantityElement{EPCClass: tree.GetString(m, "epcClass")}
		if n, ok := tree.Int(tree.Get(m, "quantity")); ok {
			qe.Quantity = n
		}
		out = append(out, qe)
	}
	return out
}

// refNode extracts a readPoint/bizLocation reference. The node is
// either an {id} object or, in lenient producer output, a bare string.
func refNode(node any) *Ref {
	if node == nil {
		return nil
	}
	if s, ok := node.(string); ok && s != "" {
		return &Ref{ID: s}
	}
	if id := tree.GetString(node, "id"); id != "" {
		return &Ref{ID: id}
	}
	return nil
}

// childRefs materializes a vocabulary element's children list into refs.
func childRefs(node any) []Ref {
	ids := stringList(node)
	if len(ids) == 0 {
		return nil
	}
	out := make([]Ref, 0, len(ids))
	for _, id := range ids {
		out = append(out, Ref{ID: id})
	}
	return out
}

// promoteName picks the display name of a master-data entry from its
// attributes, keyed either by the full CBV name URI or the bare key.
func promoteName(attributes map[string]any) string {
	for _, key := range []string{nameAttributeURI, "name"} {
		if v, ok := attributes[key]; ok {
			if s := attrString(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// attrString coerces a master-data attribute value to a string for
// matching. Wrapped {value, ...extra} objects contribute their value slot.
func attrString(v any) string {
	if m, ok := tree.AsMap(v); ok {
		for _, slot := range []string{"value", tree.TextKey} {
			if inner, present := m[slot]; present {
				return tree.Scalar(inner)
			}
		}
		return ""
	}
	return tree.Scalar(v)
}
