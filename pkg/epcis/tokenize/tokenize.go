// Package tokenize turns raw EPCIS document text into a generic parsed
// tree (nested map[string]any / []any / scalar values).
//
// XML tokenizing is delegated to mxj; JSON to encoding/json. The XML
// tree is post-processed so that namespace prefixes are stripped from
// element names and attributes are merged with child elements, matching
// the shape the version adapters in pkg/epcis expect. No EPCIS knowledge
// lives here.
package tokenize

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	mxj "github.com/clbanning/mxj/v2"

	"github.com/jamischarles/epcis-parser/pkg/epcis/tree"
)

// mxj encodes attributes with a leading hyphen and element text under
// "#text"; the hyphen is removed during normalization and "#text" is
// kept as tree.TextKey.
const attrPrefix = "-"

// XML tokenizes an XML document into a generic tree. Element names lose
// their namespace prefixes; attribute names keep xmlns declarations but
// lose the well-known vocabulary prefixes; attributes are merged next to
// child elements (child elements win on a name collision).
func XML(data string) (map[string]any, error) {
	m, err := mxj.NewMapXml([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("tokenize xml: %w", err)
	}
	root, ok := normalize(map[string]any(m)).(map[string]any)
	if !ok {
		return nil, errors.New("tokenize xml: no root element")
	}
	restoreNamespaceDecls(data, root)
	return root, nil
}

// JSON tokenizes a JSON document into a generic tree.
func JSON(data string) (map[string]any, error) {
	var v any
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return nil, fmt.Errorf("tokenize json: %w", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New("tokenize json: top-level value is not an object")
	}
	return m, nil
}

// WellFormedXML reports whether the text is well-formed XML by draining
// the stdlib token stream. Returns the first syntax error, if any.
func WellFormedXML(data string) error {
	dec := xml.NewDecoder(strings.NewReader(data))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("xml syntax error: %w", err)
		}
	}
}

// WellFormedJSON reports whether the text is syntactically valid JSON.
func WellFormedJSON(data string) error {
	if !json.Valid([]byte(data)) {
		return errors.New("json syntax error: invalid document")
	}
	return nil
}

// restoreNamespaceDecls grafts xmlns declarations back onto the tree.
// mxj records a prefixed declaration (xmlns:epcis="...") under the bare
// local name ("-epcis"), indistinguishable from an ordinary attribute,
// so the normalized tree ends up with a stray "epcis" key and no
// recognizable xmlns key. A second walk over the stdlib token stream
// re-emits each declaration under "xmlns:<prefix>" on the matching node
// and removes the stray key. Best-effort: the walk stops quietly on a
// decode error, leaving the tree as mxj produced it.
func restoreNamespaceDecls(data string, root map[string]any) {
	type frame struct {
		node map[string]any
		// counts tracks per-name child occurrences, aligning repeated
		// siblings with their slice index in the tree.
		counts map[string]int
	}

	dec := xml.NewDecoder(strings.NewReader(data))
	var stack []frame
	for {
		tok, err := dec.Token()
		if err != nil {
			return
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var node map[string]any
			if len(stack) == 0 {
				node, _ = tree.AsMap(root[t.Name.Local])
			} else if parent := stack[len(stack)-1]; parent.node != nil {
				idx := parent.counts[t.Name.Local]
				parent.counts[t.Name.Local] = idx + 1
				child := parent.node[t.Name.Local]
				if list, ok := child.([]any); ok {
					if idx < len(list) {
						node, _ = tree.AsMap(list[idx])
					}
				} else if idx == 0 {
					node, _ = tree.AsMap(child)
				}
			}
			if node != nil {
				for _, a := range t.Attr {
					switch {
					case a.Name.Space == "xmlns":
						node["xmlns:"+a.Name.Local] = a.Value
						if s, ok := node[a.Name.Local].(string); ok && s == a.Value {
							delete(node, a.Name.Local)
						}
					case a.Name.Space == "" && a.Name.Local == "xmlns":
						node["xmlns"] = a.Value
					}
				}
			}
			stack = append(stack, frame{node: node, counts: map[string]int{}})
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
}

// normalize rewrites mxj map keys: tags lose any namespace prefix,
// attributes lose the hyphen marker and well-known vocabulary prefixes.
// When an attribute and a child element normalize to the same name the
// element content wins, deterministically.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		// Elements and text first, attributes only where no element claimed
		// the name.
		for k, val := range t {
			if strings.HasPrefix(k, attrPrefix) {
				continue
			}
			nk := k
			if k != tree.TextKey {
				nk = tree.StripPrefix(k)
			}
			out[nk] = normalize(val)
		}
		for k, val := range t {
			if !strings.HasPrefix(k, attrPrefix) {
				continue
			}
			nk := tree.StripVocabPrefixes(k[len(attrPrefix):])
			if _, taken := out[nk]; !taken {
				out[nk] = normalize(val)
			}
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalize(item)
		}
		return out
	default:
		return v
	}
}
