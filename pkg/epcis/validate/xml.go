package validate

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jamischarles/epcis-parser/pkg/epcis/tokenize"
	"github.com/jamischarles/epcis-parser/pkg/epcis/tree"
)

// xmlProfile is the structural schema profile for one EPCIS XML version.
// Full XSD validation requires libxml2 bindings; the profile covers the
// structural subset the normalization pipeline depends on.
type xmlProfile struct {
	version string
	// namespaces: at least one xmlns declaration on the root must
	// contain one of these substrings.
	namespaces []string
	// eventTypes allowed inside the event list for this version, in
	// enumeration order (keeps reported errors deterministic).
	eventTypes []string
}

// profileFor builds the structural profile for a version string.
func profileFor(version string) (xmlProfile, error) {
	switch version {
	case "1.2":
		return xmlProfile{
			version:    "1.2",
			namespaces: []string{"urn:epcglobal:epcis:xsd:1"},
			eventTypes: []string{
				"ObjectEvent", "AggregationEvent", "TransactionEvent",
				"TransformationEvent", "QuantityEvent",
			},
		}, nil
	case "2.0":
		return xmlProfile{
			version:    "2.0",
			namespaces: []string{"urn:epcglobal:epcis:xsd:2", "https://ref.gs1.org/standards/epcis/"},
			eventTypes: []string{
				"ObjectEvent", "AggregationEvent", "TransactionEvent",
				"TransformationEvent", "AssociationEvent",
			},
		}, nil
	default:
		return xmlProfile{}, fmt.Errorf("unsupported EPCIS version: %s", version)
	}
}

// XMLValidator validates EPCIS XML documents against a version's
// structural profile. Profiles are cached per instance, keyed by
// version string.
type XMLValidator struct {
	version string

	mu       sync.Mutex
	profiles map[string]xmlProfile
}

var _ Validator = (*XMLValidator)(nil)

// NewXML creates a validator for the given EPCIS version ("1.2" or "2.0").
func NewXML(version string) *XMLValidator {
	return &XMLValidator{
		version:  version,
		profiles: make(map[string]xmlProfile),
	}
}

// profile returns the cached structural profile for the version,
// building it on first use.
func (v *XMLValidator) profile() (xmlProfile, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if p, ok := v.profiles[v.version]; ok {
		return p, nil
	}
	p, err := profileFor(v.version)
	if err != nil {
		return xmlProfile{}, err
	}
	v.profiles[v.version] = p
	return p, nil
}

// Validate checks well-formedness, the root element, the namespace
// declaration and the structural event requirements for the version.
func (v *XMLValidator) Validate(ctx context.Context, data string) Result {
	if err := ctx.Err(); err != nil {
		return Invalid(err.Error())
	}

	p, err := v.profile()
	if err != nil {
		return Invalid(err.Error())
	}

	if err := tokenize.WellFormedXML(data); err != nil {
		return Invalid(err.Error())
	}

	root, err := tokenize.XML(data)
	if err != nil {
		return Invalid(err.Error())
	}

	doc, rootName := epcisRoot(root)
	if doc == nil {
		return Invalid("invalid root element: expected EPCISDocument or EPCISQueryDocument")
	}

	var errs []string
	if !hasNamespace(doc, p.namespaces) {
		errs = append(errs, fmt.Sprintf("missing EPCIS %s namespace declaration on %s", p.version, rootName))
	}

	body, _ := tree.AsMap(tree.Get(doc, "EPCISBody"))
	if body == nil {
		errs = append(errs, "missing EPCISBody element")
	} else {
		errs = append(errs, checkEvents(body, p)...)
	}

	if len(errs) > 0 {
		return Invalid(errs...)
	}
	return OK()
}

// epcisRoot unwraps the tokenized root, accepting both EPCISDocument
// and EPCISQueryDocument.
func epcisRoot(root map[string]any) (map[string]any, string) {
	for _, name := range []string{"EPCISDocument", "EPCISQueryDocument"} {
		if doc, ok := tree.AsMap(root[name]); ok {
			return doc, name
		}
	}
	return nil, ""
}

// hasNamespace reports whether any xmlns declaration on the root
// contains one of the wanted URI substrings.
func hasNamespace(doc map[string]any, wanted []string) bool {
	for k, v := range doc {
		if !strings.HasPrefix(k, "xmlns") {
			continue
		}
		s, _ := v.(string)
		for _, ns := range wanted {
			if strings.Contains(s, ns) {
				return true
			}
		}
	}
	return false
}

// checkEvents enforces per-event structural requirements: eventTime and
// eventTimeZoneOffset must be present, and action (when present) must be
// one of the CBV action values.
func checkEvents(body map[string]any, p xmlProfile) []string {
	eventList, _ := tree.AsMap(tree.Get(body, "EventList"))
	if eventList == nil {
		// Query documents nest the list one level deeper.
		eventList, _ = tree.AsMap(tree.Get(body, "QueryResults", "resultsBody", "EventList"))
	}
	if eventList == nil {
		return nil
	}

	var errs []string
	for _, typeName := range p.eventTypes {
		for i, ev := range tree.AsList(eventList[typeName]) {
			m, ok := tree.AsMap(ev)
			if !ok {
				continue
			}
			if tree.GetString(m, "eventTime") == "" {
				errs = append(errs, fmt.Sprintf("%s[%d]: missing required eventTime", typeName, i))
			}
			if tree.GetString(m, "eventTimeZoneOffset") == "" {
				errs = append(errs, fmt.Sprintf("%s[%d]: missing required eventTimeZoneOffset", typeName, i))
			}
			if action := tree.GetString(m, "action"); action != "" {
				switch action {
				case "OBSERVE", "ADD", "DELETE":
				default:
					errs = append(errs, fmt.Sprintf("%s[%d]: invalid action %q", typeName, i, action))
				}
			}
		}
	}
	return errs
}
