package epcis

import (
	"regexp"
	"sort"
	"strings"
)

// companyPrefixPattern matches the GS1 company-prefix segment embedded
// in URN identifiers: a colon, a digit run, a dot, a second digit run,
// then a dot or the end of the id. The first digit run is the company
// prefix shared across identifier schemes (SGLN, SGTIN, PGLN), which is
// what makes an SGLN location and an SGTIN item correlatable.
var companyPrefixPattern = regexp.MustCompile(`:([0-9]+)\.([0-9]+)\.?`)

// linkMasterDataToEvents associates master-data entries with the events
// referencing identifiers that share their GS1 company prefix, writing
// bidirectional links: relatedEPCs and relatedEvents onto the entry,
// a relatedMasterData summary onto the event.
//
// Lookup construction walks master-data ids in sorted order, so a
// prefix collision between entries resolves by last-write-wins over a
// deterministic ordering.
func linkMasterDataToEvents(events []*Event, masterData map[string]*MasterData) {
	if len(masterData) == 0 || len(events) == 0 {
		return
	}

	byPrefix := map[string]string{}
	ids := make([]string, 0, len(masterData))
	for id := range masterData {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		m := companyPrefixPattern.FindStringSubmatch(id)
		if m == nil {
			// Not a GS1-prefixed id; not linkable.
			continue
		}
		// Both the full matched segment and the bare company prefix
		// register as lookup keys.
		byPrefix[m[0]] = id
		byPrefix[m[1]] = id
	}
	if len(byPrefix) == 0 {
		return
	}

	prefixes := make([]string, 0, len(byPrefix))
	for p := range byPrefix {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)

	for i, ev := range events {
		candidates := make([]string, 0, len(ev.EPCList)+len(ev.ChildEPCs)+1)
		candidates = append(candidates, ev.EPCList...)
		candidates = append(candidates, ev.ChildEPCs...)
		if ev.ParentID != "" {
			candidates = append(candidates, ev.ParentID)
		}

		for _, epc := range candidates {
			for _, prefix := range prefixes {
				if !strings.Contains(epc, prefix) {
					continue
				}
				md := masterData[byPrefix[prefix]]
				addRelatedEPC(md, epc)
				addRelatedEvent(md, i, ev)
				addRelatedMasterData(ev, md)
			}
		}
	}
}

// addRelatedEPC appends with set semantics, insertion order preserved.
func addRelatedEPC(md *MasterData, epc string) {
	for _, existing := range md.RelatedEPCs {
		if existing == epc {
			return
		}
	}
	md.RelatedEPCs = append(md.RelatedEPCs, epc)
}

// addRelatedEvent appends deduplicated by event index.
func addRelatedEvent(md *MasterData, index int, ev *Event) {
	for _, existing := range md.RelatedEvents {
		if existing.EventIndex == index {
			return
		}
	}
	md.RelatedEvents = append(md.RelatedEvents, RelatedEvent{
		EventIndex: index,
		EventType:  ev.Type,
		EventTime:  ev.EventTime,
	})
}

// addRelatedMasterData appends the reciprocal summary deduplicated by id.
func addRelatedMasterData(ev *Event, md *MasterData) {
	for _, existing := range ev.RelatedMasterData {
		if existing.ID == md.ID {
			return
		}
	}
	ev.RelatedMasterData = append(ev.RelatedMasterData, RelatedMasterData{
		ID:   md.ID,
		Name: md.Name,
		Type: md.Type,
	})
}
