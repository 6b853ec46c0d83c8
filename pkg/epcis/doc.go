// Package epcis normalizes EPCIS supply-chain documents into one
// canonical model, regardless of which serialization they arrive in.
//
// Three dialects are supported: EPCIS 1.2 XML, EPCIS 2.0 XML and EPCIS
// 2.0 JSON-LD. DetectFormat decides the dialect from the raw text;
// NewParser builds a lazy, parse-once parser whose accessors all
// trigger the same memoized pipeline:
//
//	p, err := epcis.NewParser(raw)
//	if err != nil { ... }
//	events, err := p.Events(ctx)
//	sender, err := p.Sender(ctx)
//
// The pipeline validates the document against a per-version schema,
// extracts events, master data and header through a per-dialect
// adapter, resolves sender/receiver identity through a fixed fallback
// chain, and cross-links master-data entries to the events sharing
// their GS1 company prefix. Validation is configurable: it can be
// skipped entirely, or demoted from fatal to advisory so a best-effort
// document is still produced alongside the recorded violations.
//
// The returned Document is immutable after the parse completes and the
// same instance is returned to every caller; concurrent accessor calls
// are safe.
package epcis
