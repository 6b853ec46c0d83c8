package epcis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jamischarles/epcis-parser/pkg/epcis/observability"
	"github.com/jamischarles/epcis-parser/pkg/epcis/tokenize"
	"github.com/jamischarles/epcis-parser/pkg/epcis/validate"
)

// versionAdapter is the per-dialect extraction contract. An adapter
// walks its dialect's tokenized tree and produces the raw extraction;
// the parser then runs the shared identity-resolution and cross-linking
// passes and assembles the canonical document.
type versionAdapter interface {
	// format identifies the adapter's dialect.
	format() Format

	// validator returns the schema validator for the dialect.
	validator() validate.Validator

	// extract tokenizes the raw text and pulls events, master data and
	// header out of the tree. It fails only on structural errors
	// (missing root); field-level faults degrade to omitted fields.
	extract(data string) (*extraction, error)
}

// extraction is the intermediate output of one adapter, consumed and
// discarded by the parser during assembly.
type extraction struct {
	events     []*Event
	masterData map[string]*MasterData
	header     Header

	// sbdh is the StandardBusinessDocumentHeader subtree, when present.
	sbdh map[string]any
	// headerContainer is the tree that may carry plain sender/receiver
	// objects (JSON-LD producers that skip the SBDH wrapper).
	headerContainer map[string]any
}

// Parser normalizes one EPCIS document into the canonical model.
//
// A Parser parses lazily and exactly once: the first accessor call runs
// detection's chosen adapter, identity resolution and cross-linking,
// then memoizes the outcome. Concurrent accessor calls observe the same
// single completed (or failed) result. A failed parse stays failed:
// every subsequent accessor re-returns the same error.
type Parser struct {
	raw     string
	fmtKind Format
	opts    Options
	parseID string
	adapter versionAdapter

	once     sync.Once
	doc      *Document
	validity validate.Result
	err      error
}

// NewParser detects the dialect of the raw document text and builds a
// parser for it. Fails with ErrUnknownFormat when the text matches no
// supported dialect.
//
// An eager syntax pre-check runs immediately: in throw mode (the
// default) syntactically broken input fails here rather than on first
// access; otherwise the syntax error is recorded in the validity result
// and the parse proceeds best-effort.
func NewParser(data string, opts ...Option) (*Parser, error) {
	format, err := DetectFormat(data)
	if err != nil {
		return nil, err
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	p := &Parser{
		raw:     data,
		fmtKind: format,
		opts:    options,
		parseID: uuid.NewString(),
	}

	switch format {
	case FormatV12XML:
		p.adapter = newV12XMLAdapter()
	case FormatV20XML:
		p.adapter = newV20XMLAdapter()
	case FormatV20JSONLD:
		p.adapter = newV20JSONAdapter()
	}

	if err := p.syntaxPreCheck(); err != nil {
		p.validity = validate.Invalid(err.Error())
		if options.ThrowOnError {
			return nil, &ValidationError{
				Message: "invalid document syntax",
				Errors:  []string{err.Error()},
			}
		}
	} else {
		p.validity = validate.OK()
	}

	return p, nil
}

// syntaxPreCheck verifies the raw text is well-formed for its dialect
// without building a tree.
func (p *Parser) syntaxPreCheck() error {
	if p.fmtKind == FormatV20JSONLD {
		return tokenize.WellFormedJSON(p.raw)
	}
	return tokenize.WellFormedXML(p.raw)
}

// Format returns the detected dialect.
func (p *Parser) Format() Format { return p.fmtKind }

// ensure runs the parse exactly once and memoizes document and error.
func (p *Parser) ensure(ctx context.Context) error {
	p.once.Do(func() {
		p.doc, p.err = p.parse(ctx)
	})
	return p.err
}

// parse runs the full pipeline: schema validation, extraction, identity
// resolution, cross-linking, assembly.
func (p *Parser) parse(ctx context.Context) (*Document, error) {
	done := observability.TimedOperation()
	start := time.Now()

	ctx, span := p.opts.Spans.StartParseSpan(ctx, string(p.fmtKind), p.parseID)
	logger := observability.EnrichLogger(p.opts.Logger, p.parseID, string(p.fmtKind))
	observability.LogParseStart(p.opts.Logger, p.parseID, string(p.fmtKind), len(p.raw))

	doc, err := p.runStages(ctx)

	elapsed := time.Since(start)
	p.opts.Spans.EndSpanWithError(span, err)
	p.opts.Metrics.RecordParse(ctx, string(p.fmtKind), err == nil, elapsed)
	if err != nil {
		observability.LogParseError(logger, p.parseID, err, done())
		return nil, err
	}
	observability.LogParseComplete(logger, p.parseID, len(doc.Events), len(doc.MasterData), done())
	return doc, nil
}

// runStages executes the pipeline stages sequentially. Extraction never
// proceeds on a half-validated tree: validation completes (or is
// skipped) before the adapter runs.
func (p *Parser) runStages(ctx context.Context) (*Document, error) {
	if p.opts.Validate {
		vctx, vspan := p.opts.Spans.StartStageSpan(ctx, "validate")
		res := p.adapter.validator().Validate(vctx, p.raw)
		p.opts.Spans.EndSpanWithError(vspan, nil)

		p.validity = res
		p.opts.Metrics.RecordValidation(ctx, string(p.fmtKind), res.Valid)
		observability.LogValidation(p.opts.Logger, p.parseID, res.Valid, len(res.Errors))

		if !res.Valid && p.opts.ThrowOnError {
			return nil, &ValidationError{
				Message: fmt.Sprintf("EPCIS %s schema validation failed", p.fmtKind.Version()),
				Errors:  res.Errors,
			}
		}
	}

	_, espan := p.opts.Spans.StartStageSpan(ctx, "extract")
	ext, err := p.adapter.extract(p.raw)
	p.opts.Spans.EndSpanWithError(espan, err)
	if err != nil {
		return nil, err
	}
	p.opts.Metrics.RecordExtraction(ctx, string(p.fmtKind), len(ext.events), len(ext.masterData))

	_, rspan := p.opts.Spans.StartStageSpan(ctx, "resolve-identity")
	sender, receiver := resolveParties(identityContext{
		sbdh:            ext.sbdh,
		headerContainer: ext.headerContainer,
		masterData:      ext.masterData,
		events:          ext.events,
	})
	p.opts.Spans.EndSpanWithError(rspan, nil)

	_, lspan := p.opts.Spans.StartStageSpan(ctx, "link")
	linkMasterDataToEvents(ext.events, ext.masterData)
	p.opts.Spans.EndSpanWithError(lspan, nil)

	return &Document{
		Events:     ext.events,
		MasterData: ext.masterData,
		Header:     ext.header,
		Sender:     sender,
		Receiver:   receiver,
	}, nil
}

// Events returns the normalized event list in document order.
func (p *Parser) Events(ctx context.Context) ([]*Event, error) {
	if err := p.ensure(ctx); err != nil {
		return nil, err
	}
	return p.doc.Events, nil
}

// MasterData returns the vocabulary entries keyed by id.
func (p *Parser) MasterData(ctx context.Context) (map[string]*MasterData, error) {
	if err := p.ensure(ctx); err != nil {
		return nil, err
	}
	return p.doc.MasterData, nil
}

// Header returns the document header metadata.
func (p *Parser) Header(ctx context.Context) (Header, error) {
	if err := p.ensure(ctx); err != nil {
		return nil, err
	}
	return p.doc.Header, nil
}

// Sender returns the resolved sender party. Resolution failure is not
// an error; the party is simply empty.
func (p *Parser) Sender(ctx context.Context) (Party, error) {
	if err := p.ensure(ctx); err != nil {
		return Party{}, err
	}
	return p.doc.Sender, nil
}

// Receiver returns the resolved receiver party.
func (p *Parser) Receiver(ctx context.Context) (Party, error) {
	if err := p.ensure(ctx); err != nil {
		return Party{}, err
	}
	return p.doc.Receiver, nil
}

// Validity returns the schema validation result. With validation
// disabled it reflects only the syntax pre-check. Validity triggers the
// parse like every other accessor, but reports rather than fails on a
// recorded validation error in lenient mode.
func (p *Parser) Validity(ctx context.Context) (validate.Result, error) {
	if err := p.ensure(ctx); err != nil {
		return p.validity, err
	}
	return p.validity, nil
}

// Document returns the complete canonical document.
func (p *Parser) Document(ctx context.Context) (*Document, error) {
	if err := p.ensure(ctx); err != nil {
		return nil, err
	}
	return p.doc, nil
}
