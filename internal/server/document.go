package server

import (
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/hangyav/textlsp-go/internal/config"
	"github.com/hangyav/textlsp-go/pkg/analyser"
	"github.com/hangyav/textlsp-go/pkg/document"
	"github.com/hangyav/textlsp-go/pkg/tracker"
	"github.com/hangyav/textlsp-go/pkg/tsdoc"
)

// analyserState is the per-(document, analyser) bookkeeping the core
// drives on every change: a ChangeTracker watching cleaned-offset
// dirtiness plus two Shifters repositioning already published
// diagnostics and code actions. One exists per registered analyser name
// per open document.
type analyserState struct {
	checked     bool
	tracker     *tracker.ChangeTracker
	diagnostics *analyser.Shifter[*protocol.Diagnostic]
	codeActions *analyser.Shifter[*analyser.CodeActionItem]
}

func newAnalyserState(cleanedLength int) *analyserState {
	return &analyserState{
		tracker:     tracker.NewChangeTracker(cleanedLength),
		diagnostics: analyser.NewShifter(analyser.DiagnosticRangeAccessor),
		codeActions: analyser.NewShifter(analyser.CodeActionRangeAccessor),
	}
}

// Document is one open editor buffer: its ProseDocument plus one
// analyserState per registered analyser, keyed by URI with a
// language-id-routed prose document and an arbitrary analyser set.
type Document struct {
	mu sync.RWMutex

	URI        protocol.DocumentUri
	LanguageID string
	Version    int32

	Prose    tsdoc.ProseDocument
	analysis map[string]*analyserState
}

func newDocument(uri protocol.DocumentUri, languageID string, version int32, text string, cfg *config.Config, analysers map[string]analyser.Analyser) (*Document, error) {
	opts := tsdoc.Options{
		OrgTodoKeywords:           cfg.OrgTodoKeywords,
		PlainTextCollapseNewlines: cfg.PlainTextCollapseNewlines,
	}
	prose := tsdoc.NewProseDocument(tsdoc.DefaultGrammarProvider, languageID, text, opts)

	cleaned, err := prose.CleanedSource()
	if err != nil {
		return nil, err
	}

	doc := &Document{
		URI:        uri,
		LanguageID: languageID,
		Version:    version,
		Prose:      prose,
		analysis:   make(map[string]*analyserState, len(analysers)),
	}
	for name := range analysers {
		doc.analysis[name] = newAnalyserState(len(cleaned))
	}
	return doc, nil
}

// offsetSnapshot answers tracker.Snapshot for exactly the two positions a
// ChangeTracker.Apply call ever queries (change.Range.Start and
// change.Range.End), precomputed against the document as it stood right
// before the edit was applied. This avoids deep-copying the whole
// mapping: a ChangeTracker only ever needs these two offsets, not a full
// Snapshot implementation.
type offsetSnapshot struct {
	start, end       document.Position
	startOff, endOff int
	length           int
}

func (s offsetSnapshot) OffsetAtPosition(p document.Position) int {
	if p.Equal(s.end) {
		return s.endOff
	}
	return s.startOff
}

func (s offsetSnapshot) Len() int { return s.length }

// applyChange updates the prose document and every registered analyser's
// tracker/shifters for one content-change event. The tracker observes
// the document before the change is applied to it.
func (d *Document) applyChange(change any) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var event tsdoc.ChangeEvent
	switch ch := change.(type) {
	case protocol.TextDocumentContentChangeEventWhole:
		event = tsdoc.ChangeEvent{Text: ch.Text, IsFull: true}
	case protocol.TextDocumentContentChangeEvent:
		r := fromProtocolRange(ch.Range)
		event = tsdoc.ChangeEvent{Range: &r, Text: ch.Text}
	default:
		return nil
	}

	var snap offsetSnapshot
	if !event.IsFull {
		cleaned, err := d.Prose.CleanedSource()
		if err != nil {
			return err
		}
		startOff, err := d.Prose.OffsetAtPosition(event.Range.Start, true)
		if err != nil {
			return err
		}
		endOff, err := d.Prose.OffsetAtPosition(event.Range.End, true)
		if err != nil {
			return err
		}
		snap = offsetSnapshot{
			start: event.Range.Start, end: event.Range.End,
			startOff: startOff, endOff: endOff,
			length: len(cleaned),
		}
	}

	if err := d.Prose.ApplyIncrementalChange(event); err != nil {
		return err
	}

	newCleaned, err := d.Prose.CleanedSource()
	if err != nil {
		return err
	}
	newLastPosition, err := d.Prose.PositionAtOffset(len(newCleaned), true)
	if err != nil {
		return err
	}

	for _, state := range d.analysis {
		state.tracker.Apply(snap, event, len(newCleaned))
		state.diagnostics.Shift(event, newLastPosition)
		state.codeActions.Shift(event, newLastPosition)
	}
	return nil
}

func fromProtocolRange(r protocol.Range) document.Range {
	return document.Range{
		Start: document.Position{Line: r.Start.Line, Character: r.Start.Character},
		End:   document.Position{Line: r.End.Line, Character: r.End.Character},
	}
}
