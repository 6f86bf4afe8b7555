package tsdoc

import (
	"strings"
	"sync"

	"github.com/hangyav/textlsp-go/pkg/clean"
	"github.com/hangyav/textlsp-go/pkg/document"
)

// PlainTextDocument is the tree-sitter-free document type: it cleans by a
// single length-preserving regex-style substitution (a lone '\n' between
// two non-newline characters becomes a space; a run of 2+ '\n' is left
// alone), so cleaned and raw coordinates coincide 1:1 — no
// OffsetPositionIntervalList is needed at all.
//
// It also serves as the fallback when a grammar can't be loaded: the
// document is downgraded to plain-text, no cleaning.
type PlainTextDocument struct {
	clean.CleanableDocument

	mu               sync.RWMutex
	base             *document.BaseDocument
	CollapseNewlines bool // paragraph-break heuristic toggle
}

func NewPlainTextDocument(text string, collapseNewlines bool) *PlainTextDocument {
	d := &PlainTextDocument{
		base:             document.NewBaseDocument(text),
		CollapseNewlines: collapseNewlines,
	}
	d.Init(d)
	return d
}

func (d *PlainTextDocument) Source() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.base.Source()
}

// CleanSource implements clean.Cleaner: lines joined by a single '\n'
// become one paragraph with the newline replaced by a space; two or more
// consecutive '\n' separate paragraphs and are preserved.
func (d *PlainTextDocument) CleanSource() (string, error) {
	d.mu.RLock()
	src := d.base.Source()
	collapse := d.CollapseNewlines
	d.mu.RUnlock()

	if !collapse {
		return src, nil
	}
	return collapseSingleNewlines(src), nil
}

func collapseSingleNewlines(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' && i > 0 && i+1 < len(s) && s[i-1] != '\n' && s[i+1] != '\n' {
			sb.WriteByte(' ')
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// Since cleaning is length-preserving, cleaned and raw coordinates are
// identical; every coordinate method ignores its `cleaned` argument.
func (d *PlainTextDocument) PositionAtOffset(o int, _ bool) (document.Position, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.base.PositionAtOffset(o), nil
}

func (d *PlainTextDocument) OffsetAtPosition(p document.Position, _ bool) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.base.OffsetAtPosition(p), nil
}

func (d *PlainTextDocument) RangeAtOffset(o, length int, _ bool) (document.Range, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.base.RangeAtOffset(o, length), nil
}

// ApplyIncrementalChange splices the change into the raw source and
// invalidates the cleaned-source cache; there's no mapping or parse tree to
// maintain.
func (d *PlainTextDocument) ApplyIncrementalChange(change ChangeEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if change.IsFull {
		d.base = document.NewBaseDocument(change.Text)
		d.Invalidate()
		return nil
	}

	start := d.base.OffsetAtPosition(change.Range.Start)
	end := d.base.OffsetAtPosition(change.Range.End)
	if end < start {
		end = start
	}
	src := d.base.Source()
	d.base = document.NewBaseDocument(src[:start] + change.Text + src[end:])
	d.Invalidate()
	return nil
}

func (d *PlainTextDocument) Close() {}

var _ ProseDocument = (*PlainTextDocument)(nil)
