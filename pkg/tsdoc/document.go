package tsdoc

import (
	"context"
	"fmt"
	"sync"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/tliron/commonlog"

	"github.com/hangyav/textlsp-go/pkg/clean"
	"github.com/hangyav/textlsp-go/pkg/document"
)

var logger = commonlog.GetLoggerf("textlsp.tsdoc")

// LanguageSpec is the per-format cleaning strategy a TreeSitterDocument
// delegates to: it knows which tree-sitter nodes carry prose and how to
// turn a walk of the tree into a TextNode stream.
// Implemented by latex.go, markdown.go, org.go. plaintext.go implements the
// no-tree-sitter fallback directly against Document instead.
type LanguageSpec interface {
	Name() string
	// IterateTextNodes walks the query captures over tree.RootNode() in
	// reading order and returns the resulting TextNode stream.
	IterateTextNodes(tree *sitter.Tree, content []byte) []TextNode
}

// ProseDocument is the interface internal/server drives: both the
// tree-sitter-backed Document and the tree-sitter-free PlainTextDocument
// (plaintext.go) implement it, so the document store can treat every
// language uniformly.
type ProseDocument interface {
	Source() string
	CleanedSource() (string, error)
	PositionAtOffset(o int, cleaned bool) (document.Position, error)
	OffsetAtPosition(p document.Position, cleaned bool) (int, error)
	RangeAtOffset(o, length int, cleaned bool) (document.Range, error)
	ApplyIncrementalChange(change ChangeEvent) error
	Close()
}

// ChangeEvent mirrors the core-relevant fields of an LSP
// TextDocumentContentChangeEvent: either {Range, Text} (incremental) or
// {Text} only (full document replace).
type ChangeEvent struct {
	Range  *document.Range
	Text   string
	IsFull bool
}

// Document is a TreeSitterDocument: parses source, produces a TextNode
// stream via its LanguageSpec, builds the offset/position mapping, and
// applies incremental edits to both tree and mapping.
type Document struct {
	clean.CleanableDocument

	mu      sync.RWMutex
	base    *document.BaseDocument
	lang    LanguageSpec
	parser  *sitter.Parser
	tree    *sitter.Tree
	content []byte
	mapping *document.OffsetPositionIntervalList
}

// NewDocument constructs a tree-sitter-backed document for the given
// language and an already-loaded parser (see registry.go), parsing text
// immediately. Parser build failures are fatal at construction; callers
// should fall back to a plaintext Document on error.
func NewDocument(lang LanguageSpec, parser *sitter.Parser, text string) (*Document, error) {
	d := &Document{
		base:   document.NewBaseDocument(text),
		lang:   lang,
		parser: parser,
	}
	d.Init(d)

	tree, err := parser.ParseString(context.Background(), nil, []byte(text))
	if err != nil {
		return nil, fmt.Errorf("tsdoc: parse: %w", err)
	}
	d.tree = tree
	d.content = []byte(text)
	return d, nil
}

func (d *Document) Source() string { return d.base.Source() }

// CleanSource implements clean.Cleaner: walks the language's query over the
// current tree and builds the mapping from scratch.
func (d *Document) CleanSource() (string, error) {
	d.mu.RLock()
	tree, content := d.tree, d.content
	d.mu.RUnlock()

	mapping := buildMapping(d.lang.IterateTextNodes(tree, content), content)

	d.mu.Lock()
	d.mapping = mapping
	d.mu.Unlock()

	return mapping.Values(), nil
}

// buildMapping turns a TextNode stream into an OffsetPositionIntervalList,
// each node contributing one interval. content is the raw source the
// nodes' byte-column Points were computed against, needed to convert
// those byte columns into LSP's UTF-16 character columns.
func buildMapping(nodes []TextNode, content []byte) *document.OffsetPositionIntervalList {
	m := document.NewOffsetPositionIntervalList()
	lines := splitLines(content)
	offset := 0
	for _, n := range nodes {
		start := pointToPosition(lines, n.StartPoint)
		end := pointToPosition(lines, n.EndPoint)
		m.Add(offset, offset+len(n.Text), start, end, n.Text)
		offset += len(n.Text)
	}
	return m
}

func splitLines(content []byte) []string {
	return splitOn(string(content), '\n')
}

func splitOn(s string, sep byte) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

// pointToPosition converts a tree-sitter (row, byte-column) Point into an
// LSP (line, UTF-16-character) Position, sharing the conversion helper
// used across all position arithmetic.
func pointToPosition(lines []string, pt document.Point) document.Position {
	var line string
	if int(pt.Row) < len(lines) {
		line = lines[pt.Row]
	}
	return document.Position{
		Line:      pt.Row,
		Character: document.ByteToUtf16Column(line, int(pt.Column)),
	}
}

// ensureMapping returns the current mapping, computing it via CleanedSource
// if it hasn't been built yet.
func (d *Document) ensureMapping() (*document.OffsetPositionIntervalList, error) {
	if _, err := d.CleanedSource(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.mapping, nil
}

// PositionAtOffset locates the covering interval for a cleaned offset and
// adds the linear offset within its source span. cleaned=false delegates
// straight to BaseDocument.
func (d *Document) PositionAtOffset(o int, cleaned bool) (document.Position, error) {
	if !cleaned {
		return d.base.PositionAtOffset(o), nil
	}
	m, err := d.ensureMapping()
	if err != nil {
		return document.Position{}, err
	}
	idx, ok := m.GetIdxAtOffset(o)
	if !ok {
		return document.Position{}, fmt.Errorf("tsdoc: offset %d not found", o)
	}
	iv, _ := m.GetInterval(idx)
	within := o - iv.OffsetInterval.Start
	if iv.PositionRange.Start.Line == iv.PositionRange.End.Line {
		return document.Position{Line: iv.PositionRange.Start.Line, Character: iv.PositionRange.Start.Character + uint32(within)}, nil
	}
	return iv.PositionRange.Start, nil
}

// OffsetAtPosition resolves a position to a cleaned offset via
// nearest-right lookup, snapping to the start of the next prose interval
// when p falls in a gap.
func (d *Document) OffsetAtPosition(p document.Position, cleaned bool) (int, error) {
	if !cleaned {
		return d.base.OffsetAtPosition(p), nil
	}
	m, err := d.ensureMapping()
	if err != nil {
		return 0, err
	}
	idx, ok := m.GetIdxAtPosition(p, false)
	if !ok {
		return 0, fmt.Errorf("tsdoc: position %+v not found", p)
	}
	iv, _ := m.GetInterval(idx)
	if iv.PositionRange.Start.Line == p.Line && iv.PositionRange.Start.Character <= p.Character {
		return iv.OffsetInterval.Start + int(p.Character-iv.PositionRange.Start.Character), nil
	}
	return iv.OffsetInterval.Start, nil
}

// RangeAtOffset converts a cleaned [offset, offset+length) span into an
// LSP Range.
func (d *Document) RangeAtOffset(o, length int, cleaned bool) (document.Range, error) {
	if !cleaned {
		return d.base.RangeAtOffset(o, length), nil
	}
	start, err := d.PositionAtOffset(o, true)
	if err != nil {
		return document.Range{}, err
	}
	if length <= 0 {
		return document.Range{Start: start, End: start}, nil
	}
	end, err := d.PositionAtOffset(o+length, true)
	if err != nil {
		return document.Range{}, err
	}
	return document.Range{Start: start, End: end}, nil
}

// Close releases the tree-sitter tree.
func (d *Document) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.tree != nil {
		d.tree.Close()
		d.tree = nil
	}
}
