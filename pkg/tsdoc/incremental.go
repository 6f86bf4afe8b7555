package tsdoc

import (
	"context"
	"fmt"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/hangyav/textlsp-go/pkg/document"
)

// mappingEntry is an ordered (value, position-range) pair used to splice
// together a rebuilt OffsetPositionIntervalList; offsets are assigned
// sequentially by buildMappingFromEntries so callers never have to
// recompute them by hand.
type mappingEntry struct {
	Value string
	Range document.Range
}

func buildMappingFromEntries(entries []mappingEntry) *document.OffsetPositionIntervalList {
	m := document.NewOffsetPositionIntervalList()
	offset := 0
	for _, e := range entries {
		m.Add(offset, offset+len(e.Value), e.Range.Start, e.Range.End, e.Value)
		offset += len(e.Value)
	}
	return m
}

// ApplyIncrementalChange edits the parse tree, reparses with the old tree
// as a reuse hint, then rebuilds the mapping incrementally over the
// affected paragraph span rather than the whole document. Every path that
// assigns d.mapping also refreshes the CleanableDocument cache directly
// from the new mapping's Values(), rather than Invalidate()-ing it: a plain
// invalidate would make the next CleanedSource() call rewalk the whole tree
// via CleanSource, discarding the splice this method just did.
//
// A full-document change (change.IsFull) bypasses all of this and falls
// back to a full reparse + reclean.
func (d *Document) ApplyIncrementalChange(change ChangeEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if change.IsFull {
		return d.fullReparseLocked(change.Text)
	}
	if change.Range == nil {
		return fmt.Errorf("tsdoc: incremental change missing range")
	}

	oldBase := d.base
	startByte := oldBase.OffsetAtPosition(change.Range.Start)
	oldEndByte := oldBase.OffsetAtPosition(change.Range.End)
	if oldEndByte < startByte {
		oldEndByte = startByte
	}
	newEndByte := startByte + len(change.Text)

	startPoint := oldBase.PointAtOffset(startByte)
	oldEndPoint := oldBase.PointAtOffset(oldEndByte)

	oldSource := oldBase.Source()
	newSource := oldSource[:startByte] + change.Text + oldSource[oldEndByte:]
	newBase := document.NewBaseDocument(newSource)
	newEndPoint := newBase.PointAtOffset(newEndByte)

	edit := sitter.InputEdit{
		StartIndex:    uint32(startByte),
		OldEndIndex:   uint32(oldEndByte),
		NewEndIndex:   uint32(newEndByte),
		StartPoint:    sitter.Point{Row: uint(startPoint.Row), Column: uint(startPoint.Column)},
		OldEndPoint:   sitter.Point{Row: uint(oldEndPoint.Row), Column: uint(oldEndPoint.Column)},
		NewEndPoint:   sitter.Point{Row: uint(newEndPoint.Row), Column: uint(newEndPoint.Column)},
	}

	if d.tree != nil {
		d.tree.Edit(edit)
	}
	newContent := []byte(newSource)
	newTree, err := d.parser.ParseString(context.Background(), d.tree, newContent)
	if err != nil {
		return fmt.Errorf("tsdoc: incremental reparse: %w", err)
	}

	changedEnd := sitter.Point{Row: uint(newEndPoint.Row), Column: uint(newEndPoint.Column)}
	if d.tree != nil {
		for _, r := range newTree.ChangedRanges(d.tree) {
			if rowColGreater(r.EndPoint, changedEnd) {
				changedEnd = r.EndPoint
			}
		}
	}
	changedEndByte := newBase.OffsetAtPoint(document.Point{Row: uint32(changedEnd.Row), Column: uint32(changedEnd.Column)})
	if changedEndByte < newEndByte {
		changedEndByte = newEndByte
	}

	oldTree := d.tree
	d.tree = newTree
	d.content = newContent
	d.base = newBase

	if oldTree == nil || d.mapping == nil {
		// Nothing to splice against; fall back to a full reclean.
		mapping := buildMapping(d.lang.IterateTextNodes(newTree, newContent), newContent)
		d.mapping = mapping
		d.Refresh(mapping.Values())
		return nil
	}
	defer oldTree.Close()

	// Paragraph-align the affected span on both sides.
	firstPara := newBase.ParagraphAtOffset(startByte, 0, 0)
	lastPara := newBase.ParagraphAtOffset(changedEndByte, 0, 0)
	firstRow := newBase.PositionAtOffset(firstPara.Start).Line
	lastRow := newBase.PositionAtOffset(lastPara.End()).Line

	oldLastParaEndByte := oldBase.ParagraphAtOffset(oldEndByte, 0, 0).End()
	oldLastRow := oldBase.PositionAtOffset(oldLastParaEndByte).Line

	deltaRow := int64(newEndPoint.Row) - int64(oldEndPoint.Row)
	oldEndPos := oldBase.PositionAtOffset(oldEndByte)
	newEndPos := newBase.PositionAtOffset(newEndByte)
	deltaChar := int64(newEndPos.Character) - int64(oldEndPos.Character)

	var entries []mappingEntry
	for i := 0; i < d.mapping.Len(); i++ {
		iv, _ := d.mapping.GetInterval(i)
		if iv.PositionRange.End.Line < firstRow {
			entries = append(entries, mappingEntry{Value: iv.Value, Range: iv.PositionRange})
		}
	}

	for _, n := range d.lang.IterateTextNodes(newTree, newContent) {
		if n.StartPoint.Row < firstRow || n.StartPoint.Row > lastRow {
			continue
		}
		lines := splitLines(newContent)
		entries = append(entries, mappingEntry{
			Value: n.Text,
			Range: document.Range{Start: pointToPosition(lines, n.StartPoint), End: pointToPosition(lines, n.EndPoint)},
		})
	}

	for i := 0; i < d.mapping.Len(); i++ {
		iv, _ := d.mapping.GetInterval(i)
		if iv.PositionRange.Start.Line <= oldLastRow {
			continue
		}
		shifted := shiftRange(iv.PositionRange, oldLastRow, deltaRow, deltaChar)
		entries = append(entries, mappingEntry{Value: iv.Value, Range: shifted})
	}

	d.mapping = buildMappingFromEntries(entries)
	d.Refresh(d.mapping.Values())
	return nil
}

// shiftRange shifts a position range by deltaRow lines; when a position
// sits on oldEndRow (the row the edit's old end-point was on) its
// character is additionally shifted by deltaChar.
func shiftRange(r document.Range, oldEndRow uint32, deltaRow, deltaChar int64) document.Range {
	shift := func(p document.Position) document.Position {
		line := int64(p.Line) + deltaRow
		if line < 0 {
			line = 0
		}
		char := p.Character
		if p.Line == oldEndRow {
			c := int64(char) + deltaChar
			if c < 0 {
				c = 0
			}
			char = uint32(c)
		}
		return document.Position{Line: uint32(line), Character: char}
	}
	return document.Range{Start: shift(r.Start), End: shift(r.End)}
}

func rowColGreater(a, b sitter.Point) bool {
	if a.Row != b.Row {
		return a.Row > b.Row
	}
	return a.Column > b.Column
}

// fullReparseLocked discards the tree and mapping entirely and rebuilds
// from scratch, used for full-document changes (LSP sync kind 2). The
// no-prior-mapping case of ApplyIncrementalChange rebuilds the mapping
// itself and does not go through here. Caller must hold d.mu.
func (d *Document) fullReparseLocked(text string) error {
	if d.tree != nil {
		d.tree.Close()
		d.tree = nil
	}
	newTree, err := d.parser.ParseString(context.Background(), nil, []byte(text))
	if err != nil {
		return fmt.Errorf("tsdoc: full reparse: %w", err)
	}
	d.tree = newTree
	d.content = []byte(text)
	d.base = document.NewBaseDocument(text)
	d.mapping = buildMapping(d.lang.IterateTextNodes(newTree, d.content), d.content)
	d.Refresh(d.mapping.Values())
	return nil
}
