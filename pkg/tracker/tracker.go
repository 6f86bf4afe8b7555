// Package tracker accumulates LSP content changes against an immutable
// snapshot of a document and projects them back as a minimal set of
// affected cleaned-text intervals.
package tracker

import (
	"sync"

	"github.com/hangyav/textlsp-go/pkg/document"
	"github.com/hangyav/textlsp-go/pkg/tsdoc"
)

// Snapshot is the minimal state a ChangeTracker needs to translate a
// Position into an offset against the document as it stood the moment
// the tracker last observed it — either the raw source (Snapshot =
// BaseDocument) or the cleaned-offset mapping (Snapshot = a captured
// mapping). The parser/query/language stay shared references; only the
// raw source (plus mapping, when cleaned) is copied.
type Snapshot interface {
	OffsetAtPosition(p document.Position) int
	Len() int
}

// BaseSnapshot adapts a raw-source BaseDocument to Snapshot (cleaned=false
// tracking).
type BaseSnapshot struct {
	Base *document.BaseDocument
}

func (s BaseSnapshot) OffsetAtPosition(p document.Position) int { return s.Base.OffsetAtPosition(p) }
func (s BaseSnapshot) Len() int                                 { return s.Base.Len() }

// MappingSnapshot adapts a captured OffsetPositionIntervalList to Snapshot
// (cleaned=true tracking) — a deep copy of the mapping's items, not the
// live document's mutable one.
type MappingSnapshot struct {
	Mapping *document.OffsetPositionIntervalList
	Length  int
}

func (s MappingSnapshot) Len() int { return s.Length }

func (s MappingSnapshot) OffsetAtPosition(p document.Position) int {
	idx, ok := s.Mapping.GetIdxAtPosition(p, false)
	if !ok {
		return s.Length
	}
	iv, _ := s.Mapping.GetInterval(idx)
	if iv.PositionRange.Start.Line == p.Line && iv.PositionRange.Start.Character <= p.Character {
		return iv.OffsetInterval.Start + int(p.Character-iv.PositionRange.Start.Character)
	}
	return iv.OffsetInterval.Start
}

// item is a (span_length, dirty) run-length entry. A negative length
// marks a span that has since collapsed to nothing (deletion overflowed
// past the item it started in).
type item struct {
	length int
	dirty  bool
}

// ChangeTracker tracks which runs of a document's run-length bookkeeping
// have gone dirty since the last check, coalescing overlapping edits into
// the minimal set of runs that actually changed.
type ChangeTracker struct {
	mu     sync.Mutex
	items  []item
	full   bool
	length int
}

// NewChangeTracker starts tracking a snapshot of the given length: entirely
// clean, one run covering the whole document.
func NewChangeTracker(snapshotLength int) *ChangeTracker {
	return &ChangeTracker{
		items:  []item{{length: snapshotLength, dirty: false}},
		length: snapshotLength,
	}
}

// Apply folds one LSP change into the tracker. `snapshot` must be the
// document state *before* this change: the tracker must observe the
// document before applying each change. `newLength` is the tracked
// document's length (raw or cleaned, matching the snapshot's flavor)
// after the change is applied.
func (t *ChangeTracker) Apply(snapshot Snapshot, change tsdoc.ChangeEvent, newLength int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.full {
		t.length = newLength
		return
	}

	if change.IsFull {
		t.full = true
		t.items = []item{{length: -1, dirty: true}}
		t.length = newLength
		return
	}

	startOffset := snapshot.OffsetAtPosition(change.Range.Start)
	endOffset := snapshot.OffsetAtPosition(change.Range.End)

	itemIdx, itemOffset := t.offsetIdx(startOffset)
	changeLength := len(change.Text)
	rangeLength := endOffset - startOffset
	relStart := startOffset - itemOffset

	var newItems []item
	if relStart > 0 {
		newItems = append(newItems, item{length: relStart, dirty: t.items[itemIdx].dirty})
	}

	if startOffset == endOffset && changeLength == 0 {
		t.length = newLength
		return
	}

	switch {
	case changeLength == 0: // deletion
		newItems = append(newItems, item{length: 0, dirty: true})
		tmp := item{length: t.items[itemIdx].length - relStart - rangeLength, dirty: t.items[itemIdx].dirty}
		if tmp.length != 0 {
			newItems = append(newItems, tmp)
		}
	case rangeLength == 0: // insertion
		newItems = append(newItems, item{length: changeLength, dirty: true})
		tmp := item{length: t.items[itemIdx].length - relStart, dirty: t.items[itemIdx].dirty}
		if tmp.length > 0 {
			newItems = append(newItems, tmp)
		}
	default: // replacement
		newItems = append(newItems, item{length: changeLength, dirty: true})
		tmp := item{length: t.items[itemIdx].length - relStart - (changeLength - rangeLength), dirty: t.items[itemIdx].dirty}
		if tmp.length > 0 {
			newItems = append(newItems, tmp)
		}
	}

	t.replaceAt(itemIdx, newItems)
	t.length = newLength
}

// offsetIdx finds the item containing offset and the running offset at its
// start.
func (t *ChangeTracker) offsetIdx(offset int) (idx, pos int) {
	for pos <= offset && idx < len(t.items)-1 && pos+t.items[idx].length <= offset {
		if t.items[idx].length > 0 {
			pos += t.items[idx].length
		}
		idx++
	}
	return idx, pos
}

func (t *ChangeTracker) replaceAt(idx int, items []item) {
	tail := append([]item{}, t.items[idx+1:]...)
	out := append([]item{}, t.items[:idx]...)
	out = append(out, items...)
	out = append(out, tail...)
	t.items = out
}

// GetChanges returns the dirty spans, clipped to [0, length), de-duplicated.
func (t *ChangeTracker) GetChanges() []document.Interval {
	t.mu.Lock()
	defer t.mu.Unlock()

	docLength := t.length
	if t.full {
		return []document.Interval{{Start: 0, Length: docLength}}
	}

	var res []document.Interval
	seen := make(map[document.Interval]bool)
	pos := 0
	for _, it := range t.items {
		if it.dirty {
			length := it.length
			var position int
			if length < 0 {
				position = maxInt(0, pos+length)
				length = minInt(-length, docLength-pos)
			} else {
				position = pos
			}
			if position >= docLength {
				position = docLength - 1
				length = 0
			}
			if length == 0 && position > 0 {
				position--
				length = 1
			}
			iv := document.Interval{Start: position, Length: length}
			if !seen[iv] {
				res = append(res, iv)
				seen[iv] = true
			}
		}
		if it.length > 0 {
			pos += it.length
		}
	}
	return res
}

// Len returns the number of dirty spans.
func (t *ChangeTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, it := range t.items {
		if it.dirty {
			n++
		}
	}
	return n
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
