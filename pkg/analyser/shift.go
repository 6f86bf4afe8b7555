// Package analyser defines the checker-plugin contract for analysers
// that consume clean prose, and the shared position-shift algorithm
// every analyser implementation reuses so stale diagnostics and code
// actions stay visually correct until the next re-check.
package analyser

import (
	"strings"

	"github.com/hangyav/textlsp-go/pkg/document"
	"github.com/hangyav/textlsp-go/pkg/posdict"
	"github.com/hangyav/textlsp-go/pkg/tracker"
	"github.com/hangyav/textlsp-go/pkg/tsdoc"
)

// Analyser is the plugin contract the core drives (LanguageTool, OpenAI,
// Ollama, HuggingFace checkers all implement it; their network/model
// code is out of scope here). Changed/Close handle checking, and Shift
// repositions already-published items on an edit.
type Analyser interface {
	// Changed re-checks exactly the given cleaned-offset intervals,
	// publishing diagnostics/code actions for them.
	Changed(intervals []document.Interval) error
	// Shift repositions already-published items in response to an edit,
	// without re-running the checker.
	Shift(change tsdoc.ChangeEvent, newLastPosition document.Position)
	Close()
}

// RangeAccessor is the minimal shape Shifter needs: something with a
// gettable/settable Range. Diagnostics and code actions both satisfy this
// through small adapter closures rather than an interface method, since
// neither protocol.Diagnostic nor protocol.CodeAction is defined by this
// module.
type RangeAccessor[T any] struct {
	Get func(T) document.Range
	Set func(T, document.Range) T
}

// Shifter wraps one posdict.PositionDict[T] with the range accessors
// needed to reposition its items on an edit. One Shifter exists per
// (document, item kind) pair — e.g. one for diagnostics, one for code
// actions. Multi-edit accumulation within one didChange batch and
// code-action version rewriting are handled by Shift's caller looping
// over change.ContentChanges and by RewriteVersion in codeaction.go.
type Shifter[T comparable] struct {
	dict     *posdict.PositionDict[T]
	accessor RangeAccessor[T]
}

func NewShifter[T comparable](accessor RangeAccessor[T]) *Shifter[T] {
	return &Shifter[T]{dict: posdict.New[T](), accessor: accessor}
}

func (s *Shifter[T]) Dict() *posdict.PositionDict[T] { return s.dict }

// Shift applies one content-change event's position shift to every
// stored item.
func (s *Shifter[T]) Shift(change tsdoc.ChangeEvent, newLastPosition document.Position) {
	if change.IsFull {
		// A full-document change invalidates every stored position; the
		// next re-check will repopulate from scratch.
		s.dict.RemoveFrom(document.Position{}, true)
		return
	}

	start := change.Range.Start
	end := change.Range.End

	// Step 1: drop items whose start lies strictly inside the replaced range.
	if !start.Equal(end) {
		s.dict.RemoveBetween(start, end, [2]bool{false, false})
	}

	textLineCount := strings.Count(change.Text, "\n")
	lineDiff := int(end.Line) - int(start.Line)

	if textLineCount == lineDiff {
		s.shiftSameLineCount(start, end, change.Text)
	} else {
		s.shiftDifferingLineCount(start, textLineCount-lineDiff, change.Text)
	}

	// Step 4: drop items whose resulting start is past the document's new end.
	s.dict.RemoveFrom(newLastPosition, false)
}

// shiftSameLineCount implements step 2: the edit doesn't change how many
// lines the document has, so only character offsets on the edit's start
// line need shifting.
func (s *Shifter[T]) shiftSameLineCount(start, end document.Position, text string) {
	charShift := int(document.Utf16Len(text)) - (int(end.Character) - int(start.Character))
	if charShift == 0 {
		return
	}

	nextLine := document.Position{Line: start.Line + 1, Character: 0}
	items := s.dict.IrangeValues(start, nextLine, [2]bool{true, false})
	for _, item := range items {
		r := s.accessor.Get(item)
		oldStart := r.Start

		newStart := document.Position{Line: r.Start.Line, Character: shiftChar(r.Start.Character, charShift)}
		newEnd := r.End
		if r.End.Line == r.Start.Line {
			newEnd.Character = shiftChar(r.End.Character, charShift)
		}

		updated := s.accessor.Set(item, document.Range{Start: newStart, End: newEnd})
		s.dict.Update(oldStart, newStart, updated)
	}
}

// shiftDifferingLineCount implements step 3: the edit adds or removes
// lines, so every item at or past the edit's start position moves by deltaRow;
// items that were on the edit's original start line are additionally
// rebased onto the column where the replacement text's last line ends.
func (s *Shifter[T]) shiftDifferingLineCount(start document.Position, deltaRow int, text string) {
	items := s.dict.RemoveFrom(start, true)
	if len(items) == 0 {
		return
	}

	var newLineStartChar uint32
	if idx := strings.LastIndexByte(text, '\n'); idx >= 0 {
		newLineStartChar = uint32(document.Utf16Len(text[idx+1:]))
	} else {
		newLineStartChar = start.Character + uint32(document.Utf16Len(text))
	}

	for _, item := range items {
		r := s.accessor.Get(item)

		newStart := document.Position{Line: shiftLine(r.Start.Line, deltaRow), Character: r.Start.Character}
		newEnd := document.Position{Line: shiftLine(r.End.Line, deltaRow), Character: r.End.Character}

		if r.Start.Line == start.Line {
			relative := r.Start.Character - start.Character
			newStart.Character = newLineStartChar + relative
			if r.End.Line == r.Start.Line {
				newEnd.Character = newLineStartChar + (r.End.Character - start.Character)
			}
		}

		updated := s.accessor.Set(item, document.Range{Start: newStart, End: newEnd})
		s.dict.Add(newStart, updated)
	}
}

func shiftChar(c uint32, delta int) uint32 {
	v := int(c) + delta
	if v < 0 {
		return 0
	}
	return uint32(v)
}

func shiftLine(l uint32, delta int) uint32 {
	v := int(l) + delta
	if v < 0 {
		return 0
	}
	return uint32(v)
}
