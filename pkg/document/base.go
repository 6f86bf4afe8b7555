package document

import "strings"

// BaseDocument provides position/offset arithmetic over raw source text,
// ignoring any cleaning pipeline.
type BaseDocument struct {
	source string
	lines  []string
	// lineStart[i] is the byte offset of the start of line i.
	lineStart []int
}

func NewBaseDocument(source string) *BaseDocument {
	d := &BaseDocument{source: source}
	d.reindex()
	return d
}

func (d *BaseDocument) reindex() {
	d.lines = strings.Split(d.source, "\n")
	d.lineStart = make([]int, len(d.lines))
	offset := 0
	for i, line := range d.lines {
		d.lineStart[i] = offset
		offset += len(line) + 1 // +1 for the '\n' (absent on the last line, harmless)
	}
}

// SetSource replaces the tracked source, used after an edit is applied.
func (d *BaseDocument) SetSource(source string) {
	d.source = source
	d.reindex()
}

func (d *BaseDocument) Source() string { return d.source }

func (d *BaseDocument) Len() int { return len(d.source) }

// PositionAtOffset walks lines to find the (line, character) for a byte
// offset. o == len(source) returns the past-end position rather than
// failing.
func (d *BaseDocument) PositionAtOffset(o int) Position {
	if o < 0 {
		o = 0
	}
	if len(d.lines) == 0 {
		return Position{}
	}
	// Binary search over lineStart for the line containing o.
	lo, hi := 0, len(d.lineStart)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if d.lineStart[mid] <= o {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	line := lo
	byteCol := o - d.lineStart[line]
	if byteCol > len(d.lines[line]) {
		byteCol = len(d.lines[line])
	}
	return Position{
		Line:      uint32(line),
		Character: ByteToUtf16Column(d.lines[line], byteCol),
	}
}

// RangeAtOffset returns an inclusive range spanning length characters
// (bytes) starting at o. length == 0 degenerates to an empty range.
func (d *BaseDocument) RangeAtOffset(o, length int) Range {
	start := d.PositionAtOffset(o)
	if length <= 0 {
		return Range{Start: start, End: start}
	}
	return Range{Start: start, End: d.PositionAtOffset(o + length)}
}

// OffsetAtPosition sums prior line lengths plus the UTF-16-to-byte
// correction of p.Character against the target line.
func (d *BaseDocument) OffsetAtPosition(p Position) int {
	line := int(p.Line)
	if line < 0 {
		return 0
	}
	if line >= len(d.lines) {
		return len(d.source)
	}
	byteCol := Utf16ToByteColumn(d.lines[line], p.Character)
	return d.lineStart[line] + byteCol
}

// PointAtOffset returns the tree-sitter-style (row, byte-column) point for a
// byte offset, for callers that need to drive sitter.InputEdit instead of
// LSP Position arithmetic.
func (d *BaseDocument) PointAtOffset(o int) Point {
	if len(d.lines) == 0 {
		return Point{}
	}
	lo, hi := 0, len(d.lineStart)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if d.lineStart[mid] <= o {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return Point{Row: uint32(lo), Column: uint32(o - d.lineStart[lo])}
}

// OffsetAtPoint is PointAtOffset's inverse: given a tree-sitter-style (row,
// byte-column) point, returns the byte offset.
func (d *BaseDocument) OffsetAtPoint(p Point) int {
	row := int(p.Row)
	if row < 0 {
		return 0
	}
	if row >= len(d.lines) {
		return len(d.source)
	}
	col := int(p.Column)
	if col > len(d.lines[row]) {
		col = len(d.lines[row])
	}
	return d.lineStart[row] + col
}

// LastPosition returns the position one past the last character.
func (d *BaseDocument) LastPosition() Position {
	return d.PositionAtOffset(len(d.source))
}

// SentenceAtOffset grows symmetrically from o until both sides lie after a
// [.!?] followed by whitespace, or at document bounds, widening the right
// side until minLength is reached.
func (d *BaseDocument) SentenceAtOffset(o, minLength int) Interval {
	if len(d.source) == 0 {
		return Interval{Start: 0, Length: 0}
	}
	o = clamp(o, 0, len(d.source))

	start := o
	for start > 0 && !sentenceBoundaryBefore(d.source, start) {
		start--
	}
	end := o
	for end < len(d.source) && !sentenceBoundaryAfter(d.source, end) {
		end++
	}
	for end-start < minLength && end < len(d.source) {
		end++
		for end < len(d.source) && !sentenceBoundaryAfter(d.source, end) {
			end++
		}
	}
	return Interval{Start: start, Length: end - start}
}

// sentenceBoundaryBefore reports whether position i is immediately after a
// sentence-ending punctuation run followed by whitespace (i.e. i is a valid
// sentence start).
func sentenceBoundaryBefore(s string, i int) bool {
	if i == 0 || i == len(s) {
		return true
	}
	// s[i-1] must be whitespace and something before it a [.!?].
	if !isSpace(s[i-1]) {
		return false
	}
	j := i - 1
	for j > 0 && isSpace(s[j-1]) {
		j--
	}
	return j > 0 && isSentenceEnd(s[j-1])
}

func sentenceBoundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	if !isSentenceEnd(s[i]) {
		return false
	}
	j := i + 1
	return j >= len(s) || isSpace(s[j])
}

func isSentenceEnd(b byte) bool { return b == '.' || b == '!' || b == '?' }
func isSpace(b byte) bool       { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }

// ParagraphAtOffset grows until both sides see a blank-line boundary (two or
// more consecutive '\n'), widening until both minLength and minOffset
// constraints are satisfied. A run of 2+ consecutive '\n' is one boundary,
// regardless of its exact length.
func (d *BaseDocument) ParagraphAtOffset(o, minLength, minOffset int) Interval {
	if len(d.source) == 0 {
		return Interval{Start: 0, Length: 0}
	}
	o = clamp(o, 0, len(d.source))

	start := paragraphBoundaryLeft(d.source, o)
	end := paragraphBoundaryRight(d.source, o)
	for (end-start < minLength || start > minOffset) && (start > 0 || end < len(d.source)) {
		moved := false
		if start > minOffset && start > 0 {
			start = paragraphBoundaryLeft(d.source, start-1)
			moved = true
		}
		if end-start < minLength && end < len(d.source) {
			end = paragraphBoundaryRight(d.source, end+1)
			moved = true
		}
		if !moved {
			break
		}
	}
	return Interval{Start: start, Length: end - start}
}

// paragraphBoundaryLeft finds the start of the paragraph containing offset
// o: the byte just past the nearest blank-line run at or before o, or 0.
func paragraphBoundaryLeft(s string, o int) int {
	i := o
	for i > 0 {
		if s[i-1] == '\n' {
			// Count the run of newlines ending at i.
			j := i - 1
			for j > 0 && s[j-1] == '\n' {
				j--
			}
			if i-j >= 2 {
				return i
			}
			i = j
			continue
		}
		i--
	}
	return 0
}

func paragraphBoundaryRight(s string, o int) int {
	i := o
	for i < len(s) {
		if s[i] == '\n' {
			j := i
			for j < len(s) && s[j] == '\n' {
				j++
			}
			if j-i >= 2 {
				return i
			}
			i = j
			continue
		}
		i++
	}
	return len(s)
}

// ParagraphsAtOffset iterates paragraph_at_offset forward from o to the
// document end.
func (d *BaseDocument) ParagraphsAtOffset(o int) []Interval {
	var out []Interval
	for o < len(d.source) {
		p := d.ParagraphAtOffset(o, 0, 0)
		out = append(out, p)
		o = p.End()
		for o < len(d.source) && d.source[o] == '\n' {
			o++
		}
	}
	return out
}

// ParagraphsAtRange returns every paragraph overlapping [start, end).
func (d *BaseDocument) ParagraphsAtRange(start, end int) []Interval {
	var out []Interval
	o := start
	for o < end {
		p := d.ParagraphAtOffset(o, 0, 0)
		out = append(out, p)
		if p.End() <= o {
			break
		}
		o = p.End()
		for o < len(d.source) && d.source[o] == '\n' {
			o++
		}
	}
	return out
}

// ParagraphAtPosition is ParagraphAtOffset via OffsetAtPosition.
func (d *BaseDocument) ParagraphAtPosition(p Position, minLength, minOffset int) Interval {
	return d.ParagraphAtOffset(d.OffsetAtPosition(p), minLength, minOffset)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
