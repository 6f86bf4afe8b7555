// Package document provides position/offset arithmetic over raw source text
// and the sorted interval mapping that links cleaned-text offsets back to
// source positions.
package document

import "unicode/utf16"

// Position is an LSP-style (line, character) pair. Character counts UTF-16
// code units from the start of the line, per the LSP contract.
type Position struct {
	Line      uint32
	Character uint32
}

// Less orders positions lexicographically by (Line, Character).
func (p Position) Less(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Character < o.Character
}

func (p Position) Equal(o Position) bool {
	return p.Line == o.Line && p.Character == o.Character
}

// Pack encodes a Position into a single ordered uint64 key, used wherever a
// btree.Map needs a cmp.Ordered key for positions.
func (p Position) Pack() uint64 {
	return uint64(p.Line)<<32 | uint64(p.Character)
}

func UnpackPosition(k uint64) Position {
	return Position{Line: uint32(k >> 32), Character: uint32(k)}
}

// Range is a half-open [Start, End) span over positions.
type Range struct {
	Start Position
	End   Position
}

// Point is a source (row, column) pair where column counts bytes, matching
// tree-sitter's sitter.Point semantics.
type Point struct {
	Row, Column uint32
}

// Utf16Len returns the number of UTF-16 code units a string occupies, the
// same quantity LSP's Position.Character counts.
func Utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += len(utf16.Encode([]rune{r}))
	}
	return n
}

// Utf16ToByteColumn converts a UTF-16 code unit column within line into a
// byte column, clamping to the line's length if the column overruns it.
func Utf16ToByteColumn(line string, utf16Col uint32) int {
	col := int(utf16Col)
	byteCol := 0
	units := 0
	for _, r := range line {
		if units >= col {
			break
		}
		byteCol += runeByteLen(r)
		units += utf16UnitLen(r)
	}
	return byteCol
}

// ByteToUtf16Column converts a byte column within line into a UTF-16 code
// unit column.
func ByteToUtf16Column(line string, byteCol int) uint32 {
	units := 0
	b := 0
	for _, r := range line {
		if b >= byteCol {
			break
		}
		b += runeByteLen(r)
		units += utf16UnitLen(r)
	}
	return uint32(units)
}

func runeByteLen(r rune) int {
	switch {
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r < 0x10000:
		return 3
	default:
		return 4
	}
}

func utf16UnitLen(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}
