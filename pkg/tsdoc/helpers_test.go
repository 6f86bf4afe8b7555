package tsdoc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hangyav/textlsp-go/pkg/document"
)

func TestExtendLatexPunctuation_AbsorbsTrailingComma(t *testing.T) {
	lines := []string{"word, rest"}
	text, end := extendLatexPunctuation("word", document.Point{Row: 0, Column: 4}, lines, nil)
	require.Equal(t, "word,", text)
	require.Equal(t, document.Point{Row: 0, Column: 5}, end)
}

func TestExtendLatexPunctuation_AbsorbsTrailingDash(t *testing.T) {
	lines := []string{"co-located"}
	text, end := extendLatexPunctuation("co", document.Point{Row: 0, Column: 2}, lines, nil)
	require.Equal(t, "co-", text)
	require.Equal(t, document.Point{Row: 0, Column: 3}, end)
}

func TestExtendLatexPunctuation_LeavesOtherPunctuationAlone(t *testing.T) {
	lines := []string{"word. rest"}
	text, end := extendLatexPunctuation("word", document.Point{Row: 0, Column: 4}, lines, nil)
	require.Equal(t, "word", text)
	require.Equal(t, document.Point{Row: 0, Column: 4}, end)
}

func TestExtendLatexPunctuation_EndOfLineIsNoop(t *testing.T) {
	lines := []string{"word"}
	text, end := extendLatexPunctuation("word", document.Point{Row: 0, Column: 4}, lines, nil)
	require.Equal(t, "word", text)
	require.Equal(t, document.Point{Row: 0, Column: 4}, end)
}

func TestNeedsSpaceBefore_NoLastNodeIsFalse(t *testing.T) {
	require.False(t, needsSpaceBefore(document.Point{Row: 0, Column: 5}, nil, nil))
}

func TestNeedsSpaceBefore_DifferentRowIsTrueUnlessLastWasNewline(t *testing.T) {
	last := &TextNode{Text: "word", EndPoint: document.Point{Row: 0, Column: 4}}
	require.True(t, needsSpaceBefore(document.Point{Row: 1, Column: 0}, last, nil))

	lastNewline := &TextNode{Text: "\n", EndPoint: document.Point{Row: 0, Column: 4}}
	require.False(t, needsSpaceBefore(document.Point{Row: 1, Column: 0}, lastNewline, nil))
}

func TestNeedsSpaceBefore_SameRowChecksGapForWhitespace(t *testing.T) {
	lines := []string{"one two"}
	last := &TextNode{Text: "one", EndPoint: document.Point{Row: 0, Column: 3}}

	require.True(t, needsSpaceBefore(document.Point{Row: 0, Column: 4}, last, lines))

	tight := &TextNode{Text: "one", EndPoint: document.Point{Row: 0, Column: 3}}
	require.False(t, needsSpaceBefore(document.Point{Row: 0, Column: 3}, tight, lines))
}

func TestContainsSpace(t *testing.T) {
	require.True(t, containsSpace(" "))
	require.True(t, containsSpace("a\tb"))
	require.False(t, containsSpace(""))
	require.False(t, containsSpace("ab"))
}

func TestInsertPointInOrder_InsertsAtSortedPosition(t *testing.T) {
	pending := []document.Point{{Row: 0, Column: 1}, {Row: 0, Column: 5}}
	got := insertPointInOrder(pending, document.Point{Row: 0, Column: 3}, 2)
	require.Equal(t, []document.Point{
		{Row: 0, Column: 1},
		{Row: 0, Column: 3},
		{Row: 0, Column: 3},
		{Row: 0, Column: 5},
	}, got)
}

func TestInsertPointInOrder_AppendsWhenGreaterThanAll(t *testing.T) {
	pending := []document.Point{{Row: 0, Column: 1}}
	got := insertPointInOrder(pending, document.Point{Row: 1, Column: 0}, 1)
	require.Equal(t, []document.Point{{Row: 0, Column: 1}, {Row: 1, Column: 0}}, got)
}

func TestPointLessAndGreater(t *testing.T) {
	a := document.Point{Row: 0, Column: 1}
	b := document.Point{Row: 0, Column: 2}
	require.True(t, pointLess(a, b))
	require.False(t, pointLess(b, a))
	require.True(t, pointGreater(b, a))
	require.False(t, pointGreater(a, b))

	c := document.Point{Row: 1, Column: 0}
	require.True(t, pointLess(b, c))
}
