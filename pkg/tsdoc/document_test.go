package tsdoc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hangyav/textlsp-go/pkg/document"
)

// TestBuildMapping_RoundTrip hand-builds the TextNode stream a LaTeX
// cleaning pass over "\section{Introduction}\n\nThis is a
// \textbf{sentence}.\n" would produce ("Introduction\n\nThis is a
// sentence.\n"), and checks that buildMapping/PositionAtOffset/
// OffsetAtPosition round-trip every offset in the cleaned source back to
// the right raw-source position, without depending on the actual latex
// grammar's node shapes.
func TestBuildMapping_RoundTrip(t *testing.T) {
	content := []byte("\\section{Introduction}\n\nThis is a \\textbf{sentence}.\n")
	nodes := []TextNode{
		realNode("Introduction", document.Point{Row: 0, Column: 9}, document.Point{Row: 0, Column: 21}),
	}
	nodes = append(nodes, newlineNodes(2, document.Point{Row: 0, Column: 21})...)
	nodes = append(nodes,
		realNode("This", document.Point{Row: 2, Column: 0}, document.Point{Row: 2, Column: 4}),
		spaceNode(document.Point{Row: 2, Column: 4}),
		realNode("is", document.Point{Row: 2, Column: 5}, document.Point{Row: 2, Column: 7}),
		spaceNode(document.Point{Row: 2, Column: 7}),
		realNode("a", document.Point{Row: 2, Column: 8}, document.Point{Row: 2, Column: 9}),
		spaceNode(document.Point{Row: 2, Column: 9}),
		realNode("sentence", document.Point{Row: 2, Column: 18}, document.Point{Row: 2, Column: 26}),
		realNode(".", document.Point{Row: 2, Column: 27}, document.Point{Row: 2, Column: 28}),
	)
	nodes = append(nodes, newlineNodes(1, document.Point{Row: 2, Column: 28})...)

	m := buildMapping(nodes, content)
	cleaned := m.Values()
	require.Equal(t, "Introduction\n\nThis is a sentence.\n", cleaned)

	doc := &Document{base: document.NewBaseDocument(string(content)), mapping: m}

	for off := 0; off < len(cleaned); off++ {
		pos, err := doc.PositionAtOffset(off, true)
		require.NoError(t, err, "offset %d", off)

		back, err := doc.OffsetAtPosition(pos, true)
		require.NoError(t, err, "position %+v (from offset %d)", pos, off)
		require.Equal(t, off, back, "round trip at offset %d via position %+v", off, pos)
	}
}

func TestBuildMapping_RangeAtOffset(t *testing.T) {
	content := []byte("\\section{Introduction}\n")
	nodes := []TextNode{
		realNode("Introduction", document.Point{Row: 0, Column: 9}, document.Point{Row: 0, Column: 21}),
	}
	m := buildMapping(nodes, content)
	doc := &Document{base: document.NewBaseDocument(string(content)), mapping: m}

	rng, err := doc.RangeAtOffset(0, 12, true)
	require.NoError(t, err)
	require.Equal(t, document.Position{Line: 0, Character: 9}, rng.Start)
	require.Equal(t, document.Position{Line: 0, Character: 21}, rng.End)
}
