package tsdoc

import "github.com/hangyav/textlsp-go/pkg/document"

// TextNode is a unit of the cleaned stream: real text copied from a
// tree-sitter node, a synthetic space, or one or more synthetic
// newlines.
type TextNode struct {
	Text       string
	StartPoint document.Point
	EndPoint   document.Point
}

func realNode(text string, start, end document.Point) TextNode {
	return TextNode{Text: text, StartPoint: start, EndPoint: end}
}

// spaceNode is a single ASCII space with a zero-width source span just past
// the previous real node.
func spaceNode(at document.Point) TextNode {
	return TextNode{Text: " ", StartPoint: at, EndPoint: at}
}

// newlineNodes yields count synthetic '\n' nodes, all anchored at the same
// point one column past `after` on after's row (even when after is at
// end-of-line); each newline node is zero-width in source span.
func newlineNodes(count int, after document.Point) []TextNode {
	nodes := make([]TextNode, 0, count)
	p := document.Point{Row: after.Row, Column: after.Column + 1}
	for i := 0; i < count; i++ {
		nodes = append(nodes, TextNode{Text: "\n", StartPoint: p, EndPoint: p})
	}
	return nodes
}
