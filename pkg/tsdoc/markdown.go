package tsdoc

import (
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/hangyav/textlsp-go/pkg/document"
)

// markdownSpec cleans Markdown source: every `inline` node contributes
// prose (table cells, paragraph text, list-item text all parse as inline
// in tree-sitter-markdown), and each inline block is followed by two
// synthetic newlines so paragraphs stay separated in the cleaned stream —
// this turns table rows into separate "foo\n\nbar\n\n..." paragraphs.
type markdownSpec struct {
	query *sitter.Query
}

func newMarkdownSpec(lang sitter.Language) (*markdownSpec, error) {
	query, err := sitter.NewQuery(lang, []byte("(inline) @content\n"))
	if err != nil {
		return nil, err
	}
	return &markdownSpec{query: query}, nil
}

func (m *markdownSpec) Name() string { return "markdown" }

func (m *markdownSpec) IterateTextNodes(tree *sitter.Tree, content []byte) []TextNode {
	caps := collectCaptures(m.query, tree.RootNode(), content)
	lines := splitLines(content)

	var nodes []TextNode
	var lastSent *TextNode
	var pending []document.Point

	emit := func(n TextNode) {
		nodes = append(nodes, n)
		last := n
		lastSent = &last
	}

	for _, c := range caps {
		start := toPoint(c.Node.StartPoint())
		for len(pending) > 0 && pointGreater(start, pending[0]) {
			if lastSent != nil {
				emit(newlineNodes(1, lastSent.EndPoint)[0])
			}
			pending = pending[1:]
		}

		if needsSpaceBefore(start, lastSent, lines) {
			if start.Column > 0 {
				emit(spaceNode(document.Point{Row: start.Row, Column: start.Column - 1}))
			} else if lastSent != nil {
				emit(spaceNode(document.Point{Row: lastSent.EndPoint.Row, Column: lastSent.EndPoint.Column + 1}))
			}
		}

		for _, tn := range parseInline(c.Node, content) {
			emit(tn)
		}

		end := toPoint(c.Node.EndPoint())
		pending = insertPointInOrder(pending, end, 2)
	}

	last := document.Point{}
	if lastSent != nil {
		last = lastSent.EndPoint
	}
	nodes = append(nodes, newlineNodes(1, last)...)
	return nodes
}

// parseInline splits an inline node's text on whitespace into word tokens,
// re-synthesizing single spaces between tokens. An embedded newline in the
// source moves the token positions to the next row; no newline TextNode is
// emitted for it, so tokens on consecutive lines are joined by a space.
func parseInline(node sitter.Node, content []byte) []TextNode {
	start := toPoint(node.StartPoint())
	text := strings.ReplaceAll(strings.TrimSpace(node.Content(content)), "\n", " \n ")

	var nodes []TextNode
	rowOffset, colOffset := uint32(0), uint32(0)
	var last *TextNode

	for _, tok := range strings.Split(text, " ") {
		if tok == "" {
			continue
		}
		if tok == "\n" {
			colOffset = 0
			rowOffset++
			continue
		}
		if last != nil && last.Text != "\n" {
			sp := TextNode{
				Text:       " ",
				StartPoint: document.Point{Row: start.Row + rowOffset, Column: start.Column + colOffset},
				EndPoint:   document.Point{Row: start.Row + rowOffset, Column: start.Column + colOffset + 1},
			}
			nodes = append(nodes, sp)
			colOffset++
		}
		n := TextNode{
			Text:       tok,
			StartPoint: document.Point{Row: start.Row + rowOffset, Column: start.Column + colOffset},
			EndPoint:   document.Point{Row: start.Row + rowOffset, Column: start.Column + colOffset + uint32(len(tok))},
		}
		nodes = append(nodes, n)
		last = &n
		colOffset += uint32(len(tok))
	}
	return nodes
}

func insertPointInOrder(pending []document.Point, p document.Point, times int) []document.Point {
	i := 0
	for i < len(pending) && pointLess(pending[i], p) {
		i++
	}
	ins := make([]document.Point, times)
	for j := range ins {
		ins[j] = p
	}
	out := append([]document.Point{}, pending[:i]...)
	out = append(out, ins...)
	out = append(out, pending[i:]...)
	return out
}

func pointLess(a, b document.Point) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	return a.Column < b.Column
}

func pointGreater(a, b document.Point) bool { return pointLess(b, a) }
