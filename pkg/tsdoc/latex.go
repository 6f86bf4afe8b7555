package tsdoc

import (
	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/hangyav/textlsp-go/pkg/document"
)

// latexSpec cleans LaTeX source: section/subsection/paragraph titles,
// curly-group bodies, enum items and generic environments contribute
// prose; curly groups that are themselves section/subsection/paragraph
// titles (or enum items) act as paragraph boundaries.
type latexSpec struct {
	query *sitter.Query
}

var latexTextRoots = []string{"section", "subsection", "paragraph", "curly_group", "enum_item", "generic_environment"}
var latexNewlineCurlyParents = []string{"section", "subsection", "paragraph"}

func newLatexSpec(lang sitter.Language) (*latexSpec, error) {
	q := ""
	for _, root := range latexTextRoots {
		q += "(" + root + " (text (word) @content))\n"
	}
	for _, parent := range latexNewlineCurlyParents {
		q += "(" + parent + " (curly_group) @newline_before_after)\n"
	}
	q += "(enum_item) @newline_before_after\n"

	query, err := sitter.NewQuery(lang, []byte(q))
	if err != nil {
		return nil, err
	}
	return &latexSpec{query: query}, nil
}

func (l *latexSpec) Name() string { return "latex" }

func (l *latexSpec) IterateTextNodes(tree *sitter.Tree, content []byte) []TextNode {
	caps := collectCaptures(l.query, tree.RootNode(), content)
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

		switch c.Name {
		case "newline_before_after":
			if lastSent != nil && lastSent.Text != "\n" {
				for _, nl := range newlineNodes(2, lastSent.EndPoint) {
					emit(nl)
				}
			}
			pending = insertPointInOrder(pending, toPoint(c.Node.EndPoint()), 2)
		case "content":
			end := toPoint(c.Node.EndPoint())
			text := c.Node.Content(content)
			text, end = extendLatexPunctuation(text, end, lines, content)

			if needsSpaceBefore(start, lastSent, lines) {
				if start.Column > 0 {
					emit(spaceNode(document.Point{Row: start.Row, Column: start.Column - 1}))
				} else if lastSent != nil {
					emit(spaceNode(document.Point{Row: lastSent.EndPoint.Row, Column: lastSent.EndPoint.Column + 1}))
				}
			}
			emit(realNode(text, start, end))
		}
	}

	last := document.Point{}
	if lastSent != nil {
		last = lastSent.EndPoint
	}
	nodes = append(nodes, newlineNodes(1, last)...)
	return nodes
}

// extendLatexPunctuation absorbs an immediately-following ',' or '-' into
// the content node's text, working around the grammar's mis-tokenization
// of those characters.
func extendLatexPunctuation(text string, end document.Point, lines []string, content []byte) (string, document.Point) {
	if int(end.Row) >= len(lines) {
		return text, end
	}
	line := lines[end.Row]
	if int(end.Column) >= len(line) {
		return text, end
	}
	next := line[end.Column]
	if next == ',' || next == '-' {
		return text + string(next), document.Point{Row: end.Row, Column: end.Column + 1}
	}
	return text, end
}

func needsSpaceBefore(start document.Point, last *TextNode, lines []string) bool {
	if last == nil || last.Text == "\n" {
		return false
	}
	if start.Row != last.EndPoint.Row {
		return last.Text != "\n"
	}
	if int(start.Row) >= len(lines) {
		return false
	}
	line := lines[start.Row]
	lo, hi := int(last.EndPoint.Column), int(start.Column)
	if lo < 0 || hi > len(line) || lo > hi {
		return false
	}
	return containsSpace(line[lo:hi])
}

func containsSpace(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' || s[i] == '\t' {
			return true
		}
	}
	return false
}

func toPoint(p sitter.Point) document.Point {
	return document.Point{Row: uint32(p.Row), Column: uint32(p.Column)}
}
