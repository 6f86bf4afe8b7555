package tsdoc

import (
	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/hangyav/textlsp-go/pkg/document"
)

// orgSpec cleans Org-mode source: paragraph expressions and headline-item
// expressions contribute prose; the configured TODO keywords (default
// {TODO, DONE}, overridable per workspace) are stripped when they appear
// as a headline's leading keyword.
type orgSpec struct {
	query        *sitter.Query
	todoKeywords map[string]struct{}
}

func newOrgSpec(lang sitter.Language, todoKeywords []string) (*orgSpec, error) {
	q := "(paragraph (expr) @content)\n" +
		"(headline (item (expr) @content))\n" +
		"(paragraph) @newline_after_one\n" +
		"(headline) @newline_after_one\n" +
		"(section) @newline_after_one\n"

	query, err := sitter.NewQuery(lang, []byte(q))
	if err != nil {
		return nil, err
	}
	if len(todoKeywords) == 0 {
		todoKeywords = []string{"TODO", "DONE"}
	}
	set := make(map[string]struct{}, len(todoKeywords))
	for _, k := range todoKeywords {
		set[k] = struct{}{}
	}
	return &orgSpec{query: query, todoKeywords: set}, nil
}

func (o *orgSpec) Name() string { return "org" }

func (o *orgSpec) IterateTextNodes(tree *sitter.Tree, content []byte) []TextNode {
	caps := collectCaptures(o.query, tree.RootNode(), content)
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
		case "content":
			if o.isValidContentNode(c.Node, content) {
				if needsSpaceBefore(start, lastSent, lines) {
					if start.Column > 0 {
						emit(spaceNode(document.Point{Row: start.Row, Column: start.Column - 1}))
					} else if lastSent != nil {
						emit(spaceNode(document.Point{Row: lastSent.EndPoint.Row, Column: lastSent.EndPoint.Column + 1}))
					}
				}
				end := toPoint(c.Node.EndPoint())
				emit(realNode(c.Node.Content(content), start, end))
			}
		case "newline_after_one":
			pending = insertPointInOrder(pending, toPoint(c.Node.EndPoint()), 1)
		}
	}

	last := document.Point{}
	if lastSent != nil {
		last = lastSent.EndPoint
	}
	nodes = append(nodes, newlineNodes(1, last)...)
	return nodes
}

// isValidContentNode filters out a headline's leading TODO-keyword token:
// an expr whose text is a configured keyword and whose grandparent is a
// headline is dropped from the cleaned stream.
func (o *orgSpec) isValidContentNode(node sitter.Node, content []byte) bool {
	parent := node.Parent()
	if parent.IsNull() {
		return true
	}
	grandparent := parent.Parent()
	if grandparent.IsNull() || grandparent.Type() != "headline" {
		return true
	}
	if node.StartPoint() != parent.StartPoint() {
		// Not the first expr of the headline title.
		return true
	}
	text := node.Content(content)
	_, isKeyword := o.todoKeywords[text]
	return !isKeyword
}
