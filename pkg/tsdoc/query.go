package tsdoc

import (
	"sort"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// namedCapture is one (capture-name, node) pair produced by running
// query over root, in source reading order.
type namedCapture struct {
	Name string
	Node sitter.Node
}

// collectCaptures runs query over root and returns every capture across
// every match, sorted by start byte so multi-pattern queries (one pattern
// per text-root type, as latex.go and org.go build) still yield captures in
// document order.
func collectCaptures(query *sitter.Query, root sitter.Node, content []byte) []namedCapture {
	qc := sitter.NewQueryCursor()
	it := qc.Matches(query, root, content)

	var out []namedCapture
	for {
		m := it.Next()
		if m == nil {
			break
		}
		for _, c := range m.Captures {
			out = append(out, namedCapture{
				Name: query.CaptureNameForID(c.Index),
				Node: c.Node,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		si, sj := out[i].Node.StartPoint(), out[j].Node.StartPoint()
		if si.Row != sj.Row {
			return si.Row < sj.Row
		}
		return si.Column < sj.Column
	})
	return out
}
