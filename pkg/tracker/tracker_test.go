package tracker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hangyav/textlsp-go/pkg/document"
	"github.com/hangyav/textlsp-go/pkg/tsdoc"
)

func rng(l1, c1, l2, c2 uint32) *document.Range {
	return &document.Range{
		Start: document.Position{Line: l1, Character: c1},
		End:   document.Position{Line: l2, Character: c2},
	}
}

func TestChangeTracker_InsertionIsDirty(t *testing.T) {
	base := document.NewBaseDocument("hello world")
	tr := NewChangeTracker(base.Len())

	snap := BaseSnapshot{Base: base}
	tr.Apply(snap, tsdoc.ChangeEvent{Range: rng(0, 5, 0, 5), Text: " there"}, base.Len()+len(" there"))

	changes := tr.GetChanges()
	require.Len(t, changes, 1)
	require.Equal(t, 5, changes[0].Start)
	require.Equal(t, len(" there"), changes[0].Length)
	require.Equal(t, 1, tr.Len())
}

func TestChangeTracker_FullDocumentChangeMarksEverythingDirty(t *testing.T) {
	base := document.NewBaseDocument("abc")
	tr := NewChangeTracker(base.Len())

	tr.Apply(BaseSnapshot{Base: base}, tsdoc.ChangeEvent{Text: "a brand new document", IsFull: true}, len("a brand new document"))

	changes := tr.GetChanges()
	require.Len(t, changes, 1)
	require.Equal(t, document.Interval{Start: 0, Length: len("a brand new document")}, changes[0])
}

func TestChangeTracker_NoChangeIsClean(t *testing.T) {
	base := document.NewBaseDocument("hello world")
	tr := NewChangeTracker(base.Len())
	require.Equal(t, 0, tr.Len())
	require.Empty(t, tr.GetChanges())
}

func TestTokenLevelDiff_Replace(t *testing.T) {
	diffs := TokenLevelDiff("This is a sentense.", "This is a sentence.")
	require.NotEmpty(t, diffs)

	found := false
	for _, d := range diffs {
		if d.OldToken == "sentense." && d.NewToken == "sentence." {
			found = true
			require.Equal(t, "replace", d.Type)
		}
	}
	require.True(t, found)
}

func TestTokenLevelDiff_NoChange(t *testing.T) {
	require.Empty(t, TokenLevelDiff("same text here", "same text here"))
}

// TestChangeTracker_SequentialInsertsAccumulateDirtySpans walks five
// insertions into growing single-line text and checks that the dirty
// spans reported after all five match hand-traced offsets: each
// insertion should surface as its own small dirty interval, with the
// clean runs between them staying untouched.
func TestChangeTracker_SequentialInsertsAccumulateDirtySpans(t *testing.T) {
	tr := NewChangeTracker(30)

	steps := []struct {
		docLenBefore int
		offset       uint32
		text         string
		newLength    int
	}{
		{30, 5, "X1", 32},
		{32, 15, "Y1", 34},
		{34, 25, "Z1", 36},
		{36, 33, "W1", 38},
		{38, 2, "V1", 40},
	}

	for _, s := range steps {
		base := document.NewBaseDocument(strings.Repeat("a", s.docLenBefore))
		snap := BaseSnapshot{Base: base}
		pos := document.Position{Line: 0, Character: s.offset}
		tr.Apply(snap, tsdoc.ChangeEvent{Range: &document.Range{Start: pos, End: pos}, Text: s.text}, s.newLength)
	}

	changes := tr.GetChanges()
	require.Equal(t, []document.Interval{
		{Start: 2, Length: 2},
		{Start: 7, Length: 2},
		{Start: 17, Length: 2},
		{Start: 27, Length: 2},
		{Start: 35, Length: 2},
	}, changes)
	require.Equal(t, 5, tr.Len())
}
