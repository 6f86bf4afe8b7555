package document

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPositionAtOffsetPastEnd(t *testing.T) {
	d := NewBaseDocument("abc\ndef")
	p := d.PositionAtOffset(len(d.Source()))
	require.Equal(t, Position{Line: 1, Character: 3}, p)
}

func TestOffsetAtPositionRoundTrip(t *testing.T) {
	d := NewBaseDocument("hello\nworld\nfoo")
	for _, o := range []int{0, 3, 6, 11, 12, 15} {
		p := d.PositionAtOffset(o)
		require.Equal(t, o, d.OffsetAtPosition(p), "offset %d round-trips through position %+v", o, p)
	}
}

func TestParagraphAtOffsetSingleVsMultipleBlankLines(t *testing.T) {
	d := NewBaseDocument("para one\n\npara two\n\n\npara three")
	p1 := d.ParagraphAtOffset(2, 0, 0)
	require.Equal(t, "para one", d.Source()[p1.Start:p1.End()])

	p3 := d.ParagraphAtOffset(len(d.Source())-1, 0, 0)
	require.Equal(t, "para three", d.Source()[p3.Start:p3.End()])
}

func TestSentenceAtOffsetGrowsToMinLength(t *testing.T) {
	d := NewBaseDocument("Short. This is a longer sentence. Another one.")
	iv := d.SentenceAtOffset(0, 20)
	require.GreaterOrEqual(t, iv.Length, 20)
}

func TestEmptyDocumentZeroLengthInterval(t *testing.T) {
	d := NewBaseDocument("")
	require.Equal(t, Interval{Start: 0, Length: 0}, d.ParagraphAtOffset(0, 0, 0))
	require.Equal(t, Interval{Start: 0, Length: 0}, d.SentenceAtOffset(0, 0))
}
