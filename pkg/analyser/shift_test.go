package analyser

import (
	"testing"

	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/hangyav/textlsp-go/pkg/document"
	"github.com/hangyav/textlsp-go/pkg/tsdoc"
)

func prange(l1, c1, l2, c2 uint32) *document.Range {
	return &document.Range{
		Start: document.Position{Line: l1, Character: c1},
		End:   document.Position{Line: l2, Character: c2},
	}
}

// TestShifter_DiagnosticShift is S6: a misspelling diagnostic at
// (1,10)-(1,18), prepend three newlines at (0,0); expect it to move to
// (4,10)-(4,18) without re-analysis.
func TestShifter_DiagnosticShift(t *testing.T) {
	shifter := NewShifter(DiagnosticRangeAccessor)

	diag := &protocol.Diagnostic{
		Range:   protocol.Range{Start: protocol.Position{Line: 1, Character: 10}, End: protocol.Position{Line: 1, Character: 18}},
		Message: "misspelling",
	}
	shifter.Dict().Add(document.Position{Line: 1, Character: 10}, diag)

	change := tsdoc.ChangeEvent{Range: prange(0, 0, 0, 0), Text: "\n\n\n"}
	shifter.Shift(change, document.Position{Line: 100, Character: 0})

	items := shifter.Dict().IrangeValues(
		document.Position{Line: 0, Character: 0},
		document.Position{Line: 100, Character: 0},
		[2]bool{true, true},
	)
	require.Len(t, items, 1)
	require.Equal(t, protocol.Position{Line: 4, Character: 10}, items[0].Range.Start)
	require.Equal(t, protocol.Position{Line: 4, Character: 18}, items[0].Range.End)
}

func TestShifter_FullDocumentChangeClearsAll(t *testing.T) {
	shifter := NewShifter(DiagnosticRangeAccessor)
	diag := &protocol.Diagnostic{Range: protocol.Range{Start: protocol.Position{Line: 1, Character: 0}, End: protocol.Position{Line: 1, Character: 5}}}
	shifter.Dict().Add(document.Position{Line: 1, Character: 0}, diag)

	shifter.Shift(tsdoc.ChangeEvent{Text: "brand new", IsFull: true}, document.Position{Line: 0, Character: 9})

	require.Equal(t, 0, shifter.Dict().Len())
}

func TestShifter_DropsItemsInsideReplacedRange(t *testing.T) {
	shifter := NewShifter(DiagnosticRangeAccessor)
	diag := &protocol.Diagnostic{Range: protocol.Range{Start: protocol.Position{Line: 0, Character: 5}, End: protocol.Position{Line: 0, Character: 8}}}
	shifter.Dict().Add(document.Position{Line: 0, Character: 5}, diag)

	change := tsdoc.ChangeEvent{Range: prange(0, 0, 0, 10), Text: "replaced"}
	shifter.Shift(change, document.Position{Line: 10, Character: 0})

	require.Equal(t, 0, shifter.Dict().Len())
}
