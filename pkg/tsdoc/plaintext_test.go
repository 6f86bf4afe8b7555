package tsdoc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hangyav/textlsp-go/pkg/document"
)

func TestPlainTextDocument_CollapseNewlines(t *testing.T) {
	d := NewPlainTextDocument("This is a sentence.\nStill the same paragraph.\n\nNew paragraph.\n", true)

	cleaned, err := d.CleanedSource()
	require.NoError(t, err)
	require.Equal(t, "This is a sentence. Still the same paragraph.\n\nNew paragraph.\n", cleaned)
	require.Equal(t, len(d.Source()), len(cleaned), "collapse must be length-preserving")
}

func TestPlainTextDocument_CollapseDisabled(t *testing.T) {
	src := "line one\nline two\n"
	d := NewPlainTextDocument(src, false)

	cleaned, err := d.CleanedSource()
	require.NoError(t, err)
	require.Equal(t, src, cleaned)
}

func TestPlainTextDocument_CoordinatesIgnoreCleanedFlag(t *testing.T) {
	d := NewPlainTextDocument("hello\nworld\n", true)

	pRaw, err := d.PositionAtOffset(6, false)
	require.NoError(t, err)
	pClean, err := d.PositionAtOffset(6, true)
	require.NoError(t, err)
	require.Equal(t, pRaw, pClean)
	require.Equal(t, document.Position{Line: 1, Character: 0}, pRaw)
}

func TestPlainTextDocument_ApplyIncrementalChange(t *testing.T) {
	d := NewPlainTextDocument("hello world\n", true)

	rng := document.Range{
		Start: document.Position{Line: 0, Character: 6},
		End:   document.Position{Line: 0, Character: 11},
	}
	err := d.ApplyIncrementalChange(ChangeEvent{Range: &rng, Text: "there"})
	require.NoError(t, err)
	require.Equal(t, "hello there\n", d.Source())
}

func TestPlainTextDocument_ApplyFullChange(t *testing.T) {
	d := NewPlainTextDocument("old\n", true)
	err := d.ApplyIncrementalChange(ChangeEvent{Text: "new\n", IsFull: true})
	require.NoError(t, err)
	require.Equal(t, "new\n", d.Source())
}
