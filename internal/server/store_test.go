package server

import (
	"testing"

	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/hangyav/textlsp-go/internal/config"
	"github.com/hangyav/textlsp-go/pkg/document"
	"github.com/hangyav/textlsp-go/pkg/tsdoc"
)

type noopAnalyser struct{ closed bool }

func (a *noopAnalyser) Changed(_ []document.Interval) error           { return nil }
func (a *noopAnalyser) Shift(_ tsdoc.ChangeEvent, _ document.Position) {}
func (a *noopAnalyser) Close()                                        { a.closed = true }

func TestStoreOpenGetClose(t *testing.T) {
	store := NewStore(config.NewConfig())

	require.NoError(t, store.Open("file:///a.txt", "text", 1, "hello\n"))

	doc, ok := store.Get("file:///a.txt")
	require.True(t, ok)
	require.Equal(t, protocol.DocumentUri("file:///a.txt"), doc.URI)

	store.Close("file:///a.txt")
	_, ok = store.Get("file:///a.txt")
	require.False(t, ok)
}

func TestStoreRegisterAnalyserGetsStateOnOpen(t *testing.T) {
	store := NewStore(config.NewConfig())
	a := &noopAnalyser{}
	store.RegisterAnalyser("stub", a)

	require.NoError(t, store.Open("file:///a.txt", "text", 1, "hello\n"))
	doc, ok := store.Get("file:///a.txt")
	require.True(t, ok)
	require.Contains(t, doc.analysis, "stub")

	store.Close("file:///a.txt")
	require.False(t, a.closed) // Close only stops the document, not the analyser itself
}
