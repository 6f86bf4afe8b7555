package posdict

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hangyav/textlsp-go/pkg/document"
)

func pos(l, c uint32) document.Position { return document.Position{Line: l, Character: c} }

func TestPositionDict_AddAndIrangeValues(t *testing.T) {
	d := New[string]()
	d.Add(pos(1, 0), "a")
	d.Add(pos(2, 0), "b")
	d.Add(pos(3, 0), "c")

	got := d.IrangeValues(pos(1, 0), pos(2, 0), [2]bool{true, true})
	require.Equal(t, []string{"a", "b"}, got)

	got = d.IrangeValues(pos(1, 0), pos(2, 0), [2]bool{false, true})
	require.Equal(t, []string{"b"}, got)

	require.Equal(t, 3, d.Len())
}

func TestPositionDict_RemoveBetween(t *testing.T) {
	d := New[string]()
	d.Add(pos(1, 0), "a")
	d.Add(pos(2, 0), "b")
	d.Add(pos(3, 0), "c")

	removed := d.RemoveBetween(pos(2, 0), pos(3, 0), [2]bool{true, true})
	require.ElementsMatch(t, []string{"b", "c"}, removed)
	require.Equal(t, 1, d.Len())
	require.Equal(t, []string{"a"}, d.IrangeValues(pos(0, 0), pos(10, 0), [2]bool{true, true}))
}

func TestPositionDict_RemoveFrom(t *testing.T) {
	d := New[string]()
	d.Add(pos(1, 0), "a")
	d.Add(pos(2, 0), "b")

	removed := d.RemoveFrom(pos(2, 0), true)
	require.Equal(t, []string{"b"}, removed)
	require.Equal(t, 1, d.Len())

	removed = d.RemoveFrom(pos(1, 0), false)
	require.Empty(t, removed)
	require.Equal(t, 1, d.Len())
}

func TestPositionDict_Update(t *testing.T) {
	d := New[string]()
	d.Add(pos(1, 5), "diag")

	ok := d.Update(pos(1, 5), pos(4, 5), "diag")
	require.True(t, ok)

	require.Empty(t, d.IrangeValues(pos(1, 5), pos(1, 5), [2]bool{true, true}))
	require.Equal(t, []string{"diag"}, d.IrangeValues(pos(4, 5), pos(4, 5), [2]bool{true, true}))
}

func TestPositionDict_UpdateMissingReturnsFalse(t *testing.T) {
	d := New[string]()
	require.False(t, d.Update(pos(1, 0), pos(2, 0), "missing"))
}
