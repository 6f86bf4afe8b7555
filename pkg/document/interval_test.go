package document

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildSample() *OffsetPositionIntervalList {
	l := NewOffsetPositionIntervalList()
	l.Add(0, 5, Position{0, 0}, Position{0, 5}, "hello")
	l.Add(5, 6, Position{0, 5}, Position{0, 6}, " ")
	l.Add(6, 11, Position{0, 6}, Position{0, 11}, "world")
	return l
}

func TestGetIdxAtOffset(t *testing.T) {
	l := buildSample()
	idx, ok := l.GetIdxAtOffset(3)
	require.True(t, ok)
	require.Equal(t, 0, idx)

	idx, ok = l.GetIdxAtOffset(6)
	require.True(t, ok)
	require.Equal(t, 2, idx)

	// past the end clamps to the last interval
	idx, ok = l.GetIdxAtOffset(100)
	require.True(t, ok)
	require.Equal(t, 2, idx)
}

func TestGetIdxAtPositionNearestRight(t *testing.T) {
	l := buildSample()
	idx, ok := l.GetIdxAtPosition(Position{0, 5}, false)
	require.True(t, ok)
	require.Equal(t, 1, idx)
}

func TestValuesConcatenation(t *testing.T) {
	l := buildSample()
	require.Equal(t, "hello world", l.Values())
}

func TestMappingCompleteness(t *testing.T) {
	l := buildSample()
	total := 0
	for i := 0; i < l.Len(); i++ {
		iv, ok := l.GetInterval(i)
		require.True(t, ok)
		total += iv.OffsetInterval.Length
	}
	require.Equal(t, len(l.Values()), total)
}
