package document

import (
	"github.com/tidwall/btree"
)

// Interval is a half-open byte span [Start, Start+Length).
type Interval struct {
	Start, Length int
}

func (iv Interval) End() int { return iv.Start + iv.Length }

// OffsetPositionInterval links a cleaned-offset span to the source position
// range it was produced from, along with the literal cleaned text it
// contributed.
type OffsetPositionInterval struct {
	OffsetInterval Interval
	PositionRange  Range
	Value          string
}

// OffsetPositionIntervalList is the sorted, append-mostly mapping table
// linking cleaned-text offsets to source positions. It supports O(log n)
// lookup by cleaned offset and by source position, plus ordinal access,
// backed by tidwall/btree.Map for ordered lookups.
type OffsetPositionIntervalList struct {
	items    []*OffsetPositionInterval
	byOffEnd btree.Map[int, int]    // offset_end -> index into items
	byPosEnd btree.Map[uint64, int] // packed end-position -> index into items
}

func NewOffsetPositionIntervalList() *OffsetPositionIntervalList {
	return &OffsetPositionIntervalList{}
}

// Add appends a new interval. Callers must guarantee monotonically
// increasing offsets.
func (l *OffsetPositionIntervalList) Add(offsetStart, offsetEnd int, start, end Position, value string) {
	idx := len(l.items)
	l.items = append(l.items, &OffsetPositionInterval{
		OffsetInterval: Interval{Start: offsetStart, Length: offsetEnd - offsetStart},
		PositionRange:  Range{Start: start, End: end},
		Value:          value,
	})
	l.byOffEnd.Set(offsetEnd, idx)
	l.byPosEnd.Set(end.Pack(), idx)
}

// AddInterval appends a pre-built interval, used when splicing intervals
// copied from another list (incremental update, see pkg/tsdoc).
func (l *OffsetPositionIntervalList) AddInterval(iv *OffsetPositionInterval) {
	idx := len(l.items)
	l.items = append(l.items, iv)
	l.byOffEnd.Set(iv.OffsetInterval.End(), idx)
	l.byPosEnd.Set(iv.PositionRange.End.Pack(), idx)
}

func (l *OffsetPositionIntervalList) Len() int { return len(l.items) }

// GetInterval returns the interval at ordinal index i.
func (l *OffsetPositionIntervalList) GetInterval(i int) (*OffsetPositionInterval, bool) {
	if i < 0 || i >= len(l.items) {
		return nil, false
	}
	return l.items[i], true
}

// Values returns the concatenation of every interval's Value, i.e. the
// cleaned source.
func (l *OffsetPositionIntervalList) Values() string {
	var sb []byte
	for _, iv := range l.items {
		sb = append(sb, iv.Value...)
	}
	return string(sb)
}

// GetIdxAtOffset binary-searches for the first offset_end past o and
// verifies offset_start <= o < offset_end. Offsets past the end of the list
// return the last interval.
func (l *OffsetPositionIntervalList) GetIdxAtOffset(o int) (int, bool) {
	if len(l.items) == 0 {
		return 0, false
	}
	iter := l.byOffEnd.Iter()
	if !iter.Seek(o + 1) {
		// o is past every offset_end: clamp to last interval.
		return len(l.items) - 1, true
	}
	idx := iter.Value()
	iv := l.items[idx]
	if o < iv.OffsetInterval.Start {
		return 0, false
	}
	return idx, true
}

// GetIdxAtPosition binary-searches for the first packed end-position past
// p (ranges are half-open, so p == End belongs to the next interval). When
// strict is false and there is no exact match, it returns the next interval
// (or the last one) as a nearest-right fallback.
func (l *OffsetPositionIntervalList) GetIdxAtPosition(p Position, strict bool) (int, bool) {
	if len(l.items) == 0 {
		return 0, false
	}
	key := p.Pack()
	iter := l.byPosEnd.Iter()
	if !iter.Seek(key + 1) {
		if strict {
			return 0, false
		}
		return len(l.items) - 1, true
	}
	idx := iter.Value()
	iv := l.items[idx]
	if p.Less(iv.PositionRange.Start) {
		if strict {
			return 0, false
		}
	}
	return idx, true
}
