// Package posdict provides a sorted multimap keyed by document Position,
// used to store diagnostics and code actions so they can be range-queried
// and shifted in place when edits move the text around them.
package posdict

import (
	"sync"

	"github.com/tidwall/btree"

	"github.com/hangyav/textlsp-go/pkg/document"
)

// PositionDict is a sorted map from Position to an insertion-ordered list
// of items. T is required comparable so Update can locate a specific item
// within its bucket by equality (callers typically use a pointer type for
// T, e.g. *protocol.Diagnostic, so equality is identity). Supports
// add/remove-between/remove-from/irange-values/update, the operations a
// line-shift handler needs to rebucket items after an edit.
type PositionDict[T comparable] struct {
	mu   sync.Mutex
	tree btree.Map[uint64, []T]
}

func New[T comparable]() *PositionDict[T] {
	return &PositionDict[T]{}
}

// getBucket looks up the exact-match bucket at key, if any. tidwall/btree's
// generic Map is driven through its iterator rather than a direct Get
// throughout this package, matching pkg/document/interval.go's Seek-based
// usage of the same library.
func (d *PositionDict[T]) getBucket(key uint64) ([]T, bool) {
	iter := d.tree.Iter()
	if !iter.Seek(key) || iter.Key() != key {
		return nil, false
	}
	return iter.Value(), true
}

// Add appends v to the bucket at pos, preserving insertion order within
// the bucket.
func (d *PositionDict[T]) Add(pos document.Position, v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := pos.Pack()
	bucket, _ := d.getBucket(key)
	d.tree.Set(key, append(append([]T{}, bucket...), v))
}

// IrangeValues returns every item whose key lies in [minimum, maximum],
// with inclusivity controlled independently at each end
// (inclusive[0]=start, inclusive[1]=end), in key order.
func (d *PositionDict[T]) IrangeValues(minimum, maximum document.Position, inclusive [2]bool) []T {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []T
	iter := d.tree.Iter()
	if !iter.Seek(minimum.Pack()) {
		return out
	}
	for {
		key := iter.Key()
		pos := document.UnpackPosition(key)

		if pos.Less(minimum) {
			if !iter.Next() {
				break
			}
			continue
		}
		if pos.Equal(minimum) && !inclusive[0] {
			if !iter.Next() {
				break
			}
			continue
		}
		if maximum.Less(pos) {
			break
		}
		if pos.Equal(maximum) && !inclusive[1] {
			break
		}

		out = append(out, iter.Value()...)
		if !iter.Next() {
			break
		}
	}
	return out
}

// RemoveBetween deletes every item whose key lies in [lo, hi] (per the
// inclusivity flags) and returns the removed items.
func (d *PositionDict[T]) RemoveBetween(lo, hi document.Position, inclusive [2]bool) []T {
	d.mu.Lock()
	defer d.mu.Unlock()

	var removed []T
	var keysToDelete []uint64

	iter := d.tree.Iter()
	if iter.Seek(lo.Pack()) {
		for {
			key := iter.Key()
			pos := document.UnpackPosition(key)

			if pos.Less(lo) {
				if !iter.Next() {
					break
				}
				continue
			}
			if pos.Equal(lo) && !inclusive[0] {
				if !iter.Next() {
					break
				}
				continue
			}
			if hi.Less(pos) {
				break
			}
			if pos.Equal(hi) && !inclusive[1] {
				break
			}

			removed = append(removed, iter.Value()...)
			keysToDelete = append(keysToDelete, key)
			if !iter.Next() {
				break
			}
		}
	}

	for _, k := range keysToDelete {
		d.tree.Delete(k)
	}
	return removed
}

// RemoveFrom deletes every item whose key is >= pos (or > pos when
// inclusive is false) and returns the removed items; used to drop items
// that fell past the document's new end after a shrinking edit.
func (d *PositionDict[T]) RemoveFrom(pos document.Position, inclusive bool) []T {
	d.mu.Lock()
	defer d.mu.Unlock()

	var removed []T
	var keysToDelete []uint64

	iter := d.tree.Iter()
	if iter.Seek(pos.Pack()) {
		for {
			key := iter.Key()
			p := document.UnpackPosition(key)
			if p.Equal(pos) && !inclusive {
				if !iter.Next() {
					break
				}
				continue
			}
			removed = append(removed, iter.Value()...)
			keysToDelete = append(keysToDelete, key)
			if !iter.Next() {
				break
			}
		}
	}

	for _, k := range keysToDelete {
		d.tree.Delete(k)
	}
	return removed
}

// Update rebuckets v from oldKey's bucket to newKey's bucket. Returns false
// if v wasn't found under oldKey.
func (d *PositionDict[T]) Update(oldKey, newKey document.Position, v T) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	oldPacked := oldKey.Pack()
	bucket, ok := d.getBucket(oldPacked)
	if !ok {
		return false
	}

	idx := -1
	for i, item := range bucket {
		if item == v {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	remaining := append(append([]T{}, bucket[:idx]...), bucket[idx+1:]...)
	if len(remaining) == 0 {
		d.tree.Delete(oldPacked)
	} else {
		d.tree.Set(oldPacked, remaining)
	}

	newPacked := newKey.Pack()
	newBucket, _ := d.getBucket(newPacked)
	d.tree.Set(newPacked, append(append([]T{}, newBucket...), v))
	return true
}

// Len returns the total number of items across every bucket.
func (d *PositionDict[T]) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	iter := d.tree.Iter()
	for ok := iter.First(); ok; ok = iter.Next() {
		n += len(iter.Value())
	}
	return n
}
