// iterator.go — positional iteration over the skiplist.  Forward iteration
// walks level 0; the positional seeks reuse findNear's four-mode matrix.
//
// © 2025 skipcache authors. MIT License.

package skl

import (
	"github.com/Voskan/skipcache/pkg/entry"
)

// Iterator walks the list in key order.  It observes nodes published before
// or during the walk; it never blocks writers.
type Iterator struct {
	list *SkipList
	n    *node
}

// NewIterator returns an iterator positioned before the first entry; call
// SeekToFirst (or any Seek) before reading.
func (s *SkipList) NewIterator() *Iterator {
	return &Iterator{list: s}
}

// Valid reports whether the iterator is positioned at a node.
func (it *Iterator) Valid() bool { return it.n != nil }

// Key returns the framed key at the current position.
func (it *Iterator) Key() []byte {
	return it.list.arena.getKey(it.n.keyOffset, it.n.keySize)
}

// Value returns the decoded value at the current position.
func (it *Iterator) Value() entry.Value {
	valOffset, valSize := it.n.getValueOffset()
	v := it.list.arena.getVal(valOffset, valSize)
	v.Version = entry.ParseTs(it.Key())
	return v
}

// Entry materialises the current position as a user-facing Entry.
func (it *Iterator) Entry() *entry.Entry {
	k := it.Key()
	v := it.Value()
	return &entry.Entry{
		Key:       k,
		Value:     v.Val,
		ExpiresAt: v.ExpiresAt,
		Meta:      v.Meta,
		Version:   v.Version,
	}
}

// Next advances to the next position.
func (it *Iterator) Next() {
	if !it.Valid() {
		panic("skl: Next on invalid iterator")
	}
	it.n = it.list.getNext(it.n, 0)
}

// Prev retreats to the previous position.
func (it *Iterator) Prev() {
	if !it.Valid() {
		panic("skl: Prev on invalid iterator")
	}
	it.n, _ = it.list.findNear(it.Key(), true, false) // find <. No equality allowed.
}

// Seek positions at the first entry with key >= target.
func (it *Iterator) Seek(target []byte) {
	it.n, _ = it.list.findNear(target, false, true) // find >=.
}

// SeekForPrev positions at the last entry with key <= target.
func (it *Iterator) SeekForPrev(target []byte) {
	it.n, _ = it.list.findNear(target, true, true) // find <=.
}

// SeekToFirst positions at the first entry.  Valid() iff the list is
// non-empty.  The head sentinel is never surfaced.
func (it *Iterator) SeekToFirst() {
	it.n = it.list.getNext(it.list.head, 0)
}

// SeekToLast positions at the last entry.
func (it *Iterator) SeekToLast() {
	it.n = it.list.findLast()
}
