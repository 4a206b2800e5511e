package cache

// lru.go implements the window LRU: a small strict-LRU list that receives
// every insert.  Its evictions are the candidates the admission pipeline
// weighs against the segmented LRU's probationary tail.
//
// © 2025 skipcache authors. MIT License.

import "container/list"

type windowLRU[K comparable, V any] struct {
	data map[uint64]*list.Element
	cap  int
	list *list.List
}

func newWindowLRU[K comparable, V any](size int, data map[uint64]*list.Element) *windowLRU[K, V] {
	return &windowLRU[K, V]{
		data: data,
		cap:  size,
		list: list.New(),
	}
}

// add pushes item to the front.  When the window is full the tail element is
// reused for the incoming item and its previous occupant is returned as the
// eviction victim.
func (w *windowLRU[K, V]) add(item storeItem[K, V]) (victim storeItem[K, V], evicted bool) {
	if w.list.Len() < w.cap {
		w.data[item.keyHash] = w.list.PushFront(&item)
		return storeItem[K, V]{}, false
	}

	back := w.list.Back()
	ev := back.Value.(*storeItem[K, V])

	// Only a tail the map still points at is a live victim; a slot whose key
	// was deleted meanwhile rotates out silently.
	if cur, ok := w.data[ev.keyHash]; ok && cur == back {
		victim, evicted = *ev, true
		delete(w.data, ev.keyHash)
	}

	*ev = item
	w.data[item.keyHash] = back
	w.list.MoveToFront(back)
	return victim, evicted
}

// get refreshes the element to the front on a cache hit.
func (w *windowLRU[K, V]) get(v *list.Element) {
	w.list.MoveToFront(v)
}
