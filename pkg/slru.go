package cache

// slru.go implements the segmented LRU holding keys that survived admission:
// a probationary stage-one list and a protected stage-two list.  Promotion
// happens on hit; when the protected list is full its tail is demoted back to
// probation in the same step, so the shared map never diverges from the
// lists.
//
// © 2025 skipcache authors. MIT License.

import "container/list"

type segmentedLRU[K comparable, V any] struct {
	data                     map[uint64]*list.Element
	stageOneCap, stageTwoCap int
	stageOne, stageTwo       *list.List
}

func newSegmentedLRU[K comparable, V any](stageOneCap, stageTwoCap int, data map[uint64]*list.Element) *segmentedLRU[K, V] {
	return &segmentedLRU[K, V]{
		data:        data,
		stageOneCap: stageOneCap,
		stageTwoCap: stageTwoCap,
		stageOne:    list.New(),
		stageTwo:    list.New(),
	}
}

func (s *segmentedLRU[K, V]) len() int {
	return s.stageOne.Len() + s.stageTwo.Len()
}

// add inserts an admitted item at the front of probation.  If probation is
// full and the SLRU as a whole is at capacity, the probationary tail is
// displaced and returned.
func (s *segmentedLRU[K, V]) add(item storeItem[K, V]) (victim storeItem[K, V], evicted bool) {
	item.stage = stageOne
	if s.stageOne.Len() < s.stageOneCap || s.len() < s.stageOneCap+s.stageTwoCap {
		s.data[item.keyHash] = s.stageOne.PushFront(&item)
		return storeItem[K, V]{}, false
	}

	back := s.stageOne.Back()
	ev := back.Value.(*storeItem[K, V])

	if cur, ok := s.data[ev.keyHash]; ok && cur == back {
		victim, evicted = *ev, true
		delete(s.data, ev.keyHash)
	}

	*ev = item
	s.data[item.keyHash] = back
	s.stageOne.MoveToFront(back)
	return victim, evicted
}

// get promotes on hit.  Protected hits just refresh recency; probationary
// hits move into the protected stage, demoting its tail back to probation
// when full.  The demotion swaps payloads in place, so no list grows or
// shrinks and every map entry keeps pointing at the right element.
func (s *segmentedLRU[K, V]) get(v *list.Element) {
	item := v.Value.(*storeItem[K, V])

	if item.stage == stageTwo {
		s.stageTwo.MoveToFront(v)
		return
	}

	if s.stageTwoCap == 0 {
		s.stageOne.MoveToFront(v)
		return
	}

	if s.stageTwo.Len() < s.stageTwoCap {
		s.stageOne.Remove(v)
		item.stage = stageTwo
		s.data[item.keyHash] = s.stageTwo.PushFront(item)
		return
	}

	back := s.stageTwo.Back()
	demoted := back.Value.(*storeItem[K, V])
	// A tail the map no longer points at belongs to a deleted key; its slot
	// moves to probation without being indexed again.
	cur, ok := s.data[demoted.keyHash]
	live := ok && cur == back

	*demoted, *item = *item, *demoted
	demoted.stage = stageTwo
	item.stage = stageOne
	s.data[demoted.keyHash] = back
	if live {
		s.data[item.keyHash] = v
	}

	s.stageTwo.MoveToFront(back)
	s.stageOne.MoveToFront(v)
}

// victim exposes the probationary tail for the admission comparison, or nil
// while the SLRU still has room.
func (s *segmentedLRU[K, V]) victim() *storeItem[K, V] {
	if s.len() < s.stageOneCap+s.stageTwoCap {
		return nil
	}
	return s.stageOne.Back().Value.(*storeItem[K, V])
}
