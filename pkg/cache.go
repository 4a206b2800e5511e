package cache

// cache.go contains the W-TinyLFU front-end of skipcache.  Every insert lands
// in a small window LRU.  While the segmented LRU has room, window evictions
// enter it directly; once it is full they must earn their way in by being
// seen before (Bloom doorkeeper) and by at least matching the probationary
// tail's estimated frequency (Count-Min sketch).  A tick counter
// periodically ages both frequency structures so the estimate tracks recent
// behaviour.
//
// The admission pipeline performs read-modify-write across the index map,
// both LRUs, the sketch and the doorkeeper, so Set/Get/Del serialise on a
// single facade mutex.  The ordered skiplist in pkg/skl is an independent
// structure and stays internally concurrent.
//
// © 2025 skipcache authors. MIT License.

import (
	"container/list"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Voskan/skipcache/internal/bloom"
	"github.com/Voskan/skipcache/internal/cmsketch"
)

// Cache is an in-process key/value cache with W-TinyLFU admission.  Multiple
// caches may coexist; there is no global state.
type Cache[K comparable, V any] struct {
	mu sync.Mutex

	lru    *windowLRU[K, V]
	slru   *segmentedLRU[K, V]
	door   *bloom.Filter
	sketch *cmsketch.Sketch

	// data maps keyHash → list element.  Shared by both LRUs: an item is in
	// the map iff exactly one list element holds it.
	data map[uint64]*list.Element

	hash hasher[K]

	// Aging tick: every Get advances t; at threshold the sketch is halved and
	// the doorkeeper cleared.
	t         int32
	threshold int32

	logger  *zap.Logger
	metrics metricsSink
	evictCb EvictCallback[K, V]
	group   *loaderGroup[K, V]

	// stats – atomic so Stats() reads them without the facade lock.
	hits       atomic.Uint64
	misses     atomic.Uint64
	evictions  atomic.Uint64
	rejections atomic.Uint64
	resets     atomic.Uint64
}

// New constructs a cache sized for `size` resident keys.  The window LRU gets
// 1% of the slots, the segmented LRU the remaining 99% split 20/80 between
// probation and protected.
func New[K comparable, V any](size int, opts ...Option[K, V]) (*Cache[K, V], error) {
	cfg := defaultConfig[K, V](size)
	if err := applyOptions(cfg, opts); err != nil {
		return nil, err
	}

	const lruPct = 0.01
	lruSz := int(lruPct * float64(size))
	if lruSz < 1 {
		lruSz = 1
	}
	slruSz := int(float64(size) * (1 - lruPct))
	if slruSz < 1 {
		slruSz = 1
	}
	slruOne := int(0.2 * float64(slruSz))
	if slruOne < 1 {
		slruOne = 1
	}
	slruTwo := slruSz - slruOne

	data := make(map[uint64]*list.Element, size)

	c := &Cache[K, V]{
		lru:       newWindowLRU[K, V](lruSz, data),
		slru:      newSegmentedLRU[K, V](slruOne, slruTwo, data),
		door:      bloom.New(size, 0.01),
		sketch:    cmsketch.New(uint64(size)),
		data:      data,
		hash:      newHasher[K](),
		threshold: cfg.agingThreshold,
		logger:    cfg.logger,
		metrics:   newMetricsSink(cfg.registry),
		evictCb:   cfg.evictCb,
		group:     newLoaderGroup[K, V](),
	}

	c.logger.Debug("skipcache: constructed",
		zap.Int("size", size),
		zap.Int("window", lruSz),
		zap.Int("probation", slruOne),
		zap.Int("protected", slruTwo),
		zap.Int32("aging_threshold", cfg.agingThreshold),
	)
	return c, nil
}

// Set stores value under key and reports whether the write was applied.  The
// only refusal is a primary-hash collision with a different resident key.
func (c *Cache[K, V]) Set(key K, value V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	keyHash, conflict := c.hash.hash(key)

	// Same key already resident: update in place so the map and lists stay in
	// lock-step, refreshing recency as a hit would (a probationary item is
	// promoted to the protected stage).
	if elem, ok := c.data[keyHash]; ok {
		item := elem.Value.(*storeItem[K, V])
		if item.conflict != conflict {
			return false
		}
		item.key = key
		item.value = value
		if item.stage == stageWindow {
			c.lru.get(elem)
		} else {
			c.slru.get(elem)
		}
		return true
	}

	// New keys always start in the window.
	item := storeItem[K, V]{
		stage:    stageWindow,
		keyHash:  keyHash,
		conflict: conflict,
		key:      key,
		value:    value,
	}

	victim, evicted := c.lru.add(item)
	if !evicted {
		c.metrics.setKeys(len(c.data))
		return true
	}

	// The window displaced somebody; weigh it against the SLRU's
	// probationary tail.
	sv := c.slru.victim()
	if sv == nil {
		// SLRU still has room — admit unconditionally.
		if ev, ok := c.slru.add(victim); ok {
			c.evict(ev, ReasonCapacity)
		}
		c.metrics.setKeys(len(c.data))
		return true
	}

	// A key never seen before is a one-hit-wonder candidate: drop it.
	if !c.door.Allow(uint32(victim.keyHash)) {
		c.reject(victim)
		c.metrics.setKeys(len(c.data))
		return true
	}

	// Frequency duel.  Ties admit the incoming item.
	if c.sketch.Estimate(victim.keyHash) < c.sketch.Estimate(sv.keyHash) {
		c.reject(victim)
		c.metrics.setKeys(len(c.data))
		return true
	}

	if ev, ok := c.slru.add(victim); ok {
		c.evict(ev, ReasonCapacity)
	}
	c.metrics.setKeys(len(c.data))
	return true
}

// Get returns the value stored under key.  A primary-hash collision with a
// different key reports a miss.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.get(key)
}

func (c *Cache[K, V]) get(key K) (V, bool) {
	var zero V

	c.t++
	if c.t == c.threshold {
		c.sketch.Reset()
		c.door.Reset()
		c.t = 0
		c.resets.Add(1)
		c.metrics.incReset()
		c.logger.Debug("skipcache: frequency state aged")
	}

	keyHash, conflict := c.hash.hash(key)

	elem, ok := c.data[keyHash]
	if !ok {
		c.misses.Add(1)
		c.metrics.incMiss()
		return zero, false
	}
	item := elem.Value.(*storeItem[K, V])
	if item.conflict != conflict {
		c.misses.Add(1)
		c.metrics.incMiss()
		return zero, false
	}

	c.door.Allow(uint32(keyHash))
	c.sketch.Increment(keyHash)

	if item.stage == stageWindow {
		c.lru.get(elem)
	} else {
		c.slru.get(elem)
	}

	c.hits.Add(1)
	c.metrics.incHit()
	return item.value, true
}

// Del removes key from the index and returns its stored conflict hash.
// Removal from the LRU lists is lazy: the stale slot rotates out on its own
// as the lists churn, and the eviction paths ignore slots the map no longer
// references.
func (c *Cache[K, V]) Del(key K) (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keyHash, conflict := c.hash.hash(key)

	elem, ok := c.data[keyHash]
	if !ok {
		return 0, false
	}
	item := elem.Value.(*storeItem[K, V])
	if item.conflict != conflict {
		return 0, false
	}

	delete(c.data, keyHash)
	c.metrics.setKeys(len(c.data))
	return item.conflict, true
}

// Len returns the number of resident keys.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Stats is a point-in-time snapshot of the cache counters.
type Stats struct {
	Hits       uint64 `json:"hits_total"`
	Misses     uint64 `json:"misses_total"`
	Evictions  uint64 `json:"evictions_total"`
	Rejections uint64 `json:"rejections_total"`
	Resets     uint64 `json:"aging_resets_total"`
	Keys       int    `json:"keys"`
}

// Stats reads the atomic counters without taking the facade lock; Keys is
// read under the lock.
func (c *Cache[K, V]) Stats() Stats {
	return Stats{
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
		Evictions:  c.evictions.Load(),
		Rejections: c.rejections.Load(),
		Resets:     c.resets.Load(),
		Keys:       c.Len(),
	}
}

// Close releases the cache's internal structures.  The cache must not be
// used afterwards.
func (c *Cache[K, V]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = nil
	c.lru = nil
	c.slru = nil
	c.door = nil
	c.sketch = nil
}

func (c *Cache[K, V]) evict(item storeItem[K, V], reason EvictReason) {
	c.evictions.Add(1)
	c.metrics.incEvict()
	if c.evictCb != nil {
		c.evictCb(item.key, item.value, reason)
	}
}

func (c *Cache[K, V]) reject(item storeItem[K, V]) {
	c.rejections.Add(1)
	c.metrics.incReject()
	if c.evictCb != nil {
		c.evictCb(item.key, item.value, ReasonRejected)
	}
}
