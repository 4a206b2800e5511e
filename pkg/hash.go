package cache

// hash.go derives the (keyHash, conflict) pair from a user key using two
// independent 64-bit hash functions: maphash with a cache-local seed for the
// primary index hash, and xxhash for the conflict hash stored alongside items
// to detect collisions on the primary.
//
// © 2025 skipcache authors. MIT License.

import (
	"hash/maphash"
	"unsafe"

	"github.com/cespare/xxhash/v2"

	"github.com/Voskan/skipcache/internal/unsafehelpers"
)

type hasher[K comparable] struct {
	seed maphash.Seed
}

func newHasher[K comparable]() hasher[K] {
	return hasher[K]{seed: maphash.MakeSeed()}
}

// hash returns (primary, conflict).  Both are deterministic for the lifetime
// of the cache; the primary is additionally seeded per cache instance.
func (h hasher[K]) hash(key K) (uint64, uint64) {
	// Type switch avoids reflection for the common key kinds.
	switch k := any(key).(type) {
	case string:
		return maphash.String(h.seed, k), xxhash.Sum64String(k)
	default:
		// Scalars hash over their in-memory representation.  The view is only
		// alive for the duration of the two hash calls.
		b := unsafehelpers.ByteSliceFrom(unsafe.Pointer(&key), unsafe.Sizeof(key))
		return maphash.Bytes(h.seed, b), xxhash.Sum64(b)
	}
}
