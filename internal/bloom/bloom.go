// Package bloom implements the doorkeeper in front of the cache's frequency
// sketch: a plain k-probe Bloom filter that remembers whether a key has been
// seen at least once, so one-hit wonders never reach the admission
// comparison.
//
// Sizing uses the closed form m = -n·ln(p)/ln(2)², k = round(m/n · ln2)
// clamped to [1, 30].  Probing uses MurmurHash3-32 and the classic
// double-hashing trick delta = h>>17 | h<<15.
//
// ⛔  This package is *internal* and MUST NOT be imported by user code.
//
// © 2025 skipcache authors. MIT License.

package bloom

import (
	"encoding/binary"
	"math"

	"github.com/spaolacci/murmur3"
)

// Filter is a fixed-size bitset with k probe positions per key.  Not safe for
// concurrent use; the cache facade serialises access.
type Filter struct {
	bitmap []byte
	k      uint8
}

// New sizes the filter for numEntries keys at the given false-positive rate.
func New(numEntries int, falsePositive float64) *Filter {
	bits := bloomBits(numEntries, falsePositive)
	bitsPerKey := int(math.Ceil(bits / float64(numEntries)))
	if bitsPerKey < 0 {
		bitsPerKey = 0
	}

	k := uint8(math.Round(float64(bitsPerKey) * math.Ln2))
	if k < 1 {
		k = 1
	}
	if k > 30 {
		k = 30
	}

	nBits := bitsPerKey * numEntries
	if nBits < 64 {
		nBits = 64
	}
	nBytes := (nBits + 7) / 8

	return &Filter{
		bitmap: make([]byte, nBytes),
		k:      k,
	}
}

// bloomBits returns the bit count satisfying the target false-positive rate:
// m = -n·ln(p)/ln(2)².
func bloomBits(n int, fp float64) float64 {
	return -float64(n) * math.Log(fp) / (math.Ln2 * math.Ln2)
}

// Hash is the probe hash for raw key bytes: MurmurHash3-32.
func Hash(b []byte) uint32 {
	return murmur3.Sum32(b)
}

// Allow records h and reports whether it had been seen before.  False means
// the key is new — the caller treats it as a one-hit-wonder candidate.
func (f *Filter) Allow(h uint32) bool {
	return f.allow(rehash(h))
}

// MayContain reports whether h may have been recorded.  False negatives never
// occur; false positives at the configured rate.
func (f *Filter) MayContain(h uint32) bool {
	return f.mayContain(rehash(h))
}

// AllowKey and MayContainKey operate on raw key bytes.
func (f *Filter) AllowKey(b []byte) bool      { return f.allow(Hash(b)) }
func (f *Filter) MayContainKey(b []byte) bool { return f.mayContain(Hash(b)) }

// Reset forgets every recorded key.  Executed on the cache's aging tick.
func (f *Filter) Reset() {
	for i := range f.bitmap {
		f.bitmap[i] = 0
	}
}

// rehash runs the filter hash over the four little-endian bytes of a
// truncated key hash; the cache feeds us the low 32 bits of its 64-bit hash.
func rehash(h uint32) uint32 {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], h)
	return murmur3.Sum32(b[:])
}

func (f *Filter) allow(h uint32) bool {
	if f.mayContain(h) {
		return true
	}
	f.insert(h)
	return false
}

func (f *Filter) mayContain(h uint32) bool {
	if f.k > 30 {
		// Reserved for potentially new encodings; treat as a match.
		return true
	}
	nBits := uint32(len(f.bitmap) * 8)
	delta := h>>17 | h<<15
	for i := uint8(0); i < f.k; i++ {
		pos := h % nBits
		if f.bitmap[pos/8]&(1<<(pos%8)) == 0 {
			return false
		}
		h += delta
	}
	return true
}

func (f *Filter) insert(h uint32) {
	nBits := uint32(len(f.bitmap) * 8)
	delta := h>>17 | h<<15
	for i := uint8(0); i < f.k; i++ {
		pos := h % nBits
		f.bitmap[pos/8] |= 1 << (pos % 8)
		h += delta
	}
}
