// arena.go implements the bump allocator backing the skiplist.  A single
// contiguous byte buffer holds every node, key and encoded value; everything
// is addressed by 32-bit offsets so a node's forward pointers fit in one
// atomic word per level.  Offset 0 is reserved as the nil handle — the
// high-water mark starts at 1 and only ever grows, so once a region is
// written it is never relocated or reused.
//
// Concurrency: allocation is a single fetch-add on the high-water mark.
// Writers fill their region privately and publish it by CAS-ing its offset
// into a tower slot; readers only reach regions through offsets already
// published, so every read observes fully initialised bytes.
//
// © 2025 skipcache authors. MIT License.

package skl

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/Voskan/skipcache/internal/unsafehelpers"
	"github.com/Voskan/skipcache/pkg/entry"
)

const (
	offsetSize = int(unsafe.Sizeof(uint32(0)))

	// Node records are padded so the packed value word sits on an 8-byte
	// boundary, keeping its atomic loads/stores legal on every platform.
	nodeAlign = int(unsafe.Sizeof(uint64(0)))
)

type arena struct {
	n   atomic.Uint32
	buf []byte
}

// newArena allocates a zeroed buffer of cap bytes.  The first byte is never
// handed out: offset 0 means "no node".
func newArena(cap uint32) *arena {
	a := &arena{buf: make([]byte, cap)}
	a.n.Store(1)
	return a
}

// allocate reserves sz bytes and returns the offset of the region.  The arena
// has a fixed capacity; exhausting it is a configuration error and fatal.
func (a *arena) allocate(sz uint32) uint32 {
	offset := a.n.Add(sz)
	if int(offset) > len(a.buf) {
		panic(fmt.Sprintf("skl: arena capacity exceeded: need %d, cap %d", offset, len(a.buf)))
	}
	return offset - sz
}

func (a *arena) size() int64 {
	return int64(a.n.Load())
}

// putNode reserves space for a node with the given tower height.  Tower slots
// above height are never touched, so their space is simply not allocated.
func (a *arena) putNode(height int) uint32 {
	unusedSize := (maxHeight - height) * offsetSize
	sz := uint32(MaxNodeSize - unusedSize + nodeAlign)
	n := a.allocate(sz)
	return uint32(unsafehelpers.AlignUp(uintptr(n), uintptr(nodeAlign)))
}

func (a *arena) putKey(key []byte) uint32 {
	sz := uint32(len(key))
	offset := a.allocate(sz)
	copy(a.buf[offset:offset+sz], key)
	return offset
}

func (a *arena) putVal(v entry.Value) uint32 {
	sz := v.EncodedSize()
	offset := a.allocate(sz)
	v.Encode(a.buf[offset:])
	return offset
}

// getNode materialises a node view over the buffer.  Offset 0 yields nil.
func (a *arena) getNode(offset uint32) *node {
	if offset == 0 {
		return nil
	}
	return (*node)(unsafe.Pointer(&a.buf[offset]))
}

func (a *arena) getKey(offset uint32, sz uint16) []byte {
	return a.buf[offset : offset+uint32(sz)]
}

// getVal decodes the value stored at [offset, offset+sz).  A malformed expiry
// varint decodes as the zero Value; callers treat that as absent.
func (a *arena) getVal(offset uint32, sz uint32) entry.Value {
	var v entry.Value
	if err := v.Decode(a.buf[offset : offset+sz]); err != nil {
		return entry.Value{}
	}
	return v
}

// getNodeOffset is the inverse of getNode: pointer difference from the buffer
// start.  Nil maps back to the nil handle.
func (a *arena) getNodeOffset(nd *node) uint32 {
	if nd == nil {
		return 0
	}
	return uint32(uintptr(unsafe.Pointer(nd)) - uintptr(unsafe.Pointer(&a.buf[0])))
}
