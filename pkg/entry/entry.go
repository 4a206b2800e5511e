// Package entry defines the record types shared by the skiplist and the cache
// front-end: the user-facing Entry, the arena-encoded Value and its binary
// codec, plus the timestamp-suffixed key framing helpers.
//
// Encoded layout of a Value inside the arena:
//
//	[meta: 1 byte][expires_at: unsigned LEB128, 1..=10 bytes][payload: rest]
//
// The total length is never stored here — the skiplist node carries it in its
// packed value handle, so the codec is framed externally.  Version is an API
// surface field only; it travels in the 8-byte key suffix and is never
// serialised by this codec.
//
// © 2025 skipcache authors. MIT License.

package entry

import (
	"encoding/binary"
	"errors"
)

// ErrMalformedValue is returned when the expiry varint overflows 64 bits.
// Callers must discard the value.
var ErrMalformedValue = errors.New("entry: malformed value encoding")

// Value is the unit stored in the arena on behalf of a key.
type Value struct {
	Meta      byte
	Val       []byte
	ExpiresAt uint64
	Version   uint64 // not serialised; derived from the key suffix on read
}

// EncodedSize returns the number of bytes Encode will write.
func (v *Value) EncodedSize() uint32 {
	return uint32(1 + sizeVarint(v.ExpiresAt) + len(v.Val))
}

// Encode writes the value into b, which must be at least EncodedSize() long.
// It returns the number of bytes written.
func (v *Value) Encode(b []byte) uint32 {
	b[0] = v.Meta
	sz := binary.PutUvarint(b[1:], v.ExpiresAt)
	n := copy(b[1+sz:], v.Val)
	return uint32(1 + sz + n)
}

// Decode is the inverse of Encode.  The payload slice aliases b; callers that
// outlive b must copy it.
func (v *Value) Decode(b []byte) error {
	v.Meta = b[0]
	expiresAt, sz := binary.Uvarint(b[1:])
	if sz <= 0 {
		return ErrMalformedValue
	}
	v.ExpiresAt = expiresAt
	v.Val = b[1+sz:]
	return nil
}

// sizeVarint mirrors the byte count of binary.PutUvarint.  Zero encodes as a
// single zero byte.
func sizeVarint(x uint64) int {
	n := 1
	for x >= 0x80 {
		x >>= 7
		n++
	}
	return n
}

// Entry is the user-facing record handed to SkipList.Add and yielded by its
// iterator.  Key must already carry the 8-byte timestamp suffix; see
// KeyWithTs.
type Entry struct {
	Key       []byte
	Value     []byte
	ExpiresAt uint64
	Meta      byte
	Version   uint64
}

// NewEntry builds an Entry with zeroed metadata.
func NewEntry(key, value []byte) *Entry {
	return &Entry{Key: key, Value: value}
}
