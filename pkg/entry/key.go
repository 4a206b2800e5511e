// key.go implements the versioned key framing used by the skiplist.  External
// keys carry an 8-byte big-endian suffix equal to ^ts so that newer versions
// of the same user key sort before older ones.  All skiplist comparisons
// assume this framing; only the head sentinel may carry a shorter key.
//
// © 2025 skipcache authors. MIT License.

package entry

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// KeyWithTs appends the encoded timestamp suffix to key.
func KeyWithTs(key []byte, ts uint64) []byte {
	out := make([]byte, len(key)+8)
	copy(out, key)
	binary.BigEndian.PutUint64(out[len(key):], ^ts)
	return out
}

// ParseKey strips the timestamp suffix.  Keys shorter than 8 bytes are
// returned verbatim (head sentinel only).
func ParseKey(key []byte) []byte {
	if len(key) < 8 {
		return key
	}
	return key[:len(key)-8]
}

// ParseTs recovers the timestamp from a framed key.
func ParseTs(key []byte) uint64 {
	if len(key) <= 8 {
		return 0
	}
	return ^binary.BigEndian.Uint64(key[len(key)-8:])
}

// SameKey checks for key equality ignoring the version suffix.
func SameKey(src, dst []byte) bool {
	if len(src) != len(dst) {
		return false
	}
	return bytes.Equal(ParseKey(src), ParseKey(dst))
}

// CompareKeys compares framed keys: the user prefix first, then — only on a
// tie — the 8-byte suffix, which orders equal user keys by descending
// timestamp.  Both keys must carry the suffix.
func CompareKeys(key1, key2 []byte) int {
	if len(key1) < 8 || len(key2) < 8 {
		panic(fmt.Sprintf("entry: keys missing timestamp suffix: %q, %q", key1, key2))
	}
	if cmp := bytes.Compare(key1[:len(key1)-8], key2[:len(key2)-8]); cmp != 0 {
		return cmp
	}
	return bytes.Compare(key1[len(key1)-8:], key2[len(key2)-8:])
}
