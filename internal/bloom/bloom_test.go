package bloom

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllowRemembersKeys(t *testing.T) {
	f := New(1000, 0.01)

	// First sighting reports "new", second reports "seen".
	require.False(t, f.AllowKey([]byte("A")))
	require.False(t, f.AllowKey([]byte("B")))

	require.True(t, f.MayContainKey([]byte("A")))
	require.True(t, f.MayContainKey([]byte("B")))
	require.False(t, f.MayContainKey([]byte("C")))

	require.True(t, f.AllowKey([]byte("A")))
}

func TestAllowTruncatedHashPath(t *testing.T) {
	f := New(1000, 0.01)
	require.False(t, f.Allow(1234))
	require.True(t, f.Allow(1234))
	require.True(t, f.MayContain(1234))
	require.False(t, f.MayContain(99999))
}

func TestReset(t *testing.T) {
	f := New(1000, 0.01)
	f.AllowKey([]byte("A"))
	require.True(t, f.MayContainKey([]byte("A")))
	f.Reset()
	require.False(t, f.MayContainKey([]byte("A")))
}

func TestNoFalseNegatives(t *testing.T) {
	f := New(1000, 0.01)
	for i := 0; i < 1000; i++ {
		f.Allow(uint32(i))
	}
	for i := 0; i < 1000; i++ {
		require.True(t, f.MayContain(uint32(i)))
	}
}

func TestFalsePositiveRateRoughlyHolds(t *testing.T) {
	f := New(1000, 0.01)
	for i := 0; i < 1000; i++ {
		f.AllowKey([]byte(fmt.Sprintf("member-%d", i)))
	}
	fp := 0
	for i := 0; i < 10000; i++ {
		if f.MayContainKey([]byte(fmt.Sprintf("stranger-%d", i))) {
			fp++
		}
	}
	// Allow generous slack over the configured 1%.
	require.Less(t, fp, 500)
}

func TestOversizedKDisablesFiltering(t *testing.T) {
	f := New(16, 0.01)
	f.k = 31
	require.True(t, f.MayContain(123))
	require.True(t, f.Allow(456))
}
