package cache

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetGet(t *testing.T) {
	c, err := New[string, string](100)
	require.NoError(t, err)

	require.True(t, c.Set("k", "v"))
	got, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, "v", got)

	_, ok = c.Get("absent")
	require.False(t, ok)
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New[string, string](0)
	require.Error(t, err)

	_, err = New[string, string](10, WithAgingThreshold[string, string](-1))
	require.Error(t, err)
}

func TestSetUpdatesInPlace(t *testing.T) {
	c, err := New[string, int](100)
	require.NoError(t, err)

	c.Set("k", 1)
	c.Set("k", 2)

	got, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, 2, got)
	require.Equal(t, 1, c.Len())
}

func TestDel(t *testing.T) {
	c, err := New[string, string](100)
	require.NoError(t, err)

	c.Set("k", "v")
	_, conflict := c.hash.hash("k")

	got, ok := c.Del("k")
	require.True(t, ok)
	require.Equal(t, conflict, got)

	_, ok = c.Get("k")
	require.False(t, ok)

	_, ok = c.Del("k")
	require.False(t, ok)
}

func TestDeletedKeyIsNotResurrected(t *testing.T) {
	c, err := New[string, string](4)
	require.NoError(t, err)

	c.Set("victim", "v")
	c.Del("victim")

	// Churn the window so the stale slot rotates through the admission path.
	for i := 0; i < 32; i++ {
		c.Set(fmt.Sprintf("churn-%d", i), "v")
	}

	_, ok := c.Get("victim")
	require.False(t, ok)
}

func TestAdmissionKeepsHotKey(t *testing.T) {
	c, err := New[string, string](100)
	require.NoError(t, err)

	require.True(t, c.Set("hot", "stay"))

	// 200 distinct one-hit keys churn the window while the hot key is read
	// 50 times in between.
	for i := 0; i < 200; i++ {
		c.Set(fmt.Sprintf("cold-%d", i), "x")
		if i%4 == 3 {
			_, ok := c.Get("hot")
			require.True(t, ok)
		}
	}

	got, ok := c.Get("hot")
	require.True(t, ok)
	require.Equal(t, "stay", got)
	require.LessOrEqual(t, c.Len(), 100)
}

func TestMapAndListsStayInLockstep(t *testing.T) {
	c, err := New[int, int](50)
	require.NoError(t, err)

	for i := 0; i < 500; i++ {
		c.Set(i, i)
		if i%3 == 0 {
			c.Get(i / 2)
		}
	}

	// Without deletes, the map and the three lists must describe the same
	// population.
	total := c.lru.list.Len() + c.slru.len()
	require.Equal(t, len(c.data), total)

	seen := make(map[uint64]bool)
	for e := c.lru.list.Front(); e != nil; e = e.Next() {
		item := e.Value.(*storeItem[int, int])
		require.Equal(t, stageWindow, item.stage)
		require.Same(t, e, c.data[item.keyHash])
		seen[item.keyHash] = true
	}
	for e := c.slru.stageOne.Front(); e != nil; e = e.Next() {
		item := e.Value.(*storeItem[int, int])
		require.Equal(t, stageOne, item.stage)
		require.Same(t, e, c.data[item.keyHash])
		seen[item.keyHash] = true
	}
	for e := c.slru.stageTwo.Front(); e != nil; e = e.Next() {
		item := e.Value.(*storeItem[int, int])
		require.Equal(t, stageTwo, item.stage)
		require.Same(t, e, c.data[item.keyHash])
		seen[item.keyHash] = true
	}
	require.Len(t, seen, len(c.data))
}

func TestEvictCallbackFiresOnRejection(t *testing.T) {
	type evicted struct {
		key    string
		reason EvictReason
	}
	var events []evicted

	c, err := New[string, string](1, WithEvictCallback[string, string](
		func(key string, _ string, reason EvictReason) {
			events = append(events, evicted{key, reason})
		}))
	require.NoError(t, err)

	c.Set("a", "1") // fills the window
	c.Set("b", "2") // a moves into the (empty) SLRU
	c.Set("c", "3") // b is the window victim; never seen before → rejected

	require.NotEmpty(t, events)
	require.Equal(t, "b", events[0].key)
	require.Equal(t, ReasonRejected, events[0].reason)
	require.Equal(t, uint64(1), c.Stats().Rejections)
}

func TestAgingResetsFrequencyState(t *testing.T) {
	c, err := New[string, string](10, WithAgingThreshold[string, string](3))
	require.NoError(t, err)

	c.Set("k", "v")
	c.Get("k")
	c.Get("k")
	require.Equal(t, uint64(0), c.Stats().Resets)
	c.Get("k") // third sample trips the threshold
	require.Equal(t, uint64(1), c.Stats().Resets)
}

func TestStatsCounters(t *testing.T) {
	c, err := New[string, string](100)
	require.NoError(t, err)

	c.Set("k", "v")
	c.Get("k")
	c.Get("nope")

	st := c.Stats()
	require.Equal(t, uint64(1), st.Hits)
	require.Equal(t, uint64(1), st.Misses)
	require.Equal(t, 1, st.Keys)
}
