// Package bench provides reproducible micro-benchmarks for skipcache.
// Run via:  go test ./bench -bench=. -benchmem -cpu 1,4,16
//
// The benchmarks intentionally use a *single* key/value shape so results are
// comparable across versions:
//   • Key   – uint64 (cheap hashing, fits in register)
//   • Value – 64-byte struct (large enough to matter, small enough for cache)
//
// We measure:
//   1. Set          – write-only workload through the admission pipeline
//   2. Get          – read-only workload (after warm-up)
//   3. GetParallel  – concurrent reads behind the facade lock
//   4. GetOrLoad    – 90% hits, 10% misses with loader cost
//   5. SklAdd / SklSearch – the raw skiplist beneath the facade
//
// Results are printed in ns/op + alloc/op so CI can diff via benchstat.
//
// NOTE: Unit tests live next to their packages; this file is *only* for
// performance.
//
// © 2025 skipcache authors. MIT License.

package bench

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"testing"

	cache "github.com/Voskan/skipcache/pkg"
	"github.com/Voskan/skipcache/pkg/entry"
	"github.com/Voskan/skipcache/pkg/skl"
)

/* -------------------------------------------------------------------------
   Test harness helpers
   ------------------------------------------------------------------------- */

type value64 struct {
	_ [64]byte
}

const (
	cacheSize = 1 << 16 // resident keys
	keys      = 1 << 20 // 1M keys for dataset
)

func newTestCache() *cache.Cache[uint64, value64] {
	c, err := cache.New[uint64, value64](cacheSize)
	if err != nil {
		panic(err)
	}
	return c
}

// global dataset reused across benches to avoid reallocating large slices.
// Deterministic seed for repeatability.
var ds = func() []uint64 {
	rnd := rand.New(rand.NewSource(42))
	arr := make([]uint64, keys)
	for i := range arr {
		arr[i] = rnd.Uint64()
	}
	return arr
}()

/* -------------------------------------------------------------------------
   Cache benchmarks
   ------------------------------------------------------------------------- */

func BenchmarkSet(b *testing.B) {
	c := newTestCache()
	val := value64{}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set(ds[i&(keys-1)], val)
	}
	c.Close()
}

func BenchmarkGet(b *testing.B) {
	c := newTestCache()
	val := value64{}
	for _, k := range ds[:cacheSize] {
		c.Set(k, val)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(ds[i&(cacheSize-1)])
	}
	c.Close()
}

func BenchmarkGetParallel(b *testing.B) {
	c := newTestCache()
	val := value64{}
	for _, k := range ds[:cacheSize] {
		c.Set(k, val)
	}
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		idx := rand.Intn(cacheSize)
		for pb.Next() {
			idx = (idx + 1) & (cacheSize - 1)
			c.Get(ds[idx])
		}
	})
	c.Close()
}

func BenchmarkGetOrLoad(b *testing.B) {
	c := newTestCache()
	val := value64{}
	// Preload 90% of the working set to simulate mixed hit/miss.
	for i, k := range ds[:cacheSize] {
		if i%10 != 0 {
			c.Set(k, val)
		}
	}
	var loaderCnt atomic.Uint64
	loader := func(ctx context.Context, key uint64) (value64, error) {
		loaderCnt.Add(1)
		return val, nil
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.GetOrLoad(context.Background(), ds[i&(cacheSize-1)], loader)
	}
	c.Close()
	b.ReportMetric(float64(loaderCnt.Load())/float64(b.N)*100, "miss-%")
}

/* -------------------------------------------------------------------------
   Skiplist benchmarks
   ------------------------------------------------------------------------- */

const sklArena = 1 << 26

func newBenchList(n int) (*skl.SkipList, [][]byte) {
	l := skl.NewSkipList(sklArena)
	ks := make([][]byte, n)
	for i := range ks {
		ks[i] = entry.KeyWithTs([]byte(fmt.Sprintf("key-%08d", i)), 1)
		l.Add(entry.NewEntry(ks[i], []byte("value")))
	}
	return l, ks
}

func BenchmarkSklAdd(b *testing.B) {
	l := skl.NewSkipList(sklArena)
	val := []byte("value")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// Recycle the list when the arena nears exhaustion; each upsert still
		// appends a fresh value encoding.
		if l.MemSize() > sklArena-(1<<16) {
			b.StopTimer()
			l = skl.NewSkipList(sklArena)
			b.StartTimer()
		}
		k := entry.KeyWithTs([]byte(fmt.Sprintf("key-%08d", i&0xffff)), 1)
		l.Add(entry.NewEntry(k, val))
	}
}

func BenchmarkSklSearch(b *testing.B) {
	l, ks := newBenchList(1 << 16)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Search(ks[i&(1<<16-1)])
	}
}

func BenchmarkSklSearchParallel(b *testing.B) {
	l, ks := newBenchList(1 << 16)
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		idx := rand.Intn(1 << 16)
		for pb.Next() {
			idx = (idx + 1) & (1<<16 - 1)
			l.Search(ks[idx])
		}
	})
}
