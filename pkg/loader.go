package cache

// loader.go implements the *singleflight*-based de-duplication layer behind
// Cache.GetOrLoad: when many goroutines request the same missing key
// simultaneously, only one loader executes and the rest wait for its result.
//
// We wrap x/sync/singleflight in a generic helper so that keys remain
// strongly typed while singleflight still gets its string key — we use the
// 64-bit primary hash already computed by the facade.
//
// © 2025 skipcache authors. MIT License.

import (
	"context"
	"strconv"

	"golang.org/x/sync/singleflight"
)

/*
   ---------------- Public types ----------------
*/

// LoadResult holds the outcome of an asynchronous load.  Shared == true means
// the same loader result was delivered to more than one caller.
type LoadResult[V any] struct {
	Value  V
	Err    error
	Shared bool
}

/*
   ---------------- loaderGroup ----------------
*/

type loaderGroup[K comparable, V any] struct {
	g singleflight.Group
}

func newLoaderGroup[K comparable, V any]() *loaderGroup[K, V] {
	return &loaderGroup[K, V]{}
}

// load executes fn exactly once for the given key hash across all goroutines.
// Every waiter receives the same value / error.
func (lg *loaderGroup[K, V]) load(
	ctx context.Context,
	keyHash uint64,
	key K,
	fn LoaderFunc[K, V],
) (val V, err error, shared bool) {
	k := strconv.FormatUint(keyHash, 16)
	res, err, shared := lg.g.Do(k, func() (any, error) {
		return fn(ctx, key)
	})
	if err != nil {
		return val, err, shared
	}
	if ctx.Err() != nil {
		return val, ctx.Err(), shared
	}
	return res.(V), nil, shared
}

// loadAsync returns a typed channel delivering a LoadResult.  Internally it
// relies on singleflight.DoChan.
func (lg *loaderGroup[K, V]) loadAsync(
	ctx context.Context,
	keyHash uint64,
	key K,
	fn LoaderFunc[K, V],
) <-chan LoadResult[V] {
	out := make(chan LoadResult[V], 1)
	k := strconv.FormatUint(keyHash, 16)

	ch := lg.g.DoChan(k, func() (any, error) {
		// DoChan does not propagate ctx; the loader may still honour its own.
		return fn(context.Background(), key)
	})

	go func() {
		select {
		case res := <-ch:
			if res.Err != nil {
				out <- LoadResult[V]{Err: res.Err, Shared: res.Shared}
			} else {
				out <- LoadResult[V]{Value: res.Val.(V), Shared: res.Shared}
			}
		case <-ctx.Done():
			// We do NOT cancel the underlying call – another waiter might
			// still need the result.  Just propagate the ctx error.
			out <- LoadResult[V]{Err: ctx.Err()}
		}
		close(out)
	}()
	return out
}

/*
   ---------------- Cache surface ----------------
*/

// GetOrLoad returns the cached value or loads it via fn, storing the result.
// Concurrent callers for the same key share one loader execution.
func (c *Cache[K, V]) GetOrLoad(ctx context.Context, key K, fn LoaderFunc[K, V]) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	keyHash, _ := c.hash.hash(key)
	v, err, _ := c.group.load(ctx, keyHash, key, fn)
	if err != nil {
		var zero V
		return zero, err
	}
	c.Set(key, v)
	return v, nil
}

// GetOrLoadChan is the asynchronous variant of GetOrLoad.  The returned
// channel delivers exactly one LoadResult and is then closed.
func (c *Cache[K, V]) GetOrLoadChan(ctx context.Context, key K, fn LoaderFunc[K, V]) <-chan LoadResult[V] {
	out := make(chan LoadResult[V], 1)
	if v, ok := c.Get(key); ok {
		out <- LoadResult[V]{Value: v}
		close(out)
		return out
	}
	keyHash, _ := c.hash.hash(key)
	inner := c.group.loadAsync(ctx, keyHash, key, fn)
	go func() {
		res := <-inner
		if res.Err == nil {
			c.Set(key, res.Value)
		}
		out <- res
		close(out)
	}()
	return out
}
