package cache

// loaderfunc.go defines LoaderFunc – the user-supplied callback that produces
// a value when Cache.GetOrLoad misses.  It lives in its own file so that it
// can be referenced by both cache.go and loader.go without clutter.
//
// • The function must not re-enter the same Cache it serves, otherwise
//   deadlock on the facade lock may occur.
// • It should honour the provided context for cancellation and deadlines.
// • If the loader returns an error, the value is not stored and the error is
//   propagated to the caller of GetOrLoad.
//
// © 2025 skipcache authors. MIT License.

import "context"

// LoaderFunc is invoked by GetOrLoad when a key is absent.  The same
// LoaderFunc instance may be invoked concurrently for different keys; it must
// therefore be thread-safe.
type LoaderFunc[K comparable, V any] func(ctx context.Context, key K) (V, error)
