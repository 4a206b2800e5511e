package cache

// config.go defines the internal configuration object and the set of
// functional options that can be passed to New[K,V].  A generic Option is
// used so that callbacks retain full type-safety with respect to the concrete
// key and value types chosen by the user.
//
// Design notes
// ------------
// • All fields are initialised with sensible defaults in defaultConfig().
// • Options never allocate unless strictly necessary – they just capture
//   pointers to external objects (registry, logger …).
// • The struct is hidden from the public API: users influence behaviour only
//   via Option[K,V], which keeps us forward compatible.
//
// © 2025 skipcache authors. MIT License.

import (
	"errors"
	"math"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// EvictCallback is invoked whenever an item leaves the cache involuntarily —
// displaced from the segmented LRU (ReasonCapacity) or refused by the
// admission filter (ReasonRejected).  The callback runs in the calling
// goroutine under the facade lock and **must not block** or re-enter the
// cache; defer heavy IO to another goroutine.
type EvictCallback[K comparable, V any] func(key K, value V, reason EvictReason)

// Option is the functional option passed to New.
type Option[K comparable, V any] func(*config[K, V])

// config bundles every knob that influences cache behaviour.  All fields are
// immutable once the Cache is constructed.
type config[K comparable, V any] struct {
	size int

	// optional knobs
	registry       *prometheus.Registry
	logger         *zap.Logger
	evictCb        EvictCallback[K, V]
	agingThreshold int32
}

/*
   ---------------- Default configuration ----------------
*/

// The sketch and doorkeeper are aged once per this many Get samples unless
// overridden.
const defaultAgingFactor = 10

func defaultConfig[K comparable, V any](size int) *config[K, V] {
	threshold := int64(size) * defaultAgingFactor
	if threshold > math.MaxInt32 {
		threshold = math.MaxInt32
	}
	if threshold < 1 {
		threshold = 1
	}
	return &config[K, V]{
		size:           size,
		agingThreshold: int32(threshold),
		logger:         zap.NewNop(),
		registry:       nil, // user must opt-in to metrics
	}
}

/*
   ---------------- Functional options exposed to users ----------------
*/

// WithMetrics enables Prometheus metrics collection for the cache instance.
// Passing nil disables metrics (default).
func WithMetrics[K comparable, V any](reg *prometheus.Registry) Option[K, V] {
	return func(c *config[K, V]) {
		c.registry = reg
	}
}

// WithLogger plugs an external zap.Logger.  The cache never logs on the hot
// path; only construction and aging resets are emitted, at Debug.
func WithLogger[K comparable, V any](l *zap.Logger) Option[K, V] {
	return func(c *config[K, V]) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithEvictCallback registers a function invoked for every admission
// rejection and capacity eviction.
func WithEvictCallback[K comparable, V any](cb EvictCallback[K, V]) Option[K, V] {
	return func(c *config[K, V]) {
		c.evictCb = cb
	}
}

// WithAgingThreshold overrides how many Get samples pass between halvings of
// the frequency sketch (and clears of the doorkeeper).
func WithAgingThreshold[K comparable, V any](n int32) Option[K, V] {
	return func(c *config[K, V]) {
		c.agingThreshold = n
	}
}

/*
   ---------------- Helper: apply options & validate ----------------
*/

func applyOptions[K comparable, V any](cfg *config[K, V], opts []Option[K, V]) error {
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.size <= 0 {
		return errInvalidSize
	}
	if cfg.agingThreshold <= 0 {
		return errInvalidThreshold
	}
	return nil
}

/*
   ---------------- Error values ----------------
*/

var (
	errInvalidSize      = errors.New("cache size must be > 0")
	errInvalidThreshold = errors.New("aging threshold must be > 0")
)
