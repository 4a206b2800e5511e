package cache

// metrics.go contains a thin abstraction over Prometheus so that skipcache
// can be used with or without metrics.  When the user passes a
// *prometheus.Registry via WithMetrics(reg), we create the collectors and
// register them; otherwise a no-op sink is used and the hot path does not pay
// for metric updates.
//
// Metric names follow Prometheus best practices, suffixed with "_total" for
// counters.
//
// ┌──────────────────────────────────────────┐
// │ Metric                          │ Type   │
// ├─────────────────────────────────┼────────┤
// │ skipcache_hits_total            │ Ctr    │
// │ skipcache_misses_total          │ Ctr    │
// │ skipcache_evictions_total       │ Ctr    │
// │ skipcache_rejections_total      │ Ctr    │
// │ skipcache_aging_resets_total    │ Ctr    │
// │ skipcache_keys                  │ Gge    │
// └──────────────────────────────────────────┘
//
// © 2025 skipcache authors. MIT License.

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metricsSink is an internal interface abstracting away the concrete backend
// (Prometheus vs noop).  Cache only knows about the generic methods here.
type metricsSink interface {
	incHit()
	incMiss()
	incEvict()
	incReject()
	incReset()
	setKeys(n int)
}

/*
   ---------------- No-op implementation ----------------
*/

type noopMetrics struct{}

func (noopMetrics) incHit()    {}
func (noopMetrics) incMiss()   {}
func (noopMetrics) incEvict()  {}
func (noopMetrics) incReject() {}
func (noopMetrics) incReset()  {}
func (noopMetrics) setKeys(int) {}

/*
   ---------------- Prometheus implementation ----------------
*/

type promMetrics struct {
	hits       prometheus.Counter
	misses     prometheus.Counter
	evictions  prometheus.Counter
	rejections prometheus.Counter
	resets     prometheus.Counter
	keys       prometheus.Gauge
}

func newPromMetrics(reg *prometheus.Registry) *promMetrics {
	pm := &promMetrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "skipcache",
			Name:      "hits_total",
			Help:      "Number of cache hits.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "skipcache",
			Name:      "misses_total",
			Help:      "Number of cache misses (absent keys and hash collisions).",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "skipcache",
			Name:      "evictions_total",
			Help:      "Number of items displaced from the segmented LRU.",
		}),
		rejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "skipcache",
			Name:      "rejections_total",
			Help:      "Number of window victims refused by TinyLFU admission.",
		}),
		resets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "skipcache",
			Name:      "aging_resets_total",
			Help:      "Number of frequency aging resets.",
		}),
		keys: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "skipcache",
			Name:      "keys",
			Help:      "Resident keys.",
		}),
	}

	reg.MustRegister(pm.hits, pm.misses, pm.evictions, pm.rejections, pm.resets, pm.keys)
	return pm
}

func (m *promMetrics) incHit()       { m.hits.Inc() }
func (m *promMetrics) incMiss()      { m.misses.Inc() }
func (m *promMetrics) incEvict()     { m.evictions.Inc() }
func (m *promMetrics) incReject()    { m.rejections.Inc() }
func (m *promMetrics) incReset()     { m.resets.Inc() }
func (m *promMetrics) setKeys(n int) { m.keys.Set(float64(n)) }

/*
   ---------------- Factory ----------------
*/

// newMetricsSink decides which implementation to use.
func newMetricsSink(reg *prometheus.Registry) metricsSink {
	if reg == nil {
		return noopMetrics{}
	}
	return newPromMetrics(reg)
}
