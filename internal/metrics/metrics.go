// Package metrics holds the Prometheus collectors shared by the cache,
// resolver, backend registry and animation controller.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modelrt",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups by result (hit, miss)",
		},
		[]string{"cache", "result"},
	)

	CacheEvictions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modelrt",
			Subsystem: "cache",
			Name:      "evictions_total",
			Help:      "Entries removed by eviction, by reason (lru, idle, clear)",
		},
		[]string{"cache", "reason"},
	)

	CacheDisposeFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modelrt",
			Subsystem: "cache",
			Name:      "dispose_failures_total",
			Help:      "Disposer calls that returned an error or panicked",
		},
		[]string{"cache"},
	)

	CacheSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "modelrt",
			Subsystem: "cache",
			Name:      "entries",
			Help:      "Current number of cache entries",
		},
		[]string{"cache"},
	)

	ClipResolves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modelrt",
			Subsystem: "clip",
			Name:      "resolves_total",
			Help:      "Clip resolutions by result (cached, loaded, missing)",
		},
		[]string{"result"},
	)

	BackendCreates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modelrt",
			Subsystem: "backend",
			Name:      "creates_total",
			Help:      "Model construction attempts by backend and outcome",
		},
		[]string{"backend", "outcome"},
	)

	BackendCreateDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "modelrt",
			Subsystem: "backend",
			Name:      "create_duration_seconds",
			Help:      "Synchronous model construction time",
			Buckets:   []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"backend"},
	)

	LayerTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modelrt",
			Subsystem: "anim",
			Name:      "layer_transitions_total",
			Help:      "Animation layer transitions by layer and target state",
		},
		[]string{"layer", "state"},
	)

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modelrt",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of debug HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "modelrt",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of debug HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		CacheLookups, CacheEvictions, CacheDisposeFailures, CacheSize,
		ClipResolves,
		BackendCreates, BackendCreateDuration,
		LayerTransitions,
		HTTPRequests, HTTPRequestDuration,
	)
}
