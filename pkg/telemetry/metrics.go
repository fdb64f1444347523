package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// Module provides the metrics sink registered on the default registry.
var Module = fx.Provide(func() *Metrics {
	return NewMetrics(prometheus.DefaultRegisterer)
})

// Metrics is the explicit metrics sink injected into the status cache and
// tariff lifecycle instead of package-level collectors.
type Metrics struct {
	StatusCacheHits   prometheus.Counter
	StatusCacheMisses prometheus.Counter
	LifecycleEvents   *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

// NewMetrics registers all collectors on the given registerer. Tests pass a
// fresh registry to avoid duplicate registration panics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StatusCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tariff_status_cache_hits_total",
			Help: "Tariff status lookups answered from cache.",
		}),
		StatusCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tariff_status_cache_misses_total",
			Help: "Tariff status lookups that ran the classifier.",
		}),
		LifecycleEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tariff_lifecycle_events_total",
			Help: "Tariff lifecycle mutations by triggering event.",
		}, []string{"event"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.StatusCacheHits,
			m.StatusCacheMisses,
			m.LifecycleEvents,
			m.HTTPDuration,
		)
	}
	return m
}

// CacheHit records a status cache hit. Safe on a nil sink.
func (m *Metrics) CacheHit() {
	if m != nil {
		m.StatusCacheHits.Inc()
	}
}

// CacheMiss records a status cache miss. Safe on a nil sink.
func (m *Metrics) CacheMiss() {
	if m != nil {
		m.StatusCacheMisses.Inc()
	}
}

// Lifecycle records one lifecycle mutation. Safe on a nil sink.
func (m *Metrics) Lifecycle(event string) {
	if m != nil {
		m.LifecycleEvents.WithLabelValues(event).Inc()
	}
}
