package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"SignalDesk/internal/model"
)

// Metrics holds all Prometheus metrics of the service. Each instance owns its
// registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal    *prometheus.CounterVec   // labels: route, code
	RequestDuration  *prometheus.HistogramVec // labels: route
	SignalsTotal     *prometheus.CounterVec   // labels: decision, recommendation
	ProviderFetches  *prometheus.CounterVec   // labels: provider, result
	ProviderDuration *prometheus.HistogramVec // labels: provider
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	PublishFailures  prometheus.Counter
}

// NewMetrics registers and returns all Prometheus metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signaldesk_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"route", "code"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "signaldesk_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signaldesk_signals_total",
			Help: "Signals generated by decision and recommendation",
		}, []string{"decision", "recommendation"}),
		ProviderFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signaldesk_provider_fetch_total",
			Help: "Market data fetches by provider and result",
		}, []string{"provider", "result"}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "signaldesk_provider_fetch_duration_seconds",
			Help:    "Market data fetch latency per provider",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"provider"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signaldesk_cache_hits_total",
			Help: "Series served from cache",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signaldesk_cache_misses_total",
			Help: "Series not found in cache",
		}),
		PublishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signaldesk_publish_failures_total",
			Help: "Signal events that could not be published",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestsTotal,
		m.RequestDuration,
		m.SignalsTotal,
		m.ProviderFetches,
		m.ProviderDuration,
		m.CacheHits,
		m.CacheMisses,
		m.PublishFailures,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) ObserveRequest(route string, code int, elapsed time.Duration) {
	m.RequestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveSignal(sig model.SignalResult) {
	m.SignalsTotal.WithLabelValues(string(sig.Decision), string(sig.Recommendation)).Inc()
}

func (m *Metrics) ObserveFetch(provider, result string, elapsed time.Duration) {
	m.ProviderFetches.WithLabelValues(provider, result).Inc()
	m.ProviderDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

func (m *Metrics) CacheHit()      { m.CacheHits.Inc() }
func (m *Metrics) CacheMiss()     { m.CacheMisses.Inc() }
func (m *Metrics) PublishFailed() { m.PublishFailures.Inc() }
