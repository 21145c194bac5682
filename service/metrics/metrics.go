// Package metrics holds the Prometheus collectors of the service. Every
// observation method is safe on a nil *Metrics so collaborators may run without it.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stockanalyzer"

const (
	CacheHit    = "hit"
	CacheMiss   = "miss"
	CacheShared = "shared"
)

type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests    *prometheus.CounterVec   // labels: method, route, status
	HTTPDuration    *prometheus.HistogramVec // labels: method, route
	ProviderCalls   *prometheus.CounterVec   // labels: endpoint, outcome
	CacheLookups    *prometheus.CounterVec   // labels: result
	Analyses        *prometheus.CounterVec   // labels: recommendation
	AlertsTriggered prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ProviderCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_calls_total",
			Help:      "Upstream quote provider calls, by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_cache_lookups_total",
			Help:      "Quote cache lookups by result (hit, miss, shared)",
		}, []string{"result"}),
		Analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Recommendations produced, by recommendation",
		}, []string{"recommendation"}),
		AlertsTriggered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_alerts_triggered_total",
			Help:      "Price alerts that fired",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.ProviderCalls,
		m.CacheLookups,
		m.Analyses,
		m.AlertsTriggered,
	)

	return m
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveProviderCall(endpoint, outcome string) {
	if m == nil {
		return
	}
	m.ProviderCalls.WithLabelValues(endpoint, outcome).Inc()
}

func (m *Metrics) ObserveCacheLookup(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveAnalysis(recommendation string) {
	if m == nil {
		return
	}
	m.Analyses.WithLabelValues(recommendation).Inc()
}

func (m *Metrics) ObserveAlertTriggered() {
	if m == nil {
		return
	}
	m.AlertsTriggered.Inc()
}
