// Package metrics exposes Prometheus collectors for HTTP traffic and outbound calls.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stock_research"

// Metrics holds the collectors registered on one registry.
// A nil *Metrics is valid and records nothing, which keeps tests free of setup.
type Metrics struct {
	registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	requestCount    *prometheus.CounterVec

	financeCalls    *prometheus.CounterVec
	financeDuration *prometheus.HistogramVec
	cacheLookups    *prometheus.CounterVec

	llmCalls    *prometheus.CounterVec
	llmDuration *prometheus.HistogramVec

	supersededRequests *prometheus.CounterVec
	prunedLogs         prometheus.Counter
}

// New creates a Metrics instance backed by a fresh registry with the Go runtime collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"route", "method", "status"},
		),
		requestCount: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),

		financeCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "finance_api_calls_total",
				Help:      "Outbound finance API calls by endpoint and outcome",
			},
			[]string{"endpoint", "outcome"},
		),
		financeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "finance_api_duration_seconds",
				Help:      "Duration of outbound finance API calls",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 15},
			},
			[]string{"endpoint"},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "finance_cache_lookups_total",
				Help:      "Quote and chart cache lookups by result",
			},
			[]string{"kind", "result"},
		),

		llmCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "llm_calls_total",
				Help:      "Language model calls by provider, purpose and outcome",
			},
			[]string{"provider", "purpose", "outcome"},
		),
		llmDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "llm_duration_seconds",
				Help:      "Duration of language model calls",
				Buckets:   []float64{.25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"provider", "purpose"},
		),

		supersededRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "superseded_requests_total",
				Help:      "Requests cancelled because a newer one from the same user arrived",
			},
			[]string{"kind"},
		),
		prunedLogs: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "activity_logs_pruned_total",
				Help:      "Activity log entries removed by retention",
			},
		),
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(route, method, code).Observe(duration.Seconds())
	m.requestCount.WithLabelValues(route, method, code).Inc()
}

// ObserveFinanceCall records one outbound finance API call.
func (m *Metrics) ObserveFinanceCall(endpoint string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.financeCalls.WithLabelValues(endpoint, outcome(err)).Inc()
	m.financeDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// ObserveCacheLookup records a quote or chart cache hit or miss.
func (m *Metrics) ObserveCacheLookup(kind string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(kind, result).Inc()
}

// ObserveLLMCall records one language model call.
func (m *Metrics) ObserveLLMCall(provider, purpose string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.llmCalls.WithLabelValues(provider, purpose, outcome(err)).Inc()
	m.llmDuration.WithLabelValues(provider, purpose).Observe(duration.Seconds())
}

// ObserveSuperseded counts a request cancelled by a newer one.
func (m *Metrics) ObserveSuperseded(kind string) {
	if m == nil {
		return
	}
	m.supersededRequests.WithLabelValues(kind).Inc()
}

// AddPrunedLogs counts activity log rows removed by retention.
func (m *Metrics) AddPrunedLogs(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.prunedLogs.Add(float64(n))
}
