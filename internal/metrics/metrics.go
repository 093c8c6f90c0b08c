package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for paddock
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Provider Metrics
	ProviderRequestsTotal *prometheus.CounterVec

	// Flow Metrics
	FlowRunsTotal        *prometheus.CounterVec
	FlowRunDuration      *prometheus.HistogramVec
	ChangeEventsTotal    *prometheus.CounterVec
	ClassFetchFailures   prometheus.Counter
	EntriesSyncedTotal   *prometheus.CounterVec
	AlertPublishFailures prometheus.Counter
}

// NewMetricsRegistry registers every metric on reg. Tests pass a fresh
// prometheus.NewRegistry() so registrations never collide.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paddock_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "paddock_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "paddock_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		ProviderRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paddock_provider_requests_total",
				Help: "Show data provider calls by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),

		// Flow Metrics
		FlowRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paddock_flow_runs_total",
				Help: "Flow runs by flow name and outcome",
			},
			[]string{"flow", "outcome"},
		),
		FlowRunDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "paddock_flow_run_duration_seconds",
				Help:    "Flow run duration in seconds",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{"flow"},
		),
		ChangeEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paddock_change_events_total",
				Help: "Change events emitted by class monitoring, by type",
			},
			[]string{"type"},
		),
		ClassFetchFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "paddock_class_fetch_failures_total",
				Help: "Live class fetches that failed and were skipped for the cycle",
			},
		),
		EntriesSyncedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paddock_entries_synced_total",
				Help: "Entry rows written by the morning sync, by outcome",
			},
			[]string{"outcome"},
		),
		AlertPublishFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "paddock_alert_publish_failures_total",
				Help: "Alert batches that could not be published to the stream",
			},
		),
	}
}
