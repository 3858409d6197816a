// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const DefaultNamespace = "agentboard"

// Refresh cycle outcomes.
const (
	OutcomeSuccess        = "success"
	OutcomePartialFailure = "partial_failure"
	OutcomeFailure        = "failure"
	OutcomeCooldown       = "cooldown"
)

// Metrics holds all Prometheus metrics of the service.
type Metrics struct {
	// Fetch client metrics
	HTTPRequests  *prometheus.CounterVec
	CacheLookups  *prometheus.CounterVec
	FetchFailures *prometheus.CounterVec
	RateLimited   *prometheus.CounterVec

	// Refresh metrics
	RefreshCycles   *prometheus.CounterVec
	RefreshDuration prometheus.Histogram
	BuildFailures   prometheus.Counter

	// Store metrics
	StoreAgents     prometheus.Gauge
	LastRefreshTime prometheus.Gauge
}

// NewMetrics creates the metrics and registers them on reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "nadfun",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP attempts against the market API",
		}, []string{"endpoint", "code"}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "nadfun",
			Name:      "cache_lookups_total",
			Help:      "Total number of TTL cache lookups",
		}, []string{"endpoint", "result"}),
		FetchFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "nadfun",
			Name:      "fetch_failures_total",
			Help:      "Total number of fetches that gave up after retries",
		}, []string{"endpoint"}),
		RateLimited: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "nadfun",
			Name:      "rate_limited_total",
			Help:      "Total number of 429 responses",
		}, []string{"endpoint"}),
		RefreshCycles: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "cycles_total",
			Help:      "Total number of refresh requests by outcome",
		}, []string{"outcome"}),
		RefreshDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "duration_seconds",
			Help:      "Duration of refresh cycles",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		}),
		BuildFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "build_failures_total",
			Help:      "Total number of agents that could not be built",
		}),
		StoreAgents: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "agents",
			Help:      "Number of agents in the current snapshot",
		}),
		LastRefreshTime: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "last_refresh_timestamp_seconds",
			Help:      "Unix time of the last snapshot swap",
		}),
	}
}

// Discard returns metrics registered on a private registry, for callers that
// do not export them.
func Discard() *Metrics {
	return NewMetrics("", prometheus.NewRegistry())
}
