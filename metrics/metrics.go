// Package metrics provides Prometheus metrics collection for the statcan API.
// It exports HTTP server metrics:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//
// and table fetch metrics:
//   - table_fetch_total: Counter with table, language, and result labels
//     (hit, download, error)
//   - table_fetch_duration_seconds: Histogram of download durations
//   - tables_loaded: Gauge of tables currently held in memory
//
// All metrics are automatically registered with the Prometheus default
// registry during package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	TableFetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "table_fetch_total",
			Help: "Table fetches by outcome (hit, download, error)",
		},
		[]string{"table", "language", "result"},
	)

	TableFetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "table_fetch_duration_seconds",
			Help:    "Table download and extraction latency",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"table", "language"},
	)

	TablesLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tables_loaded",
			Help: "Tables currently held in memory",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (IPs seen recently)",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(TableFetchTotal)
	prometheus.MustRegister(TableFetchDuration)
	prometheus.MustRegister(TablesLoaded)
	prometheus.MustRegister(RateLimiterBucketsTotal)
}
