// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gym_api_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gym_api_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	DBConnectionsOpened = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gym_api_db_connections_opened_total",
			Help: "Total number of database connections opened.",
		},
	)

	DBConnectionFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gym_api_db_connection_failures_total",
			Help: "Total number of failed attempts to open a database connection.",
		},
	)

	DBConnectionsOpen = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gym_api_db_connections_open",
			Help: "Number of database connections currently open.",
		},
	)

	RateLimitHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gym_api_rate_limit_hits_total",
			Help: "Requests rejected by the rate limiter, by route.",
		},
		[]string{"route"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		DBConnectionsOpened,
		DBConnectionFailures,
		DBConnectionsOpen,
		RateLimitHits,
	)
}

func RecordConnectionOpened() {
	DBConnectionsOpened.Inc()
	DBConnectionsOpen.Inc()
}

func RecordConnectionClosed() {
	DBConnectionsOpen.Dec()
}

func RecordConnectionFailure() {
	DBConnectionFailures.Inc()
}

// ObserveHTTPRequest records one finished request. route is the Echo
// route template, not the raw path, to keep label cardinality bounded.
func ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
