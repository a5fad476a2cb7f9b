// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the reactivities API and its client agent.
package observability

import "github.com/prometheus/client_golang/prometheus"

// APIBuckets covers CRUD latencies from 5ms to 10s. The agent's artificial
// delay lands in the upper buckets.
var APIBuckets = []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2, 5, 10}

var (
	// RequestsTotal counts served HTTP requests by method, route pattern and
	// status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reactivities_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration records served HTTP request duration in seconds.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reactivities_request_duration_seconds",
			Help:    "Request duration",
			Buckets: APIBuckets,
		},
		[]string{"method", "route"},
	)

	// InFlightRequests tracks requests currently being served.
	InFlightRequests = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "reactivities_requests_in_flight",
			Help: "Requests being served",
		},
	)

	// AgentRequestsTotal counts client agent calls by method and outcome.
	// Outcome is the HTTP status code, or "error" when no response arrived.
	AgentRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reactivities_agent_requests_total",
			Help: "Agent requests",
		},
		[]string{"method", "outcome"},
	)

	// AgentLatency records agent call latency in seconds, including any
	// configured delay.
	AgentLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reactivities_agent_latency_seconds",
			Help:    "Agent latency",
			Buckets: APIBuckets,
		},
		[]string{"method"},
	)

	// RateLimitRejectedTotal counts requests rejected by the rate limiter.
	RateLimitRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reactivities_ratelimit_rejected_total",
			Help: "Rate limit rejections",
		},
		[]string{"tier"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		InFlightRequests,
		AgentRequestsTotal,
		AgentLatency,
		RateLimitRejectedTotal,
	)
}
