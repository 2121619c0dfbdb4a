package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FunctionRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "function_requests_total",
			Help: "Total number of function invocations by outcome",
		},
		[]string{"function", "status"},
	)

	FunctionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "function_failures_total",
			Help: "Total number of failed invocations by error code and type",
		},
		[]string{"function", "error_code", "error_type"},
	)

	FunctionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "function_duration_seconds",
			Help:    "Duration of function execution in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"function"},
	)

	FunctionsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "function_invocations_active",
			Help: "Number of in-flight invocations per function",
		},
		[]string{"function"},
	)

	RateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_rejections_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"path"},
	)

	RateLimitErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_limit_errors_total",
			Help: "Rate limiter backend errors; requests were let through",
		},
	)
)
