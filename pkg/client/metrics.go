package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for outbound marketplace calls.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ml_requests_total",
		Help: "Total marketplace requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ml_request_duration_seconds",
		Help:    "Marketplace request duration in seconds by endpoint, retries included",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"endpoint"})

	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ml_retries_total",
		Help: "Total number of retry attempts by reason",
	}, []string{"reason"})

	retryBackoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ml_retry_backoff_seconds",
		Help:    "Backoff delay before retries by reason",
		Buckets: []float64{0.25, 0.5, 1, 2, 4, 8},
	}, []string{"reason"})

	retryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ml_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted by reason",
	}, []string{"reason"})

	reviewWarningsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ml_review_warnings_total",
		Help: "Degraded review fetches by warning kind",
	}, []string{"kind"})

	reviewsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ml_reviews_in_flight",
		Help: "Review fetches currently in flight",
	})
)
