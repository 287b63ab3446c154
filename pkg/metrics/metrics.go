// Package metrics provides the centralized Prometheus metrics registry for
// the marketplace search service. All metrics are defined in their owning
// package (pkg/client) to maintain modularity and avoid circular
// dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the service.
// All metrics are automatically registered via promauto in their owning packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - ml_requests_total{endpoint, status} (Counter): Outbound requests by endpoint
//     ("search", "reviews") and HTTP status ("transport_error" for connection failures)
//   - ml_request_duration_seconds{endpoint} (Histogram): Outbound request duration,
//     retries included
//
// Retry Metrics (pkg/client):
//   - ml_retries_total{reason} (Counter): Retry attempts by reason
//     (rate_limit, server, timeout, network)
//   - ml_retry_backoff_seconds{reason} (Histogram): Backoff delay before retries
//   - ml_retry_exhausted_total{reason} (Counter): Requests that used every attempt
//
// Enrichment Metrics (pkg/client):
//   - ml_review_warnings_total{kind} (Counter): Degraded review fetches by warning
//     kind (forbidden_or_unauthorized, rate_limited, http_error, network_error, cancelled)
//   - ml_reviews_in_flight (Gauge): Review fetches currently in flight
//
// Example Prometheus Queries:
//
//   # Upstream error rate
//   sum(rate(ml_requests_total{status=~"5..|transport_error"}[5m])) /
//   sum(rate(ml_requests_total[5m]))
//
//   # Share of searches degraded by review warnings
//   rate(ml_review_warnings_total[5m])
//
//   # P95 outbound latency per endpoint
//   histogram_quantile(0.95, rate(ml_request_duration_seconds_bucket[5m]))
//
//   # Retry pressure by reason
//   rate(ml_retries_total[5m])
