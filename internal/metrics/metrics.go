// Package metrics holds the process-wide Prometheus collectors, exposed on
// GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "healthboard_http_requests_total",
		Help: "HTTP requests served, by method, route pattern and status class.",
	}, []string{"method", "route", "status"})

	ScoreComputations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "healthboard_score_computations_total",
		Help: "Health score computations performed.",
	})

	ScorePersistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "healthboard_score_persist_failures_total",
		Help: "Computed scores that could not be persisted (still returned to callers).",
	})
)
