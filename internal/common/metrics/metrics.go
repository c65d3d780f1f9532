// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"status"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pipeline_stage_duration_seconds",
			Help: "Duration of pipeline stage execution in seconds",
		},
		[]string{"stage"},
	)

	OracleBatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oracle_batches_total",
			Help: "Total number of oracle batch calls by outcome",
		},
		[]string{"outcome"},
	)

	CandidatesRetrieved = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "candidates_retrieved",
			Help:    "Number of candidates returned by the retrieval stage",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	BudgetWidened = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "retrieval_budget_widened_total",
			Help: "Number of retrievals that widened the budget window",
		},
	)
)
