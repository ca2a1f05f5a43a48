package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "perfeval_evaluations_total",
			Help: "Total number of report generation requests by outcome",
		},
		[]string{"status"}, // completed, indexing_failure, retrieval_failure, generation_failure
	)

	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "perfeval_pipeline_stage_duration_seconds",
			Help:    "Duration of each evaluation pipeline stage",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14), // 10ms to ~80s
		},
		[]string{"stage"},
	)

	SegmentsIndexed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "perfeval_segments_indexed_total",
			Help: "Total number of employee log segments sent to the vector store",
		},
	)

	RetrievalSentinelTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "perfeval_retrieval_sentinel_total",
			Help: "Retrievals that found no stored segment for the employee",
		},
	)

	VectorStoreRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "perfeval_vectorstore_requests_total",
			Help: "Total number of vector store calls",
		},
		[]string{"backend", "operation", "status"},
	)

	LLMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "perfeval_llm_requests_total",
			Help: "Total number of LLM API requests",
		},
		[]string{"provider", "model", "status"},
	)

	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "perfeval_llm_request_duration_seconds",
			Help:    "LLM request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~1min
		},
		[]string{"provider", "model"},
	)
)

// Status turns an error into the label value used by the request counters.
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
