// Package metrics provides Prometheus metrics for ingestion and the read API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "parliament_interests"

var (
	// UpstreamRequestsTotal tracks page requests sent to the parliament APIs
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Total number of upstream page requests by source and status code",
		},
		[]string{"source", "status_code"},
	)

	// UpstreamRequestDuration tracks upstream request latency
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Duration of upstream page requests in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"source"},
	)

	// RecordsFetchedTotal tracks raw records yielded by the paginator
	RecordsFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "records_fetched_total",
			Help:      "Total number of raw records fetched from upstream",
		},
		[]string{"source"},
	)

	// EntitiesUpsertedTotal tracks rows merged into the store
	EntitiesUpsertedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "entities_upserted_total",
			Help:      "Total number of entities upserted by table",
		},
		[]string{"table"},
	)

	// BatchesCommittedTotal tracks merge batches by outcome
	BatchesCommittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "batches_total",
			Help:      "Total number of merge batches by pass and status",
		},
		[]string{"pass", "status"},
	)

	// RunDuration tracks whole ingestion runs
	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "run_duration_seconds",
			Help:      "Duration of ingestion runs in seconds",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		},
		[]string{"status"},
	)

	// DanglingReferences reports references left unresolved after the last run
	DanglingReferences = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "dangling_references",
			Help:      "Number of rows whose foreign key does not resolve after the last run",
		},
		[]string{"reference"},
	)

	// SearchRequestsTotal tracks read API and tool calls
	SearchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "requests_total",
			Help:      "Total number of search requests by operation and status",
		},
		[]string{"operation", "status"},
	)
)

// RecordUpstreamRequest records an outbound page request
func RecordUpstreamRequest(source, statusCode string, durationSeconds float64) {
	UpstreamRequestsTotal.WithLabelValues(source, statusCode).Inc()
	UpstreamRequestDuration.WithLabelValues(source).Observe(durationSeconds)
}

func RecordRecordsFetched(source string, count int) {
	RecordsFetchedTotal.WithLabelValues(source).Add(float64(count))
}

func RecordEntitiesUpserted(table string, count int) {
	EntitiesUpsertedTotal.WithLabelValues(table).Add(float64(count))
}

func RecordBatch(pass, status string) {
	BatchesCommittedTotal.WithLabelValues(pass, status).Inc()
}

func RecordRun(status string, durationSeconds float64) {
	RunDuration.WithLabelValues(status).Observe(durationSeconds)
}

func SetDanglingReferences(reference string, count int64) {
	DanglingReferences.WithLabelValues(reference).Set(float64(count))
}

func RecordSearch(operation, status string) {
	SearchRequestsTotal.WithLabelValues(operation, status).Inc()
}
