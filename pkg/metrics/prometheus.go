package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder records pipeline health counters via Prometheus. Drop and
// fallback counts are the primary observability signal for partial re-runs.
type Recorder struct {
	recordsFetched  *prometheus.CounterVec
	recordsMerged   *prometheus.CounterVec
	articlesDropped *prometheus.CounterVec
	chunksFallback  prometheus.Counter
	errorsTotal     *prometheus.CounterVec
	latency         *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		recordsFetched: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newspulse_records_fetched_total",
				Help: "Records returned by external fetch calls",
			},
			[]string{"kind", "query"},
		),
		recordsMerged: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newspulse_records_merged_total",
				Help: "Records written through the store merge step",
			},
			[]string{"kind"},
		),
		articlesDropped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newspulse_articles_dropped_total",
				Help: "Articles removed by the clean-up filter",
			},
			[]string{"reason"},
		),
		chunksFallback: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "newspulse_translation_chunk_fallbacks_total",
				Help: "Translation chunks degraded to original text",
			},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newspulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "newspulse_operation_duration_seconds",
				Help:    "Duration of pipeline operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordFetched records records returned by an external call.
func (r *Recorder) RecordFetched(kind, query string, n int) {
	r.recordsFetched.WithLabelValues(kind, query).Add(float64(n))
}

// RecordMerged records records persisted via the store merge.
func (r *Recorder) RecordMerged(kind string, n int) {
	r.recordsMerged.WithLabelValues(kind).Add(float64(n))
}

// RecordDropped records articles removed by the filter, by reason
// ("blacklist" or "junk").
func (r *Recorder) RecordDropped(reason string, n int) {
	r.articlesDropped.WithLabelValues(reason).Add(float64(n))
}

// RecordChunkFallback records a translation chunk degraded to original text.
func (r *Recorder) RecordChunkFallback() {
	r.chunksFallback.Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
