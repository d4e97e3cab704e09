package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "account_eraser"

// Metrics holds the prometheus collectors of the erasure flow.
type Metrics struct {
	erasures        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	commits         *prometheus.CounterVec
	operations      *prometheus.CounterVec
	storageWarnings prometheus.Counter
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		erasures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "erasures_total",
			Help:      "Number of account deletions, differentiated by outcome.",
		}, []string{"outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "erasure_duration_seconds",
			Help:      "Duration of account deletions.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"outcome"}),
		commits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "write_group_commits_total",
			Help:      "Number of committed write groups per record type.",
		}, []string{"record_type"}),
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "write_operations_total",
			Help:      "Number of committed write operations per record type.",
		}, []string{"record_type"}),
		storageWarnings: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_warnings_total",
			Help:      "Number of absorbed file storage cleanup failures.",
		}),
	}
}

// WriteGroupCommitted records one committed write group of size operations.
func (m *Metrics) WriteGroupCommitted(recordType string, size int) {
	m.commits.WithLabelValues(recordType).Inc()
	m.operations.WithLabelValues(recordType).Add(float64(size))
}

// StorageWarning records an absorbed file cleanup failure.
func (m *Metrics) StorageWarning() {
	m.storageWarnings.Inc()
}

// ErasureFinished records the outcome and duration of a deletion.
func (m *Metrics) ErasureFinished(outcome string, elapsed time.Duration) {
	m.erasures.WithLabelValues(outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// Handler exposes the collectors of g in the prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
