// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Classification metrics
	TransactionsProcessed prometheus.Counter
	SwapsClassified       *prometheus.CounterVec // by confidence
	SplitPairsClassified  prometheus.Counter
	ErasuresRecorded      *prometheus.CounterVec // by reason
	PayloadDecodeErrors   prometheus.Counter

	// Stream metrics
	StreamNotifications prometheus.Counter
	HighestSlotSeen     prometheus.Gauge

	// Latency metrics
	ClassificationLatency prometheus.Histogram
	PersistLatency        *prometheus.HistogramVec // by store

	// Publishing metrics
	LegsPublished prometheus.Counter
	PublishErrors prometheus.Counter

	// Health metrics
	LastSuccessfulClassification prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "swap_classifier"
	}

	return &Metrics{
		TransactionsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "transactions_processed_total",
			Help:      "Total number of transaction payloads processed",
		}),
		SwapsClassified: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "swaps_classified_total",
			Help:      "Total number of legs classified, by confidence",
		}, []string{"confidence"}),
		SplitPairsClassified: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "split_pairs_classified_total",
			Help:      "Total number of two-leg split pairs emitted",
		}),
		ErasuresRecorded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "erasures_recorded_total",
			Help:      "Total number of rejected transactions, by reason",
		}, []string{"reason"}),
		PayloadDecodeErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "payload_decode_errors_total",
			Help:      "Total number of payloads that were not parseable JSON",
		}),

		StreamNotifications: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "stream_notifications_total",
			Help:      "Total number of notifications received from the indexing stream",
		}),
		HighestSlotSeen: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "highest_slot_seen",
			Help:      "Highest Solana slot number seen",
		}),

		ClassificationLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "classification_latency_seconds",
			Help:      "Time spent classifying one payload",
			Buckets:   prometheus.DefBuckets,
		}),
		PersistLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "persist_latency_seconds",
			Help:      "Time spent persisting one classification result",
			Buckets:   prometheus.DefBuckets,
		}, []string{"store"}),

		LegsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alerting",
			Name:      "legs_published_total",
			Help:      "Total number of legs published to the alert queue",
		}),
		PublishErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alerting",
			Name:      "publish_errors_total",
			Help:      "Total number of failed alert publishes",
		}),

		LastSuccessfulClassification: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_classification_timestamp",
			Help:      "Unix timestamp of the last successfully processed payload",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordTransactionProcessed increments the processed counter.
func RecordTransactionProcessed() {
	DefaultMetrics.TransactionsProcessed.Inc()
}

// RecordSwapClassified counts one classified leg.
func RecordSwapClassified(confidence string) {
	DefaultMetrics.SwapsClassified.WithLabelValues(confidence).Inc()
}

// RecordErasure counts one rejected transaction.
func RecordErasure(reason string) {
	DefaultMetrics.ErasuresRecorded.WithLabelValues(reason).Inc()
}

// UpdateHighestSlot updates the highest slot seen gauge.
func UpdateHighestSlot(slot int64) {
	DefaultMetrics.HighestSlotSeen.Set(float64(slot))
}
