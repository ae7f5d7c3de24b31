// Package metrics provides centralized Prometheus metrics registry for the ticket entry tool.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PlaysAddedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "beast_reader",
		Name:      "plays_added_total",
		Help:      "Total number of plays added to the session",
	}, []string{"source"})
	PlaysRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "beast_reader",
		Name:      "plays_rejected_total",
		Help:      "Total number of plays rejected because the play limit would be exceeded",
	}, []string{"source"})
	PlaysRemovedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "beast_reader",
		Name:      "plays_removed_total",
		Help:      "Total number of plays removed from the session",
	})
	TicketsIssuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "beast_reader",
		Name:      "tickets_issued_total",
		Help:      "Total number of tickets issued",
	})
	OCRRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "beast_reader",
		Name:      "ocr_requests_total",
		Help:      "Total number of ticket image interpretations",
	}, []string{"status"})
	PersistenceOperationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "beast_reader",
		Name:      "persistence_operations_total",
		Help:      "Total number of session load and save operations",
	}, []string{"backend", "operation", "status"})
)

// Gauge metrics
var (
	SessionPlays = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "beast_reader",
		Name:      "session_plays",
		Help:      "Number of plays currently in the session",
	})
	SessionGrandTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "beast_reader",
		Name:      "session_grand_total",
		Help:      "Current grand total of the session in currency units",
	})
	SessionEffectiveTracks = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "beast_reader",
		Name:      "session_effective_tracks",
		Help:      "Number of selected tracks that multiply the ticket total",
	})
	OpenTracks = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "beast_reader",
		Name:      "open_tracks",
		Help:      "Number of catalog tracks still accepting plays for the session date",
	}, []string{"category"})
	OCRCacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "beast_reader",
		Name:      "ocr_cache_hit_ratio",
		Help:      "Ticket image interpretation cache hit ratio",
	})
)

// Histogram metrics
var (
	OCRLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "beast_reader",
		Name:      "ocr_latency_seconds",
		Help:      "Latency of ticket image interpretation in seconds",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
	})
	PersistenceLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "beast_reader",
		Name:      "persistence_latency_seconds",
		Help:      "Latency of session persistence operations in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"backend", "operation"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(PlaysAddedTotal)
		registry.MustRegister(PlaysRejectedTotal)
		registry.MustRegister(PlaysRemovedTotal)
		registry.MustRegister(TicketsIssuedTotal)
		registry.MustRegister(OCRRequestsTotal)
		registry.MustRegister(PersistenceOperationsTotal)

		// Register gauge metrics
		registry.MustRegister(SessionPlays)
		registry.MustRegister(SessionGrandTotal)
		registry.MustRegister(SessionEffectiveTracks)
		registry.MustRegister(OpenTracks)
		registry.MustRegister(OCRCacheHitRatio)

		// Register histogram metrics
		registry.MustRegister(OCRLatency)
		registry.MustRegister(PersistenceLatency)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPlaysAdded records plays entering the session.
func RecordPlaysAdded(source string, count int) {
	PlaysAddedTotal.WithLabelValues(source).Add(float64(count))
}

// RecordPlaysRejected records plays refused by the capacity check.
func RecordPlaysRejected(source string, count int) {
	PlaysRejectedTotal.WithLabelValues(source).Add(float64(count))
}

// RecordPlaysRemoved records removed plays.
func RecordPlaysRemoved(count int) {
	PlaysRemovedTotal.Add(float64(count))
}

// RecordTicketIssued records an issued ticket.
func RecordTicketIssued() {
	TicketsIssuedTotal.Inc()
}

// RecordOCRRequest records an interpretation outcome and its latency.
func RecordOCRRequest(status string, durationSeconds float64) {
	OCRRequestsTotal.WithLabelValues(status).Inc()
	OCRLatency.Observe(durationSeconds)
}

// RecordPersistence records a session load or save.
func RecordPersistence(backend, operation string, err error, durationSeconds float64) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	PersistenceOperationsTotal.WithLabelValues(backend, operation, status).Inc()
	PersistenceLatency.WithLabelValues(backend, operation).Observe(durationSeconds)
}

// UpdateSession updates the session gauges.
func UpdateSession(plays int, grandTotal float64, effectiveTracks int) {
	SessionPlays.Set(float64(plays))
	SessionGrandTotal.Set(grandTotal)
	SessionEffectiveTracks.Set(float64(effectiveTracks))
}

// UpdateOpenTracks updates the open track gauge for a category.
func UpdateOpenTracks(category string, count int) {
	OpenTracks.WithLabelValues(category).Set(float64(count))
}

// UpdateOCRCacheHitRatio updates the OCR cache hit ratio gauge.
func UpdateOCRCacheHitRatio(ratio float64) {
	OCRCacheHitRatio.Set(ratio)
}
