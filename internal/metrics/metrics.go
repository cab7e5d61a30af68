// Package metrics holds the domain collectors of the dashboard: how many
// exports are produced per format and how long they take, and how feedback
// loads behave. HTTP-level metrics live in the middleware package.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels exports that produced a file.
	OutcomeSuccess = "success"
	// OutcomeEmpty labels exports short-circuited because the view was empty.
	OutcomeEmpty = "empty"
	// OutcomeError labels exports that failed to load or serialize.
	OutcomeError = "error"
)

var (
	exportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "feedback_dashboard",
			Name:      "exports_total",
			Help:      "Total number of export requests, partitioned by format and outcome.",
		},
		[]string{"format", "outcome"},
	)

	exportDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "feedback_dashboard",
			Name:      "export_duration_seconds",
			Help:      "Time spent serializing an export, in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"format"},
	)

	loadFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "feedback_dashboard",
			Name:      "feedback_load_failures_total",
			Help:      "Total number of failed feedback collection reads.",
		},
	)

	recordsLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "feedback_dashboard",
			Name:      "feedback_records_loaded",
			Help:      "Number of feedback records returned by the latest successful load.",
		},
	)
)

// Register attaches the dashboard collectors to the supplied registerer.
// Registering twice is not an error.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		exportsTotal,
		exportDurationSeconds,
		loadFailuresTotal,
		recordsLoaded,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveExport records one export attempt. Duration is only observed for
// successful exports.
func ObserveExport(format, outcome string, duration time.Duration) {
	switch outcome {
	case OutcomeSuccess, OutcomeEmpty:
	default:
		outcome = OutcomeError
	}
	exportsTotal.WithLabelValues(format, outcome).Inc()
	if outcome != OutcomeSuccess {
		return
	}
	if duration < 0 {
		duration = 0
	}
	exportDurationSeconds.WithLabelValues(format).Observe(duration.Seconds())
}

// ObserveLoad records the result of one collection read.
func ObserveLoad(records int, err error) {
	if err != nil {
		loadFailuresTotal.Inc()
		return
	}
	recordsLoaded.Set(float64(records))
}
