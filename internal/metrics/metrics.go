// Package metrics defines the Prometheus collectors exported by the service.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "scry"

var (
	// WordsSavedTotal counts successful saves, including re-saves that reset a schedule.
	WordsSavedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vocabulary_words_saved_total",
		Help:      "Total number of words saved by users.",
	})

	// ReviewsTotal counts answered reviews by quality.
	ReviewsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vocabulary_reviews_total",
		Help:      "Total number of answered reviews by quality.",
	}, []string{"quality"})

	// TransitionsTotal counts scheduling transitions by kind.
	TransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vocabulary_transitions_total",
		Help:      "Total number of schedule transitions by kind.",
	}, []string{"transition"})

	// ProgressFailuresTotal counts study events whose progress update failed.
	ProgressFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "progress_update_failures_total",
		Help:      "Study events that could not be recorded in progress statistics.",
	}, []string{"event_type"})

	// DueItems is the number of items due across all users at the last sweep.
	DueItems = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "vocabulary_due_items",
		Help:      "Items due for review across all users at the last backlog sweep.",
	})

	// SweepDurationSeconds observes how long a backlog sweep takes.
	SweepDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "vocabulary_sweep_duration_seconds",
		Help:      "Duration of the due-backlog sweep query.",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	})

	// RequestDurationSeconds observes API handler latency by route.
	RequestDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Handler duration for API requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// MustRegister registers every collector with reg.
func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		WordsSavedTotal,
		ReviewsTotal,
		TransitionsTotal,
		ProgressFailuresTotal,
		DueItems,
		SweepDurationSeconds,
		RequestDurationSeconds,
	)
}
