// Package metrics holds the Prometheus collectors for recruitdesk.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "recruitdesk"

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)
)

// Store metrics
var (
	// EntitiesCreatedTotal counts created entities by kind (project, profile, publication, cv).
	EntitiesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "entities_created_total",
			Help:      "Total entities created by kind",
		},
		[]string{"kind"},
	)

	PublicationsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "publications_published_total",
			Help:      "Total publish transitions by platform",
		},
		[]string{"platform"},
	)
)

// CV pipeline metrics
var (
	// CVJobsTotal counts finished import jobs by outcome (analyzed, cancelled, failed).
	CVJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cv_pipeline",
			Name:      "jobs_total",
			Help:      "Total CV import jobs by outcome",
		},
		[]string{"outcome"},
	)

	CVJobsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cv_pipeline",
			Name:      "jobs_active",
			Help:      "Number of CV import jobs currently running",
		},
	)

	CVJobDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "cv_pipeline",
			Name:      "job_duration_seconds",
			Help:      "CV import job duration in seconds",
			Buckets:   []float64{.1, .5, 1, 2, 3, 5, 10, 30},
		},
	)
)

const (
	OutcomeAnalyzed  = "analyzed"
	OutcomeCancelled = "cancelled"
	OutcomeFailed    = "failed"

	OutcomeSuperseded = "superseded"
)
