// Package metrics declares the prometheus collectors exported by the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	LeadConversions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_conversions_total",
			Help: "Leads converted, by target entity",
		},
		[]string{"target"},
	)

	LeadSyncs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_syncs_total",
			Help: "Lead re-syncs onto materialized records, by target and outcome",
		},
		[]string{"target", "outcome"},
	)

	ConsistencyFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_consistency_failures_total",
			Help: "Counter or link updates that failed after the primary record was written",
		},
		[]string{"step"},
	)

	BulkConversionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lead_bulk_conversion_duration_seconds",
			Help:    "Duration of bulk lead conversions",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"target"},
	)

	DuplicateLeadsRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lead_duplicates_removed_total",
			Help: "Leads deleted by deduplication runs",
		},
	)
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
