// Package services – Prometheus collectors for the breach-check pipeline.
//
// Cardinality stays bounded: cache lookups are labeled hit/miss, lookups by
// outcome (ok/error) and execution mode (inline/async).
package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// cacheLookups counts dispatcher cache consultations by result.
	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "breach_check_cache_lookups_total",
			Help: "Breach-check cache lookups by result.",
		},
		[]string{"result"},
	)

	// lookups counts external breach-corpus lookups by outcome and mode.
	lookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "breach_lookups_total",
			Help: "External breach-corpus lookups by outcome and execution mode.",
		},
		[]string{"outcome", "mode"},
	)
)

func init() {
	prometheus.MustRegister(cacheLookups, lookups)
}
