// Package metrics holds Prometheus instruments that are used across the
// application.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_sessions",
			Help: "Number of browser sessions currently resolved in memory.",
		})

	MagicLinkRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "magic_link_requests_total",
			Help: "Magic-link requests by flow (signin, signup) and outcome (ok, invalid, error).",
		},
		[]string{"flow", "outcome"},
	)

	ValidationFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_validation_failures_total",
			Help: "Whole-form validation failures by form ID.",
		},
		[]string{"form"},
	)

	LookupCacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lookup_cache_hits_total",
			Help: "Remote-lookup cache hits.",
		})

	LookupCacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lookup_cache_misses_total",
			Help: "Remote-lookup cache misses (including expired entries).",
		})

	SessionEvictTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "session_evict_total",
			Help: "Cumulative number of session providers evicted from the cache.",
		})
)

func init() {
	prometheus.MustRegister(
		ActiveSessions,
		MagicLinkRequestsTotal,
		ValidationFailuresTotal,
		LookupCacheHitsTotal,
		LookupCacheMissesTotal,
		SessionEvictTotal,
	)
}
