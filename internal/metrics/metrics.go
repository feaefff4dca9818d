// Package metrics provides Prometheus observability for the suggestion engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for the application.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

// SuggestRequestsTotal counts engine runs by outcome.
var SuggestRequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "suggest",
	Name:      "requests_total",
	Help:      "Suggestion engine runs by outcome (ok, policy_conflict, error)",
}, []string{"outcome"})

// SuggestDurationSeconds tracks end-to-end engine latency per request.
var SuggestDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "suggest",
	Name:      "duration_seconds",
	Help:      "Time taken to produce a suggestion list",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
})

// CandidatesEvaluated tracks how many candidate slots each run generated.
var CandidatesEvaluated = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "suggest",
	Name:      "candidates_evaluated",
	Help:      "Candidate slots generated per run before conflict filtering",
	Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500},
})

// CacheRefreshTotal counts appointment snapshot refreshes by result.
var CacheRefreshTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "cache",
	Name:      "refresh_total",
	Help:      "Appointment snapshot refreshes by result (ok, error, stale_fallback)",
}, []string{"result"})

// GeocodeCacheTotal counts geocode lookups by cache result.
var GeocodeCacheTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "geocode",
	Name:      "cache_total",
	Help:      "Geocode lookups by cache result (hit, miss, bypass)",
}, []string{"result"})
