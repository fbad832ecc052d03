package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreRequests counts profile store calls by operation and outcome
	StoreRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cinesync",
		Name:      "store_requests_total",
		Help:      "Profile store requests by operation and outcome.",
	}, []string{"op", "outcome"})

	// StoreLatency observes profile store round trips
	StoreLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cinesync",
		Name:      "store_request_seconds",
		Help:      "Profile store request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})

	// CatalogRequests counts catalog calls by endpoint group and outcome
	CatalogRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cinesync",
		Name:      "catalog_requests_total",
		Help:      "Catalog requests by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	// EpisodeToggles counts reconciler runs by requested state and result
	EpisodeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cinesync",
		Name:      "episode_toggles_total",
		Help:      "Episode watch-state reconciliations.",
	}, []string{"watched", "result"})

	// IntegrityAnomalies counts lookups that returned more than one record
	IntegrityAnomalies = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cinesync",
		Name:      "integrity_anomalies_total",
		Help:      "Duplicate records found where at most one was expected.",
	}, []string{"collection"})
)

// Outcome maps an error to a metrics label
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
