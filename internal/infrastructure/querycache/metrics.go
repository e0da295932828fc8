package querycache

import "github.com/prometheus/client_golang/prometheus"

const (
	resultHit    = "hit"
	resultMiss   = "miss"
	resultBypass = "bypass"
	resultError  = "error"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "querycache_requests_total",
			Help: "Query cache lookups by collection and result",
		},
		[]string{"collection", "result"},
	)

	invalidationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "querycache_invalidations_total",
			Help: "Query cache invalidations by scope (tag or all)",
		},
		[]string{"scope"},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal)
	prometheus.MustRegister(invalidationsTotal)
}
