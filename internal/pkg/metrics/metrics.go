package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ProviderCallsTotal counts outbound calls per provider class and outcome.
	ProviderCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_dashboard_provider_calls_total",
			Help: "Number of outbound provider calls by provider and outcome.",
		},
		[]string{"provider", "outcome"},
	)

	// ProviderRetriesTotal counts retry attempts per provider class.
	ProviderRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_dashboard_provider_retries_total",
			Help: "Number of retried provider calls by provider.",
		},
		[]string{"provider"},
	)

	// CacheLookupsTotal counts resolver cache lookups by cache name and result.
	CacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_dashboard_cache_lookups_total",
			Help: "Number of resolver cache lookups by cache and result.",
		},
		[]string{"cache", "result"},
	)

	// RequestDuration observes REST handler latency.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wallet_dashboard_request_duration_seconds",
			Help:    "REST handler latency by route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)

// MustRegisterMetrics registers all collectors with the default registry.
// Call once from main before serving.
func MustRegisterMetrics() {
	prometheus.MustRegister(
		ProviderCallsTotal,
		ProviderRetriesTotal,
		CacheLookupsTotal,
		RequestDuration,
	)
}

// ObserveCacheLookup records a hit or miss for the named cache.
func ObserveCacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsTotal.WithLabelValues(cache, result).Inc()
}
