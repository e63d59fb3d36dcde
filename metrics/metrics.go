package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ServeStaticRequests counts the requests handled by the serve-static
	// middleware, labelled by outcome: served or delegated
	ServeStaticRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "serve_static_requests_total",
		Help: "The number of requests handled by the serve-static middleware by outcome",
	}, []string{"outcome"})

	// ServeStaticFailures counts the assets the asset server failed to serve
	ServeStaticFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "serve_static_serve_failures_total",
		Help: "The number of matched assets the asset server failed to serve",
	})

	// PathResolutionFailures counts request paths that could not be resolved
	PathResolutionFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "serve_static_path_resolution_failures_total",
		Help: "The number of request paths that could not be resolved against the root",
	})

	// ManifestAssets is the number of assets in the loaded manifest
	ManifestAssets = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "serve_static_manifest_assets",
		Help: "The number of assets in the loaded manifest",
	})

	// ManifestLoadDuration is the time it took to compile the manifest at startup
	ManifestLoadDuration = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "serve_static_manifest_load_duration_seconds",
		Help: "The time (in seconds) it took to load the asset manifest",
	})

	// ServedAssetSize is the size of the asset bodies written to clients
	ServedAssetSize = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "serve_static_served_asset_bytes",
		Help:    "The size in bytes of served assets by content encoding",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
	}, []string{"encoding"})

	// RejectedRequestsCount is the number of requests rejected for an unknown method
	RejectedRequestsCount = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "serve_static_unknown_method_rejected_requests",
		Help: "The number of requests with unknown HTTP method which were rejected",
	})

	// RateLimitSourceIPBlockedCount is the number of requests dropped because
	// their source IP exceeded the rate limit
	RateLimitSourceIPBlockedCount = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "serve_static_rate_limit_source_ip_blocked_count",
		Help: "The number of requests blocked by the source IP rate limiter",
	})

	// RateLimitCachedEntries is the number of limiters held in the cache
	RateLimitCachedEntries = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "serve_static_rate_limit_cached_entries",
		Help: "The number of entries in the rate limiter cache",
	}, []string{"op"})

	// RateLimitCacheRequests counts rate limiter cache lookups by result:
	// hit or miss
	RateLimitCacheRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "serve_static_rate_limit_cache_requests",
		Help: "The number of rate limiter cache lookups by result",
	}, []string{"op", "cache"})
)

// MustRegister collectors with the Prometheus client
func MustRegister() {
	prometheus.MustRegister(
		ServeStaticRequests,
		ServeStaticFailures,
		PathResolutionFailures,
		ManifestAssets,
		ManifestLoadDuration,
		ServedAssetSize,
		RejectedRequestsCount,
		RateLimitSourceIPBlockedCount,
		RateLimitCachedEntries,
		RateLimitCacheRequests,
	)
}
