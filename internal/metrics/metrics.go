// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

// Package metrics provides Prometheus instrumentation for the HTTP API,
// the SQLite data layer, the feed engine, and the media store. Collectors
// register on the default registry via promauto; the /metrics endpoint
// exposes them in Prometheus text format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sqlite_query_duration_seconds",
			Help:    "Duration of SQLite queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Feed engine metrics
	FeedGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_generation_duration_seconds",
			Help:    "End-to-end feed composition duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	FeedPostsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_posts_served_total",
			Help: "Total number of feed posts served by category",
		},
		[]string{"category"},
	)

	FeedGenerationErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_generation_errors_total",
			Help: "Total number of failed feed compositions",
		},
	)

	// Cache metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry)",
		},
		[]string{"cache_type"},
	)

	// Media store metrics
	MediaOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_operations_total",
			Help: "Total number of media store operations",
		},
		[]string{"operation", "outcome"}, // outcome: "ok", "error", "rejected"
	)

	MediaBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_breaker_open",
			Help: "1 when the media store circuit breaker is open, 0 otherwise",
		},
	)
)

// RecordDBQuery records a database query duration.
func RecordDBQuery(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordFeedGeneration records one feed composition: its duration, the
// number of posts served per category, and whether it failed.
func RecordFeedGeneration(duration time.Duration, categoryCounts map[string]int, err error) {
	if err != nil {
		FeedGenerationErrors.Inc()
		return
	}
	FeedGenerationDuration.Observe(duration.Seconds())
	for category, n := range categoryCounts {
		FeedPostsServed.WithLabelValues(category).Add(float64(n))
	}
}

// RecordCacheHit records a cache hit for the given cache type.
func RecordCacheHit(cacheType string) {
	CacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss records a cache miss for the given cache type.
func RecordCacheMiss(cacheType string) {
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordCacheEviction records a TTL eviction for the given cache type.
func RecordCacheEviction(cacheType string) {
	CacheEvictions.WithLabelValues(cacheType).Inc()
}

// RecordMediaOperation records a media store operation outcome.
func RecordMediaOperation(operation, outcome string) {
	MediaOperations.WithLabelValues(operation, outcome).Inc()
}

// SetMediaBreakerOpen reflects the media circuit breaker state.
func SetMediaBreakerOpen(open bool) {
	if open {
		MediaBreakerState.Set(1)
	} else {
		MediaBreakerState.Set(0)
	}
}
