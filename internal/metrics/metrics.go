// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"strconv"
	"time"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipeapi_http_requests_total",
			Help: "Total number of HTTP requests by route, method and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipeapi_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RecipeVersionsAppended = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipeapi_recipe_versions_appended_total",
			Help: "Total number of recipe versions written",
		},
	)

	RatingRecomputes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipeapi_rating_recomputes_total",
			Help: "Total number of recipe rating aggregate recomputations",
		},
	)

	TrendingCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipeapi_trending_cache_lookups_total",
			Help: "Trending cache lookups by result",
		},
		[]string{"result"},
	)

	NotificationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipeapi_notifications_failed_total",
			Help: "Notifications that could not be stored or mailed",
		},
		[]string{"stage"},
	)
)

func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func RecordTrendingCache(hit bool) {
	if hit {
		TrendingCacheLookups.WithLabelValues("hit").Inc()
		return
	}
	TrendingCacheLookups.WithLabelValues("miss").Inc()
}
