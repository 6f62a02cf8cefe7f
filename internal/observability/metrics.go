package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecommendationCandidates records the size of the neighbor pool per request.
	RecommendationCandidates = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cinemate_recommendation_candidates",
		Help:    "Number of candidate neighbors considered per recommendation request",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})

	// RecommendationOverlap records the overlap score of the chosen neighbor.
	RecommendationOverlap = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cinemate_recommendation_best_overlap",
		Help:    "Shared-like count between a user and their best-matching neighbor",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})

	// RecommendationsServed counts recommendation requests by outcome.
	RecommendationsServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cinemate_recommendations_served_total",
		Help: "Total recommendation requests by outcome",
	}, []string{"outcome"})

	// RankingQueryLatency records ranked film query latency by kind.
	RankingQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cinemate_ranking_query_latency_seconds",
		Help:    "Ranked film query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cinemate_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// RedisErrors counts Redis errors by command.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cinemate_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// FeedEventsPublished counts feed events pushed to Redis by result.
	FeedEventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cinemate_feed_events_published_total",
		Help: "Feed events published to subscribers by result",
	}, []string{"result"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// TrackRanking returns a function that records ranking latency for the given kind.
func TrackRanking(kind string) func() {
	start := time.Now()
	return func() {
		RankingQueryLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}
}
