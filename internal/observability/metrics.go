package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bailanysta_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bailanysta_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// StorageUnavailable counts storage calls that timed out or lost their connection.
	StorageUnavailable = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bailanysta_storage_unavailable_total",
		Help: "Storage operations failed with a transient error",
	}, []string{"operation"})

	// FeedAssemblyLatency records end-to-end feed page assembly time by view.
	FeedAssemblyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bailanysta_feed_assembly_latency_seconds",
		Help:    "Feed page assembly latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"view"})

	// InvalidCursorRecoveries counts feed requests whose cursor was discarded.
	InvalidCursorRecoveries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bailanysta_invalid_cursor_recoveries_total",
		Help: "Feed requests restarted from the top because the cursor could not be decoded",
	})

	// EngagementMutations counts like/unlike/repost calls by outcome (applied, noop, error).
	EngagementMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bailanysta_engagement_mutations_total",
		Help: "Engagement mutations by action and outcome",
	}, []string{"action", "outcome"})

	// SearchResults observes how many posts matched a search query.
	SearchResults = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bailanysta_search_results",
		Help:    "Number of matched posts per search query",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000},
	})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// TrackFeed returns a function that records feed assembly latency for view.
func TrackFeed(view string) func() {
	start := time.Now()
	return func() {
		FeedAssemblyLatency.WithLabelValues(view).Observe(time.Since(start).Seconds())
	}
}
