package cache

import (
	"github.com/goran-ethernal/EventCache/pkg/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	keysCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eventcache_keys_created_total",
			Help: "Total number of cache keys created by estimates",
		},
	)

	logsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventcache_logs_served_total",
			Help: "Total number of logs returned by the cache, by source",
		},
		[]string{"source"},
	)

	entriesCommitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventcache_commit_records_total",
			Help: "Records handed to commits, by outcome",
		},
		[]string{"outcome"},
	)

	watermarkAdvance = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "eventcache_watermark_advance_blocks",
			Help:    "Number of blocks a commit advanced the watermark by",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10), //nolint:mnd
		},
	)

	storeRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventcache_store_retries_total",
			Help: "Total number of retries after store conflicts, by operation",
		},
		[]string{"operation"},
	)
)

func keysCreatedInc() {
	keysCreated.Inc()
}

func cachedLogsAdd(n int) {
	logsServed.WithLabelValues("cache").Add(float64(n))
}

func fetchedLogsAdd(n int) {
	logsServed.WithLabelValues("remote").Add(float64(n))
}

func commitLog(r cache.CommitResult) {
	entriesCommitted.WithLabelValues("stored").Add(float64(r.Stored))
	entriesCommitted.WithLabelValues("duplicate").Add(float64(r.Duplicates))
	entriesCommitted.WithLabelValues("below_watermark").Add(float64(r.Regressed))
	entriesCommitted.WithLabelValues("out_of_range").Add(float64(r.OutOfRange))

	if r.Watermark > r.PreviousWatermark {
		watermarkAdvance.Observe(float64(r.Watermark - r.PreviousWatermark))
	}
}

func storeRetryInc(operation string) {
	storeRetries.WithLabelValues(operation).Inc()
}
