package fetcher

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	finalizedBlock = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "eventcache_finalized_block",
			Help: "The newest block the cache may advance to, as last reported by the head tracker",
		},
	)

	fetchedLogs = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eventcache_fetched_logs_total",
			Help: "Total number of logs retrieved from the remote source",
		},
	)

	rangeSplits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventcache_fetch_range_splits_total",
			Help: "Total number of block ranges split after a too-many-results response, by strategy",
		},
		[]string{"strategy"},
	)

	fetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "eventcache_fetch_duration_seconds",
			Help:    "Duration of a full range fetch",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		},
	)
)

func FinalizedBlockSet(blockNum uint64) {
	finalizedBlock.Set(float64(blockNum))
}

func fetchedLogsAdd(n int) {
	fetchedLogs.Add(float64(n))
}

func rangeSplitInc(strategy string) {
	rangeSplits.WithLabelValues(strategy).Inc()
}

func fetchDurationObserve(d time.Duration) {
	fetchDuration.Observe(d.Seconds())
}
