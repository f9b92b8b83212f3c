package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	txDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eventcache_store_tx_duration_seconds",
			Help:    "Duration of cache store transactions by outcome",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)

	txConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eventcache_store_conflicts_total",
			Help: "Total number of cache store transactions that failed with a write conflict",
		},
	)
)

func txDurationLog(d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	txDuration.WithLabelValues(status).Observe(d.Seconds())
}

func txConflictInc() {
	txConflicts.Inc()
}
