package db

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

var (
	maintenancePasses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventcache_store_maintenance_passes_total",
		Help: "Maintenance passes run against the SQLite cache database, by outcome",
	}, []string{"outcome"})

	maintenanceDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "eventcache_store_maintenance_duration_seconds",
		Help:    "Duration of maintenance passes, including the wait for in-flight store operations",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 8), //nolint:mnd
	})

	maintenanceLastPass = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "eventcache_store_maintenance_last_pass_timestamp_seconds",
		Help: "Unix time of the last maintenance pass",
	})

	storeFileBytes = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "eventcache_store_file_bytes",
		Help: "Size of the cache database files (db, wal and shm combined) around the last maintenance pass",
	}, []string{"when"})

	walCheckpoints = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventcache_store_wal_checkpoints_total",
		Help: "WAL checkpoints run by maintenance, by checkpoint mode",
	}, []string{"mode"})

	vacuums = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventcache_store_vacuums_total",
		Help: "Successful VACUUM runs",
	})
)

// observeMaintenance records the outcome of one maintenance pass.
func observeMaintenance(report MaintenanceReport, err error) {
	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeError
	}

	maintenancePasses.WithLabelValues(outcome).Inc()
	maintenanceDuration.Observe(report.Duration.Seconds())
	maintenanceLastPass.Set(float64(time.Now().Unix()))
	storeFileBytes.WithLabelValues("before").Set(float64(report.SizeBefore))
	storeFileBytes.WithLabelValues("after").Set(float64(report.SizeAfter))
}
