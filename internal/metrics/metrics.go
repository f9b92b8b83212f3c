package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes of a served query.
const (
	OutcomeOK           = "ok"
	OutcomePerformError = "perform_error"
	OutcomeUpdateError  = "update_error"
)

var (
	startTime = time.Now()

	queriesServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventcache_queries_total",
		Help: "Queries served, by the engine that won the estimate and the outcome",
	}, []string{"engine", "outcome"})

	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "eventcache_query_duration_seconds",
		Help:    "Duration of a query from bind to release, by serving engine",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 14), //nolint:mnd
	}, []string{"engine"})

	engineCost = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "eventcache_engine_last_cost",
		Help: "Last cost estimated by each engine",
	}, []string{"engine"})

	logsReturned = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventcache_logs_returned_total",
		Help: "Logs returned to callers, by serving engine",
	}, []string{"engine"})

	componentErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventcache_errors_total",
		Help: "Errors that were logged and tolerated, by component and severity",
	}, []string{"component", "severity"})

	_ = promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "eventcache_uptime_seconds",
		Help: "Seconds since the process started",
	}, func() float64 { return time.Since(startTime).Seconds() })
)

// QueryServedInc counts a query served by engine with the given outcome.
func QueryServedInc(engine, outcome string) {
	queriesServed.WithLabelValues(engine, outcome).Inc()
}

func QueryDurationLog(engine string, duration time.Duration) {
	queryDuration.WithLabelValues(engine).Observe(duration.Seconds())
}

func EngineCostSet(engine string, cost uint64) {
	engineCost.WithLabelValues(engine).Set(float64(cost))
}

func LogsReturnedAdd(engine string, count int) {
	logsReturned.WithLabelValues(engine).Add(float64(count))
}

func ErrorsInc(component, severity string) {
	componentErrors.WithLabelValues(component, severity).Inc()
}
