package rpc

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	attempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventcache_rpc_attempts_total",
		Help: "JSON-RPC calls sent to the node, retries included, by method",
	}, []string{"method"})

	failures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventcache_rpc_failures_total",
		Help: "Failed JSON-RPC attempts by method and error class",
	}, []string{"method", "class"})

	retries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventcache_rpc_retries_total",
		Help: "Retries scheduled after a transient failure, by method",
	}, []string{"method"})

	callDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "eventcache_rpc_call_duration_seconds",
		Help:    "Wall time of a JSON-RPC call including retries and backoff",
		Buckets: prometheus.ExponentialBuckets(0.005, 3, 10), //nolint:mnd
	}, []string{"method"})
)

// observeAttempt counts one attempt of method and, when it failed, its error class.
func observeAttempt(method string, err error) {
	attempts.WithLabelValues(method).Inc()
	if err != nil {
		failures.WithLabelValues(method, errorType(err)).Inc()
	}
}

func observeCall(method string, start time.Time) {
	callDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

func retryInc(method string) {
	retries.WithLabelValues(method).Inc()
}
