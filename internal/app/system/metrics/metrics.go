// Package metrics holds the Prometheus collectors for user actions.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActionDuration records action latency by action name and outcome.
	ActionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "threadhub_action_duration_seconds",
		Help:    "User action latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"action", "outcome"})

	// ActionFailures counts failed actions by action name and error kind.
	ActionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "threadhub_action_failures_total",
		Help: "Total number of failed user actions",
	}, []string{"action", "kind"})

	// MongoConnects counts connection attempts by result.
	MongoConnects = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "threadhub_mongo_connects_total",
		Help: "Total number of MongoDB connection attempts",
	}, []string{"result"})
)

// Track returns a function that records the action's latency when called
// (e.g. defer). The returned function takes the action's final error.
func Track(action string) func(err error, kind string) {
	start := time.Now()
	return func(err error, kind string) {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			ActionFailures.WithLabelValues(action, kind).Inc()
		}
		ActionDuration.WithLabelValues(action, outcome).Observe(time.Since(start).Seconds())
	}
}
