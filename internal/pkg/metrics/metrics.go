// Package metrics defines all custom Prometheus metrics for the registration
// API. It is the single source of truth for metric names, labels, and help
// strings.
//
// Call Register once at startup with the registry served on /metrics.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sqliteserver"

// ── Worker pool metrics ──────────────────────────────────────────────────────

// WorkerQueueDepth tracks the number of work items waiting for a worker.
var WorkerQueueDepth = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "worker_queue_depth",
		Help:      "Current number of work items pending in the worker pool queue.",
	},
)

// WorkersBusy tracks how many workers are executing a work item.
var WorkersBusy = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "workers_busy",
		Help:      "Current number of workers executing a work item.",
	},
)

// WorkerTasksTotal counts resolved work items.
// Label:
//   - outcome: "ok", "error", "panic", "expired", "dropped", "rejected" or "closed"
var WorkerTasksTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "worker_tasks_total",
		Help:      "Total number of work items resolved by the worker pool, by outcome.",
	},
	[]string{"outcome"},
)

// WorkerTaskDuration measures execution time of a work item once claimed.
var WorkerTaskDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "worker_task_duration_seconds",
		Help:      "Duration of work item execution on a worker.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Pipeline metrics ─────────────────────────────────────────────────────────

// RegistrationsTotal counts POST /users outcomes.
// Label:
//   - result: "created", "rejected" or "failed"
var RegistrationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration requests, by result.",
	},
	[]string{"result"},
)

// ResourceCacheTotal counts resource cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var ResourceCacheTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resource_cache_total",
		Help:      "Total number of resource cache lookups, by result.",
	},
	[]string{"result"},
)

// Collectors returns every collector defined in this package.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		WorkerQueueDepth,
		WorkersBusy,
		WorkerTasksTotal,
		WorkerTaskDuration,
		RegistrationsTotal,
		ResourceCacheTotal,
	}
}

// Register adds all collectors to reg. Collectors already registered with reg
// are skipped.
func Register(reg prometheus.Registerer) error {
	for _, c := range Collectors() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}
