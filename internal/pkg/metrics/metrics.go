// Package metrics defines and registers all custom Prometheus metrics for the
// storefront API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Store metrics ─────────────────────────────────────────────────────────────

// StoreOperationsTotal counts operations routed through the data access gate.
// Labels:
//   - backend: "primary" or "fallback"
//   - entity: "user", "product", "order", "settings"
//   - op: "find_many", "find_unique", "create", "update", "delete"
//   - result: "ok" or an error kind (e.g. "conflict", "not_found", "unavailable")
var StoreOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_operations_total",
		Help:      "Total number of data access operations, by backend, entity, operation and result.",
	},
	[]string{"backend", "entity", "op", "result"},
)

// StoreOperationDuration measures how long a store call takes, lock wait included.
var StoreOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_operation_duration_seconds",
		Help:      "Duration of data access operations.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"backend", "entity", "op"},
)

// StoreBackend is 1 for the backend selected at startup and 0 for the other.
var StoreBackend = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "store_backend",
		Help:      "Backend serving data for this process (1 = active).",
	},
	[]string{"backend"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthFailuresTotal counts rejected requests at the authorization gate.
// Label:
//   - reason: "missing_token", "invalid_token", "banned", "stale_principal", "not_admin"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected by the authorization gate.",
	},
	[]string{"reason"},
)

// ── Order metrics ─────────────────────────────────────────────────────────────

// OrdersPlacedTotal counts order placement attempts.
// Label:
//   - result: "created", "replayed", or an error kind
var OrdersPlacedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_placed_total",
		Help:      "Total number of order placement attempts, by result.",
	},
	[]string{"result"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of audit entries waiting in each worker channel.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditDroppedTotal counts audit entries dropped because a worker channel was full.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of audit entries dropped on a full queue.",
	},
)
