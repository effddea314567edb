// Package metrics defines and registers all custom Prometheus metrics for the
// food-network API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package init
// via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "food_network"

// ── Locator metrics ───────────────────────────────────────────────────────────

// LocatorQueriesTotal counts ranking requests.
// Labels:
//   - intent: "donor" or "receiver"
//   - mode: "sorted" when a position was supplied, "unsorted" otherwise
var LocatorQueriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "locator_queries_total",
		Help:      "Total number of machine locator queries.",
	},
	[]string{"intent", "mode"},
)

// LocatorEmptyResultsTotal counts locator queries that matched no machine.
var LocatorEmptyResultsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "locator_empty_results_total",
		Help:      "Total number of locator queries with no qualifying machine.",
	},
	[]string{"intent"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthVerificationsTotal counts token verification outcomes.
// Label:
//   - result: "ok", "invalid", "revoked" or "error"
var AuthVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_verifications_total",
		Help:      "Total number of access token verifications, by result.",
	},
	[]string{"result"},
)

// ── Telemetry metrics ─────────────────────────────────────────────────────────

// TelemetryProcessedTotal counts heartbeats that completed processing.
// Label:
//   - status: the machine status applied by the heartbeat
var TelemetryProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "telemetry_processed_total",
		Help:      "Total number of machine heartbeats successfully processed.",
	},
	[]string{"status"},
)

// TelemetryErrorsTotal counts heartbeats that were dropped or failed.
// Label:
//   - reason: "machine_not_found", "stale", "update_failed"
var TelemetryErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "telemetry_errors_total",
		Help:      "Total number of machine heartbeats that failed or were dropped.",
	},
	[]string{"reason"},
)

// TelemetryDedupTotal counts deduplication decisions ("hit" or "miss").
var TelemetryDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "telemetry_dedup_total",
		Help:      "Total number of deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// TelemetryQueueDepth tracks pending heartbeats in each worker channel.
var TelemetryQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "telemetry_queue_depth",
		Help:      "Current number of heartbeats pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// TelemetryProcessingDuration measures dequeue-to-persistence time.
var TelemetryProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "telemetry_processing_duration_seconds",
		Help:      "Duration of heartbeat processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"status"},
)

// ── Food metrics ──────────────────────────────────────────────────────────────

// FoodItemsTotal counts food item movements.
// Label:
//   - action: "donated", "dispensed" or "removed"
var FoodItemsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "food_items_total",
		Help:      "Total number of food items moved, by action.",
	},
	[]string{"action"},
)
