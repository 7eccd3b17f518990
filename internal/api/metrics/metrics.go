// Package metrics defines the custom Prometheus metrics exposed by cartd.
// HTTP request metrics come from echoprometheus; everything here is domain
// level. Metrics register with the default registry at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cartsync"

// CartWritesTotal counts cart collection writes.
// Labels:
//   - op: "create", "replace" or "delete"
//   - result: "ok", "forbidden", "not_found", "conflict", "invalid" or "error"
var CartWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_writes_total",
		Help:      "Total number of cart record writes, by operation and result.",
	},
	[]string{"op", "result"},
)

// CartConflictsTotal counts POST /cart calls rejected because the user
// already owns a record. Clients recover with a lookup and PUT, so a rising
// rate points at racing first-writes from one account.
var CartConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_conflicts_total",
		Help:      "Total number of cart creates rejected with 409.",
	},
)

// CartLinesWritten observes the number of lines in each stored cart.
var CartLinesWritten = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "cart_lines_written",
		Help:      "Distinct lines per cart record written.",
		Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
	},
)

// AuthAttemptsTotal counts register and login calls.
// Labels:
//   - kind: "login" or "register"
//   - result: "ok", "invalid_credentials", "not_found", "exists" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by kind and result.",
	},
	[]string{"kind", "result"},
)

// OrdersPlacedTotal counts checkout attempts.
// Labels:
//   - result: "ok", "forbidden", "not_found", "invalid" or "error"
var OrdersPlacedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_placed_total",
		Help:      "Total number of checkout attempts, by result.",
	},
	[]string{"result"},
)
