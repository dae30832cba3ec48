// Package metrics defines the Prometheus counters for authentication and
// user administration. They live in the default registry; WriteTextfile dumps
// them in the node_exporter textfile format when the process exits.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "usermgr"

// Result label values.
const (
	ResultOK     = "ok"
	ResultFailed = "failed"
)

// ── Authentication ───────────────────────────────────────────────────────────

// AuthAttemptsTotal counts login and self-service password change attempts.
// Labels:
//   - kind: "login" or "change_own_password"
//   - result: "ok", "user_not_found", "invalid_credentials", "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by kind and result.",
	},
	[]string{"kind", "result"},
)

// ── Administration ───────────────────────────────────────────────────────────

// AdminOperationsTotal counts administrative operations.
// Labels:
//   - operation: e.g. "add_user", "change_subordinates"
//   - result: "ok" or "failed"
var AdminOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_operations_total",
		Help:      "Total number of user administration operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// AuthorizationDeniedTotal counts operations refused by the permitted-operation table.
var AuthorizationDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denied_total",
		Help:      "Total number of operations refused for the session's role.",
	},
	[]string{"tier", "operation"},
)

// OutOfScopeResetsTotal counts manager password resets aimed at users outside
// the manager's subordinate set.
var OutOfScopeResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "out_of_scope_resets_total",
		Help:      "Manager password resets targeting users outside their subordinates.",
	},
	[]string{"enforced"},
)

// ObserveAdmin records the outcome of an administrative operation.
func ObserveAdmin(operation string, err error) {
	result := ResultOK
	if err != nil {
		result = ResultFailed
	}
	AdminOperationsTotal.WithLabelValues(operation, result).Inc()
}

// WriteTextfile writes every registered metric to path.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
