// Package metrics defines the Prometheus metrics of the expense ledger. All
// metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "expense_ledger"

// AuthOutcomesTotal counts register and login attempts.
// Labels:
//   - operation: "register" or "login"
//   - result: "success", "validation", "duplicate", "not_found", "invalid_credential"
var AuthOutcomesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_outcomes_total",
		Help:      "Total number of register and login attempts by result.",
	},
	[]string{"operation", "result"},
)

// LogoutsTotal counts logout calls, including no-op ones.
var LogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of logout calls.",
	},
)

// SessionsExpiredTotal counts sessions dropped by lazy expiry detection.
var SessionsExpiredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_expired_total",
		Help:      "Total number of expired sessions removed on access.",
	},
)

// PersistenceFailuresTotal counts writes the storage backend rejected.
// Label:
//   - document: "users" or "session"
var PersistenceFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "persistence_failures_total",
		Help:      "Total number of rejected storage writes by document.",
	},
	[]string{"document"},
)

// CorruptDocumentsTotal counts stored documents that failed to decode.
var CorruptDocumentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "corrupt_documents_total",
		Help:      "Total number of stored documents discarded as corrupt.",
	},
	[]string{"document"},
)

// ExpenseMutationsTotal counts changes to a user's record collection.
// Label:
//   - operation: "add", "delete", "clear", "sample", "replace"
var ExpenseMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "expense_mutations_total",
		Help:      "Total number of expense collection mutations by operation.",
	},
	[]string{"operation"},
)
