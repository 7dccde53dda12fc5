// Package metrics defines and registers all custom Prometheus metrics for the
// dynamic report API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dynamicreport/report-api/internal/core/domain"
)

const namespace = "report"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login calls.
// Labels:
//   - method: "password" or "token"
//   - result: "success" or a failure reason (see Reason)
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login calls, by method and result.",
	},
	[]string{"method", "result"},
)

// AuthRejectionsTotal counts protected requests refused by the auth middleware.
// Label:
//   - reason: failure reason (e.g. "token_format", "decryption", "role_missing")
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of protected requests rejected during authentication.",
	},
	[]string{"reason"},
)

// ── Report metrics ────────────────────────────────────────────────────────────

// ReportQueriesTotal counts report calls.
// Labels:
//   - scope: "account" when rows were restricted to the caller, else "all"
//   - result: "success" or a failure reason
var ReportQueriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "queries_total",
		Help:      "Total number of report queries, by scope and result.",
	},
	[]string{"scope", "result"},
)

// ReportQueryDuration measures count + data query time of a report call.
var ReportQueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "query_duration_seconds",
		Help:      "Duration of a report call including both SQL statements.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"scope"},
)

// ReportRowsReturned observes the number of rows in each returned page.
var ReportRowsReturned = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rows_returned",
		Help:      "Number of rows returned per report page.",
		Buckets:   []float64{0, 1, 5, 10, 20, 50, 100, 250, 500, 1000},
	},
)

// Reason converts an error into a low-cardinality label value.
func Reason(err error) string {
	if err == nil {
		return "success"
	}
	var derr *domain.Error
	if !errors.As(err, &derr) {
		return "internal"
	}
	switch derr.Kind {
	case domain.KindValidation:
		return "validation"
	case domain.KindTokenFormat:
		return "token_format"
	case domain.KindDecryption:
		return "decryption"
	case domain.KindAccountNotFound:
		return "account_not_found"
	case domain.KindAccountRoleMissing:
		return "role_missing"
	case domain.KindInvalidCredentials:
		return "invalid_credentials"
	case domain.KindInvalidAccountID:
		return "invalid_account_id"
	case domain.KindLoginThrottled:
		return "throttled"
	default:
		return "internal"
	}
}

// Scope returns the scope label for a caller role.
func Scope(role string) string {
	if role == domain.RoleUser {
		return "account"
	}
	return "all"
}
