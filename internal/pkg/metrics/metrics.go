// Package metrics defines and registers all custom Prometheus metrics for the
// portal gateway. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Navigation metrics ────────────────────────────────────────────────────────

// GuardDecisionsTotal counts guard evaluations.
// Labels:
//   - guard: guard name (e.g. "admin", "client", "role_redirect")
//   - outcome: "allow" or "redirect"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of guard evaluations, by guard and outcome.",
	},
	[]string{"guard", "outcome"},
)

// RedirectsTotal counts redirects issued by guards and redirectors.
// Label:
//   - target: the redirect path without query string
var RedirectsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "redirects_total",
		Help:      "Total number of navigation redirects, by target path.",
	},
	[]string{"target"},
)

// NavigationsCancelledTotal counts guard checks discarded because the
// caller gave up before the session was determined.
var NavigationsCancelledTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "navigations_cancelled_total",
		Help:      "Total number of navigations discarded while waiting for the session.",
	},
)

// SessionWaitDuration measures how long guard evaluation waited for the
// session to be determined.
var SessionWaitDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "session_wait_duration_seconds",
		Help:      "Time spent waiting for an undetermined session before evaluating guards.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionRestoresTotal counts token-based session restorations.
// Label:
//   - result: "ok", "anonymous" (no token), or "failed"
var SessionRestoresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_restores_total",
		Help:      "Total number of session restorations, by result.",
	},
	[]string{"result"},
)

// SignInsTotal counts sign-in attempts.
// Label:
//   - result: "ok" or the failure reason (e.g. "invalid_credentials")
var SignInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sign_ins_total",
		Help:      "Total number of sign-in attempts, by result.",
	},
	[]string{"result"},
)
