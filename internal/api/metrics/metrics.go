// Package metrics defines the custom Prometheus metrics for the shop API. It
// is the single source of truth for metric names, labels and help strings.
//
// Metrics are registered with the default registry on package init via
// promauto and exposed on /metrics by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shop"

// Result label values shared by the auth metrics.
const (
	ResultSuccess      = "success"
	ResultConflict     = "conflict"
	ResultInvalid      = "invalid"
	ResultError        = "error"
	ResultAllowed      = "allowed"
	ResultUnauthorized = "unauthorized"
	ResultForbidden    = "forbidden"
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid" (bad credentials) or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts registration attempts.
// Labels:
//   - path: "self" or "privileged"
//   - result: "success", "conflict", "invalid" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "registrations_total",
		Help:      "Total number of account registrations, by path and result.",
	},
	[]string{"path", "result"},
)

// AccessDecisionsTotal counts request authenticator outcomes.
// Label:
//   - result: "allowed", "unauthorized", "forbidden" or "error"
var AccessDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "access_decisions_total",
		Help:      "Total number of access decisions made by the request authenticator.",
	},
	[]string{"result"},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// CategoryCacheTotal counts category list cache lookups.
// Label:
//   - result: "hit" or "miss"
var CategoryCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "category_cache_total",
		Help:      "Total number of category list cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)
