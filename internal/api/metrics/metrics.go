// Package metrics defines and registers all custom Prometheus metrics for the
// commerce API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default registry at package init via
// promauto; the /metrics endpoint is wired in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "commerce"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "invalid_credentials", or "locked"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts account registrations by role.
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts registered, by role.",
	},
	[]string{"role"},
)

// ── Role request metrics ──────────────────────────────────────────────────────

// RoleRequestsTotal counts submitted role change requests.
var RoleRequestsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_requests_total",
		Help:      "Total number of role change requests submitted.",
	},
)

// RoleDecisionsTotal counts admin decisions on role requests.
// Label:
//   - decision: "approved" or "rejected"
var RoleDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_decisions_total",
		Help:      "Total number of role request decisions, by decision.",
	},
	[]string{"decision"},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// ProductWritesTotal counts catalog mutations.
// Label:
//   - op: "create", "update", or "delete"
var ProductWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "product_writes_total",
		Help:      "Total number of catalog write operations, by operation.",
	},
	[]string{"op"},
)

// ── Rate limit metrics ────────────────────────────────────────────────────────

// RateLimitedTotal counts requests rejected by the rate limiter.
// Label:
//   - class: limiter class ("general", "auth", "write")
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter, by class.",
	},
	[]string{"class"},
)
