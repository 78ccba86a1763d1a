// Package metrics defines and registers all custom Prometheus metrics for
// the dealership service. It is the single source of truth for metric
// names, labels, and help strings; metrics register with the default
// registry at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dealership"

// ── Identity metrics ─────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts account registrations.
// Label:
//   - result: "created" or "duplicate"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// IdentityResolutionsTotal counts per-request identity resolutions.
// Label:
//   - source: "session", "bearer", "anonymous", or "expired"
var IdentityResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "identity_resolutions_total",
		Help:      "Total number of request identity resolutions, by source.",
	},
	[]string{"source"},
)

// AccessDeniedTotal counts authorization gate rejections.
// Label:
//   - reason: "anonymous" or "forbidden_role"
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of requests turned away at the authorization gate.",
	},
	[]string{"reason"},
)

// SessionsActive tracks the number of live server-side sessions issued by
// this process (issued minus revoked; expiry is not observed).
var SessionsActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Sessions issued by this process and not yet revoked through it.",
	},
)

// ── Outcome channel metrics ──────────────────────────────────────────────────

// FlashMessagesTotal counts one-shot notices written, by category.
var FlashMessagesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "flash_messages_total",
		Help:      "Total number of flash notices written, by category.",
	},
	[]string{"category"},
)
