// Package metrics defines all custom Prometheus metrics for the quill API.
// It is the single source of truth for metric names, labels, and help
// strings; registration happens at import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "quill"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok", "wrong_password", "unknown_user", "no_domain", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts completed registrations.
// Label:
//   - role: the role granted at registration ("user" or "super_admin")
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of completed user registrations, by granted role.",
	},
	[]string{"role"},
)

// TokensRotatedTotal counts access tokens silently reissued by the request
// gate inside the near-expiry window.
var TokensRotatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_rotated_total",
		Help:      "Total number of access tokens rotated by the auth gate.",
	},
)

// AuthDeniedTotal counts requests rejected by the gate.
// Label:
//   - reason: "missing_token", "expired", "invalid_signature", "malformed"
var AuthDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_denied_total",
		Help:      "Total number of requests rejected by the auth gate, by reason.",
	},
	[]string{"reason"},
)

// ── Content metrics ───────────────────────────────────────────────────────────

// ContentCacheTotal counts content cache lookups.
// Label:
//   - result: "hit" or "miss"
var ContentCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "content_cache_total",
		Help:      "Total number of content cache lookups, labelled by result.",
	},
	[]string{"result"},
)

// ── Media metrics ─────────────────────────────────────────────────────────────

// MediaUploadsTotal counts stored media objects.
// Label:
//   - media_type: "image", "video", "audio", "document"
var MediaUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "media_uploads_total",
		Help:      "Total number of media uploads, by media type.",
	},
	[]string{"media_type"},
)

// MediaJobsTotal counts post-upload jobs handled by the dispatcher.
// Labels:
//   - action: "uploaded" or "deleted"
//   - result: "ok" or "error"
var MediaJobsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "media_jobs_total",
		Help:      "Total number of media jobs processed by the dispatcher.",
	},
	[]string{"action", "result"},
)
