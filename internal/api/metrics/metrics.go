// Package metrics defines and registers all custom Prometheus metrics for the
// ticketing API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// init through promauto; the /metrics route serves that registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ticketing"

// ── Account metrics ───────────────────────────────────────────────────────────

// AccountsRegisteredTotal counts successful signups.
// Label:
//   - role: the role granted to the new account
var AccountsRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_registered_total",
		Help:      "Total number of accounts created, by role.",
	},
	[]string{"role"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// ── Event metrics ─────────────────────────────────────────────────────────────

// EventsCreatedTotal counts events created by managers.
var EventsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_created_total",
		Help:      "Total number of events created.",
	},
)

// ── Ticket metrics ────────────────────────────────────────────────────────────

// TicketsTotal counts ticket state changes.
// Label:
//   - action: "purchased", "replayed", "cancelled" or "redeemed"
var TicketsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tickets_total",
		Help:      "Total number of ticket operations, by action.",
	},
	[]string{"action"},
)

// ── Domain event publishing ───────────────────────────────────────────────────

// DomainEventsPublishedTotal counts domain events handed to the broker.
// Labels:
//   - subject: broker subject (e.g. "ticketing.ticket.cancelled")
//   - result: "ok" or "error"
var DomainEventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "domain_events_published_total",
		Help:      "Total number of domain events published, by subject and result.",
	},
	[]string{"subject", "result"},
)

// DomainEventsDroppedTotal counts events dropped because a worker queue was full.
var DomainEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "domain_events_dropped_total",
		Help:      "Total number of domain events dropped on a full dispatcher queue.",
	},
)

// DomainEventsQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var DomainEventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "domain_events_queue_depth",
		Help:      "Current number of domain events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// DomainEventPublishDuration measures broker round-trip time per event.
var DomainEventPublishDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "domain_event_publish_duration_seconds",
		Help:      "Duration of a single domain event publish.",
		Buckets:   prometheus.DefBuckets,
	},
)
