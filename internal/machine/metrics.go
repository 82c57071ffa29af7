// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package machine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Status constants for action metrics.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ActionsTotal counts resolved player actions.
// Use RegisterMetrics to register this with a Prometheus registry.
var ActionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "holocards_actions_total",
		Help: "Total number of player actions run by the machine",
	},
	[]string{"action", "status"},
)

// ActionDuration is the histogram for action resolution time.
// Use RegisterMetrics to register this with a Prometheus registry.
var ActionDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "holocards_action_duration_seconds",
		Help:    "Action resolution duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"action"},
)

// TriggerInvocations counts listener callbacks run by dispatch.
var TriggerInvocations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "holocards_trigger_invocations_total",
		Help: "Total number of trigger listener invocations",
	},
	[]string{"timing", "event"},
)

// MachineErrors counts errors wrapped with a machine snapshot.
var MachineErrors = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "holocards_machine_errors_total",
		Help: "Total number of machine errors by category and cause code",
	},
	[]string{"category", "code"},
)

// RegisterMetrics registers machine metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(ActionsTotal)
	reg.MustRegister(ActionDuration)
	reg.MustRegister(TriggerInvocations)
	reg.MustRegister(MachineErrors)
}

// RecordAction counts one action and observes its duration.
// Parameters:
//   - action: the action event name (e.g. "PlayCard")
//   - status: execution result (use Status* constants)
//   - duration: how long the action took to resolve
func RecordAction(action, status string, duration time.Duration) {
	ActionsTotal.WithLabelValues(action, status).Inc()
	ActionDuration.WithLabelValues(action).Observe(duration.Seconds())
}

// RecordTrigger increments the listener invocation counter.
func RecordTrigger(timing, event string) {
	TriggerInvocations.WithLabelValues(timing, event).Inc()
}

func recordError(category Category, code string) {
	MachineErrors.WithLabelValues(category.String(), code).Inc()
}
