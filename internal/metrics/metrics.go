// Package metrics provides Prometheus metrics for the session core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "eventease_auth"

var (
	// Session lifecycle - track mutations by operation and result
	SessionOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "operations_total",
			Help:      "Total number of session operations by operation and result",
		},
		[]string{"operation", "result"},
	)

	// Restore outcomes - adopted, refreshed, absent, failed
	RestoresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "restores_total",
			Help:      "Total number of startup restores by outcome",
		},
		[]string{"outcome"},
	)

	// Guard decisions - denial is normal control flow, not an error
	GuardDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "guard",
			Name:      "decisions_total",
			Help:      "Total number of route guard decisions by outcome",
		},
		[]string{"decision"},
	)

	// Identity exchanges - track remote calls by endpoint and result
	IdentityRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "identity",
			Name:      "requests_total",
			Help:      "Total number of identity service exchanges by endpoint and result",
		},
		[]string{"endpoint", "result"},
	)
)

// ObserveSessionOp records a session mutation outcome
func ObserveSessionOp(operation string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	SessionOpsTotal.WithLabelValues(operation, result).Inc()
}

// ObserveRestore records a startup restore outcome
func ObserveRestore(outcome string) {
	RestoresTotal.WithLabelValues(outcome).Inc()
}

// ObserveGuardDecision records a route guard decision
func ObserveGuardDecision(decision string) {
	GuardDecisionsTotal.WithLabelValues(decision).Inc()
}

// ObserveIdentityRequest records an identity exchange outcome
func ObserveIdentityRequest(endpoint string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	IdentityRequestsTotal.WithLabelValues(endpoint, result).Inc()
}
