// Package metrics defines the Prometheus instruments shared by the routing
// service, the provider base, and the SCA engine. Instruments are registered
// globally via promauto; accessor functions exist so tests can read them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_operations_total",
			Help: "Total payment lifecycle operations, by rail, operation and outcome.",
		},
		[]string{"rail", "operation", "outcome"},
	)

	operationDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payment_operation_duration_seconds",
			Help:    "Duration of payment lifecycle operations, by rail and operation.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"rail", "operation"},
	)

	scaChallengesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sca_challenges_total",
			Help: "SCA challenges issued, by method and rail.",
		},
		[]string{"method", "rail"},
	)

	scaValidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sca_validations_total",
			Help: "SCA validations performed, by method and outcome.",
		},
		[]string{"method", "outcome"},
	)

	scaTriggerDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sca_trigger_duration_seconds",
			Help:    "Duration of SCA challenge issuance, by method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	scaValidateDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sca_validate_duration_seconds",
			Help:    "Duration of SCA validation, by method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

// Outcome labels for counters.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// ObserveOperation records one lifecycle operation.
func ObserveOperation(rail, operation string, success bool, seconds float64) {
	outcome := OutcomeFailure
	if success {
		outcome = OutcomeSuccess
	}
	operationsTotal.WithLabelValues(rail, operation, outcome).Inc()
	operationDurationSeconds.WithLabelValues(rail, operation).Observe(seconds)
}

// ObserveScaTrigger records one challenge issuance.
func ObserveScaTrigger(method, rail string, seconds float64) {
	scaChallengesTotal.WithLabelValues(method, rail).Inc()
	scaTriggerDurationSeconds.WithLabelValues(method).Observe(seconds)
}

// ObserveScaValidation records one validation call.
func ObserveScaValidation(method string, success bool, seconds float64) {
	outcome := OutcomeFailure
	if success {
		outcome = OutcomeSuccess
	}
	scaValidationsTotal.WithLabelValues(method, outcome).Inc()
	scaValidateDurationSeconds.WithLabelValues(method).Observe(seconds)
}

// Accessors for tests.

func OperationsTotal() *prometheus.CounterVec            { return operationsTotal }
func OperationDurationSeconds() *prometheus.HistogramVec { return operationDurationSeconds }
func ScaChallengesTotal() *prometheus.CounterVec         { return scaChallengesTotal }
func ScaValidationsTotal() *prometheus.CounterVec        { return scaValidationsTotal }
