package payment

import (
	"errors"
	"time"
)

// Error codes returned as result fields. Business failures never cross the
// API boundary as errors; they are captured here so every caller sees a
// uniform response shape.
const (
	ErrCodeNoProvider               = "NO_PROVIDER_AVAILABLE"
	ErrCodeScaRequired              = "SCA_REQUIRED"
	ErrCodeScaFailed                = "SCA_FAILED"
	ErrCodeCancellationNotSupported = "CANCELLATION_NOT_SUPPORTED"
	ErrCodeValidation               = "VALIDATION_ERROR"
	ErrCodeProviderTimeout          = "PROVIDER_TIMEOUT"
	ErrCodeProviderUnhealthy        = "PROVIDER_UNHEALTHY"
)

// Sentinel errors for the failures that do propagate as errors: registry
// misconfiguration and backend health, per the propagation policy.
var (
	ErrNoProviderAvailable = errors.New("no provider available for requested kind or payment type")
	ErrProviderTimeout     = errors.New("provider call timed out")
	ErrProviderUnhealthy   = errors.New("provider failed health check")
)

// ScaResult reports the outcome of a single challenge validation.
type ScaResult struct {
	Success      bool      `json:"success"`
	Method       string    `json:"method,omitempty"`
	ChallengeID  string    `json:"challengeId,omitempty"`
	Attempts     int       `json:"attempts"`
	MaxAttempts  int       `json:"maxAttempts"`
	Expired      bool      `json:"expired"`
	ExpiresAt    time.Time `json:"expiresAt,omitempty"`
	ErrorCode    string    `json:"errorCode,omitempty"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
}

// OperationResult is the uniform result shape every rail returns for every
// lifecycle operation. Callers must not need to special-case per rail.
type OperationResult struct {
	PaymentID   string        `json:"paymentId"`
	RequestID   string        `json:"requestId"`
	PaymentType PaymentType   `json:"paymentType"`
	Operation   OperationType `json:"operation"`
	Status      Status        `json:"status"`
	Provider    ProviderKind  `json:"provider"`
	Timestamp   time.Time     `json:"timestamp"`

	Success      bool   `json:"success"`
	ErrorCode    string `json:"errorCode,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`

	// Simulation fields.
	Feasible            bool   `json:"feasible"`
	FeeMinor            int64  `json:"feeMinor,omitempty"`
	FeeCurrency         string `json:"feeCurrency,omitempty"`
	SimulationReference string `json:"simulationReference,omitempty"`

	// Execution fields.
	ClearingReference string `json:"clearingReference,omitempty"`
	SettlementDate    string `json:"settlementDate,omitempty"` // YYYY-MM-DD

	// Schedule fields.
	ScheduleID        string `json:"scheduleId,omitempty"`
	ExecutionDate     string `json:"executionDate,omitempty"`
	RecurrencePattern string `json:"recurrencePattern,omitempty"`

	// SCA fields.
	ScaRequired          bool       `json:"scaRequired"`
	ScaCompleted         bool       `json:"scaCompleted"`
	ScaDeliveryTriggered bool       `json:"scaDeliveryTriggered,omitempty"`
	ScaMethod            string     `json:"scaMethod,omitempty"`
	ScaRecipient         string     `json:"scaRecipient,omitempty"` // masked, last 4 only
	ScaChallengeID       string     `json:"scaChallengeId,omitempty"`
	ScaExpiresAt         *time.Time `json:"scaExpiresAt,omitempty"`
	Sca                  *ScaResult `json:"sca,omitempty"`
}
