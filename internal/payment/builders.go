package payment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Result builders. Every rail goes through these so the result shape and the
// error taxonomy stay identical across the fourteen-plus payment types.

// NewSimulationResult builds the base result for a simulate call. Status is
// VALIDATED and a fresh simulation reference is minted; SCA delivery fields
// are attached separately once a challenge has actually been issued.
func NewSimulationResult(req *OperationRequest, kind ProviderKind, feeMinor int64, feasible bool) *OperationResult {
	return &OperationResult{
		PaymentID:           uuid.NewString(),
		RequestID:           req.RequestID,
		PaymentType:         req.PaymentType,
		Operation:           OpSimulate,
		Status:              StatusValidated,
		Provider:            kind,
		Timestamp:           time.Now().UTC(),
		Success:             true,
		Feasible:            feasible,
		FeeMinor:            feeMinor,
		FeeCurrency:         req.Currency,
		SimulationReference: uuid.NewString(),
	}
}

// NewExecutionResult builds a successful execute result carrying a clearing
// reference and a settlement date estimate.
func NewExecutionResult(req *OperationRequest, kind ProviderKind, clearingRef, settlementDate string) *OperationResult {
	return &OperationResult{
		PaymentID:         uuid.NewString(),
		RequestID:         req.RequestID,
		PaymentType:       req.PaymentType,
		Operation:         OpExecute,
		Status:            StatusCompleted,
		Provider:          kind,
		Timestamp:         time.Now().UTC(),
		Success:           true,
		ClearingReference: clearingRef,
		SettlementDate:    settlementDate,
	}
}

// NewCancellationResult builds the base result for simulateCancellation and
// cancel calls. simulation selects StatusValidated, the real cancellation
// StatusCancelled.
func NewCancellationResult(req *OperationRequest, kind ProviderKind, simulation bool) *OperationResult {
	res := &OperationResult{
		PaymentID:   uuid.NewString(),
		RequestID:   req.RequestID,
		PaymentType: req.PaymentType,
		Operation:   OpCancel,
		Status:      StatusCancelled,
		Provider:    kind,
		Timestamp:   time.Now().UTC(),
		Success:     true,
		Feasible:    true,
	}
	if simulation {
		res.Status = StatusValidated
		res.SimulationReference = uuid.NewString()
	}
	return res
}

// NewScheduleResult builds a successful schedule result with a modifiable
// schedule record identifier.
func NewScheduleResult(req *OperationRequest, kind ProviderKind) *OperationResult {
	return &OperationResult{
		PaymentID:         uuid.NewString(),
		RequestID:         req.RequestID,
		PaymentType:       req.PaymentType,
		Operation:         OpSchedule,
		Status:            StatusScheduled,
		Provider:          kind,
		Timestamp:         time.Now().UTC(),
		Success:           true,
		ScheduleID:        uuid.NewString(),
		ExecutionDate:     req.ExecutionDate,
		RecurrencePattern: req.RecurrencePattern,
	}
}

// AttachScaDelivery populates the SCA delivery fields on a simulation result
// after a challenge has been issued. The recipient must already be masked.
func AttachScaDelivery(res *OperationResult, method, maskedRecipient, challengeID string, expiresAt time.Time) {
	res.ScaRequired = true
	res.ScaCompleted = false
	res.ScaDeliveryTriggered = true
	res.ScaMethod = method
	res.ScaRecipient = maskedRecipient
	res.ScaChallengeID = challengeID
	exp := expiresAt
	res.ScaExpiresAt = &exp
}

// RejectScaRequired marks a result as rejected because authentication is
// mandatory but no SCA payload was supplied. Recoverable by resubmitting.
func RejectScaRequired(res *OperationResult) {
	res.Success = false
	res.Status = StatusRejected
	res.ScaRequired = true
	res.ScaCompleted = false
	res.ErrorCode = ErrCodeScaRequired
	res.ErrorMessage = "strong customer authentication required: no SCA payload supplied"
}

// RejectScaFailed marks a result as rejected because the supplied SCA payload
// did not validate. The validation outcome is embedded for attempt counting.
func RejectScaFailed(res *OperationResult, scaRes *ScaResult, reason string) {
	res.Success = false
	res.Status = StatusRejected
	res.ScaRequired = true
	res.ScaCompleted = false
	res.Sca = scaRes
	res.ErrorCode = ErrCodeScaFailed
	res.ErrorMessage = "strong customer authentication failed: " + reason
}

// MarkCancellationUnsupported marks a cancellation as terminally rejected for
// rails that do not support recall once submitted.
func MarkCancellationUnsupported(res *OperationResult, railName string) {
	res.Success = false
	res.Feasible = false
	res.Status = StatusRejected
	res.ErrorCode = ErrCodeCancellationNotSupported
	res.ErrorMessage = fmt.Sprintf("%s does not support cancellation once a payment is submitted", railName)
}

// RejectValidation marks a result rejected before it ever reached a provider.
func RejectValidation(res *OperationResult, reason string) {
	res.Success = false
	res.Feasible = false
	res.Status = StatusRejected
	res.ErrorCode = ErrCodeValidation
	res.ErrorMessage = reason
}
