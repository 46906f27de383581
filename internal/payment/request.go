package payment

// OperationRequest is the structurally common request shape shared by all
// rails. Rail-specific DTO fields live at the transport layer; by the time a
// request reaches a provider it has been reduced to these fields.
type OperationRequest struct {
	RequestID       string      `json:"requestId"`
	PaymentType     PaymentType `json:"paymentType"`
	AmountMinor     int64       `json:"amountMinor"` // minor units (cents)
	Currency        string      `json:"currency"`
	DebtorAccount   string      `json:"debtorAccount,omitempty"`
	CreditorAccount string      `json:"creditorAccount,omitempty"`

	// PreferredProvider, when set, is tried before the payment-type mapping.
	PreferredProvider ProviderKind `json:"preferredProvider,omitempty"`

	// SimulationReference correlates this call with the SCA challenge issued
	// during an earlier simulate call. Single use.
	SimulationReference string `json:"simulationReference,omitempty"`

	// Schedule-only fields.
	ExecutionDate     string `json:"executionDate,omitempty"` // YYYY-MM-DD
	RecurrencePattern string `json:"recurrencePattern,omitempty"`

	Sca *ScaPayload `json:"sca,omitempty"`
}

// ScaPayload is the challenge response a caller embeds when resubmitting a
// gated operation. Method and ChallengeID may be left empty when a
// SimulationReference is supplied; the stored reference binds them.
type ScaPayload struct {
	Method             string `json:"method,omitempty"`
	ChallengeID        string `json:"challengeId,omitempty"`
	AuthenticationCode string `json:"authenticationCode,omitempty"`
	Recipient          string `json:"recipient,omitempty"`
	DeviceID           string `json:"deviceId,omitempty"`
	BiometricToken     string `json:"biometricToken,omitempty"`
}
