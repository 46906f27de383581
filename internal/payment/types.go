// Package payment holds the domain types shared by every rail: the payment
// type and provider kind enumerations, the common operation request/result
// shapes, the SCA result carried inside them, and the error taxonomy.
// Rail packages and the routing service all speak these types; nothing in
// here reaches back into any other internal package.
package payment

// PaymentType identifies one rail-specific payment kind. The set is closed:
// routing tables and providers are keyed by these values and nothing else.
type PaymentType string

const (
	SepaSCT          PaymentType = "SEPA_SCT"
	SepaInstant      PaymentType = "SEPA_INSTANT"
	SwiftMT103       PaymentType = "SWIFT_MT103"
	SwiftMT202       PaymentType = "SWIFT_MT202"
	ACHCredit        PaymentType = "ACH_CREDIT"
	ACHDebit         PaymentType = "ACH_DEBIT"
	UKFasterPayment  PaymentType = "UK_FPS"
	UKBacs           PaymentType = "UK_BACS"
	UKChaps          PaymentType = "UK_CHAPS"
	Target2          PaymentType = "TARGET2"
	TIPS             PaymentType = "TIPS"
	Step2SCT         PaymentType = "STEP2_SCT"
	CardPayment      PaymentType = "CARD_PAYMENT"
	InternalTransfer PaymentType = "INTERNAL_TRANSFER"
)

// ProviderKind identifies a backend family, one per rail. The registry holds
// at most one active provider per kind.
type ProviderKind string

const (
	SepaProvider       ProviderKind = "SEPA_PROVIDER"
	SwiftProvider      ProviderKind = "SWIFT_PROVIDER"
	ACHProvider        ProviderKind = "ACH_PROVIDER"
	UKProvider         ProviderKind = "UK_PROVIDER"
	EurosystemProvider ProviderKind = "EUROSYSTEM_PROVIDER"
	CardProvider       ProviderKind = "CARD_PROVIDER"
	InternalProvider   ProviderKind = "INTERNAL_PROVIDER"
)

// OperationType is the lifecycle phase a request is in.
type OperationType string

const (
	OpSimulate OperationType = "SIMULATE"
	OpExecute  OperationType = "EXECUTE"
	OpCancel   OperationType = "CANCEL"
	OpSchedule OperationType = "SCHEDULE"
)

// Status is the coarse outcome recorded on every result.
type Status string

const (
	StatusValidated Status = "VALIDATED"
	StatusCompleted Status = "COMPLETED"
	StatusScheduled Status = "SCHEDULED"
	StatusCancelled Status = "CANCELLED"
	StatusRejected  Status = "REJECTED"
)

// typeToKind is the static routing table from payment type to provider kind.
// Built once, never mutated; KindForPaymentType is the only reader.
var typeToKind = map[PaymentType]ProviderKind{
	SepaSCT:          SepaProvider,
	SepaInstant:      SepaProvider,
	SwiftMT103:       SwiftProvider,
	SwiftMT202:       SwiftProvider,
	ACHCredit:        ACHProvider,
	ACHDebit:         ACHProvider,
	UKFasterPayment:  UKProvider,
	UKBacs:           UKProvider,
	UKChaps:          UKProvider,
	Target2:          EurosystemProvider,
	TIPS:             EurosystemProvider,
	Step2SCT:         EurosystemProvider,
	CardPayment:      CardProvider,
	InternalTransfer: InternalProvider,
}

// KindForPaymentType returns the provider kind a payment type routes to.
// The second return is false for payment types with no declared mapping.
func KindForPaymentType(pt PaymentType) (ProviderKind, bool) {
	kind, ok := typeToKind[pt]
	return kind, ok
}

// AllPaymentTypes lists every declared payment type. Ordering is not
// guaranteed; used for startup logging and tests.
func AllPaymentTypes() []PaymentType {
	types := make([]PaymentType, 0, len(typeToKind))
	for pt := range typeToKind {
		types = append(types, pt)
	}
	return types
}
