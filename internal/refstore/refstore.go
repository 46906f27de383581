// Package refstore is the short-TTL, single-use store correlating a
// simulate call's SCA challenge with the execute/cancel/schedule call that
// follows it. References are consumed atomically so a replay of the same
// reference fails.
package refstore

import (
	"context"
	"errors"
	"time"

	"github.com/yourorg/payment-rails/internal/payment"
)

// ErrNotFound is returned for unknown, expired, or already consumed
// references.
var ErrNotFound = errors.New("refstore: simulation reference not found")

// Reference is the snapshot stored when a simulation triggers SCA. Execute,
// cancel and schedule compare their request against it before validating.
type Reference struct {
	Reference   string              `json:"reference"`
	RequestID   string              `json:"requestId"`
	PaymentType payment.PaymentType `json:"paymentType"`
	AmountMinor int64               `json:"amountMinor"`
	Currency    string              `json:"currency"`
	ChallengeID string              `json:"challengeId"`
	ExpiresAt   time.Time           `json:"expiresAt"`
}

// Store is the persistence contract for simulation references.
// Consume must be atomic: two concurrent consumers of the same reference
// must not both succeed.
type Store interface {
	Put(ctx context.Context, ref Reference, ttl time.Duration) error
	Consume(ctx context.Context, reference string) (*Reference, error)
}

// Matches reports whether a follow-up request matches the stored snapshot.
func (r *Reference) Matches(req *payment.OperationRequest) bool {
	return r.PaymentType == req.PaymentType &&
		r.AmountMinor == req.AmountMinor &&
		r.Currency == req.Currency
}
