// Package provider contains the base template concrete rail providers
// compose with: SCA delegation to the shared engine, the
// execute/cancel/schedule authorization gate, simulation-reference handling,
// and the never-throw health check. Rail packages supply only their name,
// an optional health override, and their lifecycle business logic.
package provider

import (
	"context"
	"log"
	"time"

	"github.com/yourorg/payment-rails/internal/payment"
	"github.com/yourorg/payment-rails/internal/refstore"
	"github.com/yourorg/payment-rails/internal/sca"
)

// HealthFunc probes the backing rail. A nil HealthFunc means always healthy.
type HealthFunc func(ctx context.Context) error

// Base carries the cross-cutting behavior shared by all rail providers.
// Concrete providers embed a *Base and implement the lifecycle operations.
type Base struct {
	name   string
	kind   payment.ProviderKind
	engine *sca.Engine
	refs   refstore.Store
	health HealthFunc
}

// NewBase creates the shared template for one rail provider.
func NewBase(name string, kind payment.ProviderKind, engine *sca.Engine, refs refstore.Store, health HealthFunc) *Base {
	return &Base{name: name, kind: kind, engine: engine, refs: refs, health: health}
}

func (b *Base) Name() string               { return b.name }
func (b *Base) Kind() payment.ProviderKind { return b.kind }

// IsHealthy runs the provider health probe and converts any failure into
// false. Health checks never propagate errors.
func (b *Base) IsHealthy(ctx context.Context) bool {
	if b.health == nil {
		return true
	}
	if err := b.health(ctx); err != nil {
		log.Printf("provider %s: health check failed: %v", b.name, err)
		return false
	}
	return true
}

// TriggerSca delegates challenge issuance to the shared engine, timed and
// logged under this provider's name.
func (b *Base) TriggerSca(ctx context.Context, recipient, method, referenceID string) (*sca.Challenge, error) {
	start := time.Now()
	ch, err := b.engine.Trigger(ctx, recipient, method, referenceID, b.name)
	log.Printf("provider %s: sca trigger method=%s duration=%s success=%t",
		b.name, method, time.Since(start), err == nil)
	return ch, err
}

// ValidateSca delegates challenge validation to the shared engine.
func (b *Base) ValidateSca(ctx context.Context, p *payment.ScaPayload) (*payment.ScaResult, error) {
	start := time.Now()
	res, err := b.engine.Validate(ctx, p)
	log.Printf("provider %s: sca validate duration=%s success=%t",
		b.name, time.Since(start), err == nil && res != nil && res.Success)
	return res, err
}

// ApplySca runs the simulation-side half of the gate: if the eventual
// operation requires authentication, a challenge is issued, its delivery
// fields are attached to the result, and the simulation reference is stored
// for the follow-up call. If the inbound payload already carries a code it
// is validated immediately.
func (b *Base) ApplySca(ctx context.Context, op payment.OperationType, req *payment.OperationRequest, res *payment.OperationResult) error {
	if !b.engine.IsScaRequired(op, req.AmountMinor, req.Currency, req.CreditorAccount) {
		res.ScaRequired = false
		return nil
	}

	method := b.engine.DefaultMethod()
	recipient := ""
	if req.Sca != nil {
		if req.Sca.Method != "" {
			method = req.Sca.Method
		}
		recipient = req.Sca.Recipient
	}
	if recipient == "" {
		recipient = b.engine.DefaultRecipient(req.CreditorAccount, method)
	}

	ch, err := b.TriggerSca(ctx, recipient, method, req.RequestID)
	if err != nil {
		return err
	}
	payment.AttachScaDelivery(res, ch.Method, ch.MaskedRecipient, ch.ChallengeID, ch.ExpiresAt)

	if err := b.refs.Put(ctx, refstore.Reference{
		Reference:   res.SimulationReference,
		RequestID:   req.RequestID,
		PaymentType: req.PaymentType,
		AmountMinor: req.AmountMinor,
		Currency:    req.Currency,
		ChallengeID: ch.ChallengeID,
		ExpiresAt:   ch.ExpiresAt,
	}, time.Until(ch.ExpiresAt)); err != nil {
		return err
	}

	if req.Sca != nil && req.Sca.AuthenticationCode != "" {
		payload := *req.Sca
		payload.ChallengeID = ch.ChallengeID
		scaRes, err := b.ValidateSca(ctx, &payload)
		if err != nil {
			return err
		}
		res.Sca = scaRes
		res.ScaCompleted = scaRes.Success
	}
	return nil
}

// Authorize runs the state-changing side of the gate for execute, cancel and
// schedule. It returns false after mutating the result into the matching
// rejection; errors are infrastructure failures only.
func (b *Base) Authorize(ctx context.Context, op payment.OperationType, req *payment.OperationRequest, res *payment.OperationResult) (bool, error) {
	if !b.engine.IsScaRequired(op, req.AmountMinor, req.Currency, req.CreditorAccount) {
		res.ScaRequired = false
		return true, nil
	}
	res.ScaRequired = true

	if req.Sca == nil {
		payment.RejectScaRequired(res)
		return false, nil
	}
	payload := *req.Sca

	if req.SimulationReference != "" {
		ref, err := b.refs.Consume(ctx, req.SimulationReference)
		if err == refstore.ErrNotFound {
			payment.RejectScaFailed(res, nil, "unknown, expired or already used simulation reference")
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if !ref.Matches(req) {
			payment.RejectScaFailed(res, nil, "request does not match the simulated operation")
			return false, nil
		}
		if payload.ChallengeID == "" {
			payload.ChallengeID = ref.ChallengeID
		}
	}

	scaRes, err := b.ValidateSca(ctx, &payload)
	if err != nil {
		return false, err
	}
	if !scaRes.Success {
		payment.RejectScaFailed(res, scaRes, scaRes.ErrorMessage)
		return false, nil
	}
	res.ScaCompleted = true
	res.Sca = scaRes
	return true, nil
}

// ValidateSchedule checks the schedule-only request fields. A schedule needs
// an execution date in the future; the recurrence pattern is free-form.
func ValidateSchedule(req *payment.OperationRequest, res *payment.OperationResult) bool {
	if req.ExecutionDate == "" {
		payment.RejectValidation(res, "schedule requires an executionDate")
		return false
	}
	d, err := time.Parse("2006-01-02", req.ExecutionDate)
	if err != nil {
		payment.RejectValidation(res, "executionDate must be formatted YYYY-MM-DD")
		return false
	}
	if !d.After(time.Now().UTC().Truncate(24 * time.Hour)) {
		payment.RejectValidation(res, "executionDate must be in the future")
		return false
	}
	return true
}

// SettlementDate estimates the settlement date a rail would report, skipping
// weekends. daysAhead zero means same-day settlement.
func SettlementDate(daysAhead int) string {
	d := time.Now().UTC()
	for added := 0; added < daysAhead; {
		d = d.AddDate(0, 0, 1)
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			added++
		}
	}
	for wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday; wd = d.Weekday() {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format("2006-01-02")
}
