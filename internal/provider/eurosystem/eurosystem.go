// Package eurosystem implements the Eurosystem clearing provider for
// TARGET2, TIPS and STEP2. TARGET2 and TIPS settle with finality the moment
// a payment is submitted, so cancellation is always rejected for them; STEP2
// batch payments can still be recalled before the cycle closes.
package eurosystem

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yourorg/payment-rails/internal/payment"
	"github.com/yourorg/payment-rails/internal/provider"
	"github.com/yourorg/payment-rails/internal/refstore"
	"github.com/yourorg/payment-rails/internal/sca"
)

// Provider is the Eurosystem backend.
type Provider struct {
	*provider.Base
}

// New creates the Eurosystem provider.
func New(engine *sca.Engine, refs refstore.Store) *Provider {
	return &Provider{Base: provider.NewBase("eurosystem-clearing", payment.EurosystemProvider, engine, refs, nil)}
}

// settlesWithFinality reports the RTGS-style payment types that cannot be
// cancelled once submitted.
func settlesWithFinality(pt payment.PaymentType) bool {
	return pt == payment.Target2 || pt == payment.TIPS
}

func fee(pt payment.PaymentType) int64 {
	switch pt {
	case payment.Target2:
		return 180
	case payment.TIPS:
		return 20
	default: // STEP2
		return 50
	}
}

func settlementDays(pt payment.PaymentType) int {
	if pt == payment.Step2SCT {
		return 1
	}
	return 0
}

func railName(pt payment.PaymentType) string {
	switch pt {
	case payment.Target2:
		return "TARGET2"
	case payment.TIPS:
		return "TIPS"
	default:
		return "STEP2"
	}
}

func (p *Provider) Simulate(ctx context.Context, req *payment.OperationRequest) (*payment.OperationResult, error) {
	res := payment.NewSimulationResult(req, p.Kind(), fee(req.PaymentType), true)
	res.SettlementDate = provider.SettlementDate(settlementDays(req.PaymentType))
	if err := p.ApplySca(ctx, payment.OpExecute, req, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (p *Provider) Execute(ctx context.Context, req *payment.OperationRequest) (*payment.OperationResult, error) {
	res := payment.NewExecutionResult(req, p.Kind(), "", "")
	ok, err := p.Authorize(ctx, payment.OpExecute, req, res)
	if err != nil {
		return nil, err
	}
	if !ok {
		return res, nil
	}
	res.ClearingReference = fmt.Sprintf("%s-%s", railName(req.PaymentType), strings.ToUpper(uuid.NewString()[:12]))
	res.SettlementDate = provider.SettlementDate(settlementDays(req.PaymentType))
	return res, nil
}

func (p *Provider) SimulateCancellation(ctx context.Context, req *payment.OperationRequest) (*payment.OperationResult, error) {
	res := payment.NewCancellationResult(req, p.Kind(), true)
	if settlesWithFinality(req.PaymentType) {
		payment.MarkCancellationUnsupported(res, railName(req.PaymentType))
		return res, nil
	}
	if err := p.ApplySca(ctx, payment.OpCancel, req, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (p *Provider) Cancel(ctx context.Context, req *payment.OperationRequest) (*payment.OperationResult, error) {
	res := payment.NewCancellationResult(req, p.Kind(), false)
	if settlesWithFinality(req.PaymentType) {
		payment.MarkCancellationUnsupported(res, railName(req.PaymentType))
		return res, nil
	}
	ok, err := p.Authorize(ctx, payment.OpCancel, req, res)
	if err != nil {
		return nil, err
	}
	if !ok {
		return res, nil
	}
	res.ClearingReference = fmt.Sprintf("STEP2-RCL-%s", strings.ToUpper(uuid.NewString()[:10]))
	return res, nil
}

func (p *Provider) Schedule(ctx context.Context, req *payment.OperationRequest) (*payment.OperationResult, error) {
	res := payment.NewScheduleResult(req, p.Kind())
	if !provider.ValidateSchedule(req, res) {
		return res, nil
	}
	if _, err := p.Authorize(ctx, payment.OpSchedule, req, res); err != nil {
		return nil, err
	}
	return res, nil
}
