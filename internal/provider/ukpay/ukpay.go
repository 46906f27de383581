// Package ukpay implements the UK schemes provider: Faster Payments, Bacs
// and CHAPS. CHAPS is an RTGS scheme; a submitted CHAPS payment cannot be
// recalled, so cancellation is rejected for it while FPS and Bacs allow it.
package ukpay

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

// Provider is the UK schemes backend.
type Provider struct {
	*provider.Base
}

// New creates the UK schemes provider.
func New(engine *sca.Engine, refs refstore.Store) *Provider {
	return &Provider{Base: provider.NewBase("uk-schemes", payment.UKProvider, engine, refs, nil)}
}

func fee(pt payment.PaymentType) int64 {
	switch pt {
	case payment.UKChaps:
		return 2500
	case payment.UKBacs:
		return 23
	default: // FPS
		return 0
	}
}

func settlementDays(pt payment.PaymentType) int {
	switch pt {
	case payment.UKBacs:
		return 3
	default: // FPS is near-instant, CHAPS same-day
		return 0
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
	res.ClearingReference = fmt.Sprintf("%s-%s", schemePrefix(req.PaymentType), strings.ToUpper(uuid.NewString()[:12]))
	res.SettlementDate = provider.SettlementDate(settlementDays(req.PaymentType))
	return res, nil
}

func (p *Provider) SimulateCancellation(ctx context.Context, req *payment.OperationRequest) (*payment.OperationResult, error) {
	res := payment.NewCancellationResult(req, p.Kind(), true)
	if req.PaymentType == payment.UKChaps {
		payment.MarkCancellationUnsupported(res, "CHAPS")
		return res, nil
	}
	if err := p.ApplySca(ctx, payment.OpCancel, req, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (p *Provider) Cancel(ctx context.Context, req *payment.OperationRequest) (*payment.OperationResult, error) {
	res := payment.NewCancellationResult(req, p.Kind(), false)
	if req.PaymentType == payment.UKChaps {
		payment.MarkCancellationUnsupported(res, "CHAPS")
		return res, nil
	}
	ok, err := p.Authorize(ctx, payment.OpCancel, req, res)
	if err != nil {
		return nil, err
	}
	if !ok {
		return res, nil
	}
	res.ClearingReference = fmt.Sprintf("%s-RTN-%s", schemePrefix(req.PaymentType), strings.ToUpper(uuid.NewString()[:10]))
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

func schemePrefix(pt payment.PaymentType) string {
	switch pt {
	case payment.UKChaps:
		return "CHAPS"
	case payment.UKBacs:
		return "BACS"
	default:
		return "FPS"
	}
}
