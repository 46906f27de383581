// Package sepa implements the SEPA provider, serving SEPA_SCT and
// SEPA_INSTANT. Settlement is stubbed; the SCA gate and result shape are the
// real contract.
package sepa

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

// feeMinor is the flat per-transfer fee estimate in minor units.
const feeMinor = 35

// Provider is the SEPA backend.
type Provider struct {
	*provider.Base
}

// New creates the SEPA provider.
func New(engine *sca.Engine, refs refstore.Store) *Provider {
	return &Provider{Base: provider.NewBase("sepa-clearing", payment.SepaProvider, engine, refs, nil)}
}

func settlementDays(pt payment.PaymentType) int {
	if pt == payment.SepaInstant {
		return 0
	}
	return 1
}

func (p *Provider) Simulate(ctx context.Context, req *payment.OperationRequest) (*payment.OperationResult, error) {
	res := payment.NewSimulationResult(req, p.Kind(), feeMinor, true)
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
	res.ClearingReference = fmt.Sprintf("SCT-%s", strings.ToUpper(uuid.NewString()[:12]))
	res.SettlementDate = provider.SettlementDate(settlementDays(req.PaymentType))
	return res, nil
}

func (p *Provider) SimulateCancellation(ctx context.Context, req *payment.OperationRequest) (*payment.OperationResult, error) {
	res := payment.NewCancellationResult(req, p.Kind(), true)
	if err := p.ApplySca(ctx, payment.OpCancel, req, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (p *Provider) Cancel(ctx context.Context, req *payment.OperationRequest) (*payment.OperationResult, error) {
	res := payment.NewCancellationResult(req, p.Kind(), false)
	ok, err := p.Authorize(ctx, payment.OpCancel, req, res)
	if err != nil {
		return nil, err
	}
	if !ok {
		return res, nil
	}
	res.ClearingReference = fmt.Sprintf("CAMT-%s", strings.ToUpper(uuid.NewString()[:12]))
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
