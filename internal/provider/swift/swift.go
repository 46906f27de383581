// Package swift implements the SWIFT provider for MT103 and MT202 transfers.
// Executed transfers get a synthetic UETR as their clearing reference.
package swift

import (
	"context"

	"github.com/google/uuid"

	"github.com/yourorg/payment-rails/internal/payment"
	"github.com/yourorg/payment-rails/internal/provider"
	"github.com/yourorg/payment-rails/internal/refstore"
	"github.com/yourorg/payment-rails/internal/sca"
)

const (
	// Correspondent banking fees: a floor plus 10 basis points.
	minFeeMinor = 1500
	feeBps      = 10
)

// Provider is the SWIFT backend.
type Provider struct {
	*provider.Base
}

// New creates the SWIFT provider.
func New(engine *sca.Engine, refs refstore.Store) *Provider {
	return &Provider{Base: provider.NewBase("swift-gateway", payment.SwiftProvider, engine, refs, nil)}
}

func fee(amountMinor int64) int64 {
	f := amountMinor * feeBps / 10000
	if f < minFeeMinor {
		return minFeeMinor
	}
	return f
}

func (p *Provider) Simulate(ctx context.Context, req *payment.OperationRequest) (*payment.OperationResult, error) {
	res := payment.NewSimulationResult(req, p.Kind(), fee(req.AmountMinor), true)
	res.SettlementDate = provider.SettlementDate(2)
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
	// The UETR travels in block 3 field 121 of the outgoing message.
	res.ClearingReference = uuid.NewString()
	res.SettlementDate = provider.SettlementDate(2)
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
	// Recall requests ride on an MT192; outcome stays best-effort.
	res.ClearingReference = uuid.NewString()
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
