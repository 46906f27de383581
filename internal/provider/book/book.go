// Package book implements the internal transfer provider. Transfers move
// between accounts on the same ledger, settle instantly and carry no fee.
package book

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

// Provider is the internal transfer backend.
type Provider struct {
	*provider.Base
}

// New creates the internal transfer provider.
func New(engine *sca.Engine, refs refstore.Store) *Provider {
	return &Provider{Base: provider.NewBase("book-transfer", payment.InternalProvider, engine, refs, nil)}
}

func (p *Provider) Simulate(ctx context.Context, req *payment.OperationRequest) (*payment.OperationResult, error) {
	res := payment.NewSimulationResult(req, p.Kind(), 0, true)
	res.SettlementDate = provider.SettlementDate(0)
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
	res.ClearingReference = fmt.Sprintf("BOOK-%s", strings.ToUpper(uuid.NewString()[:12]))
	res.SettlementDate = provider.SettlementDate(0)
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
	res.ClearingReference = fmt.Sprintf("BOOK-REV-%s", strings.ToUpper(uuid.NewString()[:12]))
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
