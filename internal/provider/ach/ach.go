// Package ach implements the ACH provider for credit and debit entries.
package ach

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

const feeMinor = 25

// Provider is the ACH backend.
type Provider struct {
	*provider.Base
}

// New creates the ACH provider.
func New(engine *sca.Engine, refs refstore.Store) *Provider {
	return &Provider{Base: provider.NewBase("ach-operator", payment.ACHProvider, engine, refs, nil)}
}

func settlementDays(pt payment.PaymentType) int {
	// Debits carry the return window, credits clear next business day.
	if pt == payment.ACHDebit {
		return 2
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
	res.ClearingReference = fmt.Sprintf("ACH-%s", strings.ToUpper(uuid.NewString()[:15]))
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
	res.ClearingReference = fmt.Sprintf("ACH-REV-%s", strings.ToUpper(uuid.NewString()[:12]))
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
