// Package cards implements the card network provider. Executing a payment
// packs a synthetic ISO 8583 authorization request and uses its retrieval
// reference number as the clearing reference; no acquirer connection exists
// behind it.
package cards

import (
	"context"
	"fmt"
	"time"

	"github.com/moov-io/iso8583"
	"github.com/moov-io/iso8583/specs"

	"github.com/yourorg/payment-rails/internal/payment"
	"github.com/yourorg/payment-rails/internal/provider"
	"github.com/yourorg/payment-rails/internal/refstore"
	"github.com/yourorg/payment-rails/internal/sca"
)

const (
	percentFeeBps = 290 // 2.9%
	flatFeeMinor  = 30
)

// Provider is the card network backend.
type Provider struct {
	*provider.Base
	spec *iso8583.MessageSpec
}

// New creates the card provider.
func New(engine *sca.Engine, refs refstore.Store) *Provider {
	return &Provider{
		Base: provider.NewBase("card-network", payment.CardProvider, engine, refs, nil),
		spec: specs.Spec87ASCII,
	}
}

func fee(amountMinor int64) int64 {
	return amountMinor*percentFeeBps/10000 + flatFeeMinor
}

// authorizationReference packs an authorization request and returns the
// retrieval reference carried in field 37.
func (p *Provider) authorizationReference(req *payment.OperationRequest) (string, error) {
	now := time.Now().UTC()
	stan := fmt.Sprintf("%06d", now.UnixNano()%1000000)
	rrn := fmt.Sprintf("%s%s", now.Format("060102"), stan)

	msg := iso8583.NewMessage(p.spec)
	msg.MTI("0100")
	if err := msg.Field(4, fmt.Sprintf("%012d", req.AmountMinor)); err != nil {
		return "", fmt.Errorf("cards: setting amount: %w", err)
	}
	if err := msg.Field(11, stan); err != nil {
		return "", fmt.Errorf("cards: setting STAN: %w", err)
	}
	if err := msg.Field(37, rrn); err != nil {
		return "", fmt.Errorf("cards: setting RRN: %w", err)
	}
	if _, err := msg.Pack(); err != nil {
		return "", fmt.Errorf("cards: packing authorization request: %w", err)
	}
	return rrn, nil
}

func (p *Provider) Simulate(ctx context.Context, req *payment.OperationRequest) (*payment.OperationResult, error) {
	res := payment.NewSimulationResult(req, p.Kind(), fee(req.AmountMinor), true)
	res.SettlementDate = provider.SettlementDate(1)
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
	rrn, err := p.authorizationReference(req)
	if err != nil {
		return nil, err
	}
	res.ClearingReference = rrn
	res.SettlementDate = provider.SettlementDate(1)
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
	// Reversal advice reuses the authorization flow.
	rrn, err := p.authorizationReference(req)
	if err != nil {
		return nil, err
	}
	res.ClearingReference = rrn
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
