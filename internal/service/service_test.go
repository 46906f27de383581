package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/payment-rails/internal/payment"
	"github.com/yourorg/payment-rails/internal/registry"
	"github.com/yourorg/payment-rails/internal/reporting"
	"github.com/yourorg/payment-rails/internal/sca"
	"github.com/yourorg/payment-rails/internal/service"
)

// mockProvider is a testify mock for the full provider contract.
type mockProvider struct {
	mock.Mock
	kind    payment.ProviderKind
	name    string
	healthy bool
}

func newMockProvider(kind payment.ProviderKind, name string) *mockProvider {
	return &mockProvider{kind: kind, name: name, healthy: true}
}

func (m *mockProvider) Kind() payment.ProviderKind { return m.kind }

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) IsHealthy(ctx context.Context) bool { return m.healthy }

func (m *mockProvider) Simulate(ctx context.Context, req *payment.OperationRequest) (*payment.OperationResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*payment.OperationResult)
	return res, args.Error(1)
}

func (m *mockProvider) Execute(ctx context.Context, req *payment.OperationRequest) (*payment.OperationResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*payment.OperationResult)
	return res, args.Error(1)
}

func (m *mockProvider) SimulateCancellation(ctx context.Context, req *payment.OperationRequest) (*payment.OperationResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*payment.OperationResult)
	return res, args.Error(1)
}

func (m *mockProvider) Cancel(ctx context.Context, req *payment.OperationRequest) (*payment.OperationResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*payment.OperationResult)
	return res, args.Error(1)
}

func (m *mockProvider) Schedule(ctx context.Context, req *payment.OperationRequest) (*payment.OperationResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*payment.OperationResult)
	return res, args.Error(1)
}

func (m *mockProvider) TriggerSca(ctx context.Context, recipient, method, referenceID string) (*sca.Challenge, error) {
	args := m.Called(ctx, recipient, method, referenceID)
	ch, _ := args.Get(0).(*sca.Challenge)
	return ch, args.Error(1)
}

func (m *mockProvider) ValidateSca(ctx context.Context, p *payment.ScaPayload) (*payment.ScaResult, error) {
	args := m.Called(ctx, p)
	res, _ := args.Get(0).(*payment.ScaResult)
	return res, args.Error(1)
}

var _ registry.Provider = (*mockProvider)(nil)

func sepaRequest() *payment.OperationRequest {
	return &payment.OperationRequest{
		RequestID:   "req-1",
		PaymentType: payment.SepaSCT,
		AmountMinor: 10000,
		Currency:    "EUR",
	}
}

func TestDispatch_RoutesToResolvedProvider(t *testing.T) {
	reg := registry.New()
	p := newMockProvider(payment.SepaProvider, "sepa")
	require.NoError(t, reg.Register(p))

	req := sepaRequest()
	want := payment.NewSimulationResult(req, payment.SepaProvider, 35, true)
	p.On("Simulate", mock.Anything, req).Return(want, nil).Once()

	svc := service.New(reg, service.Options{})
	got, err := svc.Simulate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	p.AssertExpectations(t)
}

func TestDispatch_NoProviderAvailable(t *testing.T) {
	svc := service.New(registry.New(), service.Options{})

	req := sepaRequest()
	req.PaymentType = payment.ACHCredit
	_, err := svc.Execute(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, payment.ErrNoProviderAvailable)
}

func TestDispatch_UnhealthyProvider(t *testing.T) {
	reg := registry.New()
	p := newMockProvider(payment.SepaProvider, "sepa")
	p.healthy = false
	require.NoError(t, reg.Register(p))

	svc := service.New(reg, service.Options{})
	_, err := svc.Simulate(context.Background(), sepaRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, payment.ErrProviderUnhealthy)
	p.AssertNotCalled(t, "Simulate", mock.Anything, mock.Anything)
}

func TestDispatch_TimeoutMapped(t *testing.T) {
	reg := registry.New()
	p := newMockProvider(payment.SepaProvider, "sepa")
	require.NoError(t, reg.Register(p))
	p.On("Simulate", mock.Anything, mock.Anything).Return(nil, context.DeadlineExceeded)

	svc := service.New(reg, service.Options{
		Timeouts: map[payment.ProviderKind]time.Duration{payment.SepaProvider: 10 * time.Millisecond},
	})
	_, err := svc.Simulate(context.Background(), sepaRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, payment.ErrProviderTimeout)
}

func TestDispatch_CircuitOpensAfterConsecutiveFailures(t *testing.T) {
	reg := registry.New()
	p := newMockProvider(payment.SepaProvider, "sepa")
	require.NoError(t, reg.Register(p))
	p.On("Simulate", mock.Anything, mock.Anything).Return(nil, errors.New("backend down"))

	svc := service.New(reg, service.Options{})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Simulate(ctx, sepaRequest())
		require.Error(t, err)
		assert.NotErrorIs(t, err, payment.ErrProviderUnhealthy, "breaker must stay closed for %d failures", i+1)
	}

	_, err := svc.Simulate(ctx, sepaRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, payment.ErrProviderUnhealthy, "breaker must be open after five consecutive failures")
}

func TestDispatch_NilResultWithoutError(t *testing.T) {
	reg := registry.New()
	p := newMockProvider(payment.SepaProvider, "sepa")
	require.NoError(t, reg.Register(p))

	// A misbehaving provider returning neither result nor error must surface
	// as an error, not a panic.
	p.On("Simulate", mock.Anything, mock.Anything).Return(nil, nil).Once()

	svc := service.New(reg, service.Options{})
	res, err := svc.Simulate(context.Background(), sepaRequest())
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "returned no result")
}

func TestDispatch_JournalsOutcome(t *testing.T) {
	reg := registry.New()
	p := newMockProvider(payment.SepaProvider, "sepa")
	require.NoError(t, reg.Register(p))

	req := sepaRequest()
	res := payment.NewExecutionResult(req, payment.SepaProvider, "SCT-ABC", "2026-09-02")
	p.On("Execute", mock.Anything, req).Return(res, nil).Once()

	journal := reporting.NewMemoryJournal()
	svc := service.New(reg, service.Options{Journal: journal})
	_, err := svc.Execute(context.Background(), req)
	require.NoError(t, err)

	entries := journal.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "execute", entries[0].Operation)
	assert.Equal(t, "sepa", entries[0].Rail)
	assert.Equal(t, "req-1", entries[0].RequestID)
	assert.True(t, entries[0].Success)
	assert.Equal(t, int64(10000), entries[0].AmountMinor)
}

func TestDispatch_AllOperations(t *testing.T) {
	reg := registry.New()
	p := newMockProvider(payment.SepaProvider, "sepa")
	require.NoError(t, reg.Register(p))

	req := sepaRequest()
	res := payment.NewSimulationResult(req, payment.SepaProvider, 0, true)
	p.On("SimulateCancellation", mock.Anything, req).Return(res, nil).Once()
	p.On("Cancel", mock.Anything, req).Return(res, nil).Once()
	p.On("Schedule", mock.Anything, req).Return(res, nil).Once()

	svc := service.New(reg, service.Options{})
	ctx := context.Background()

	_, err := svc.SimulateCancellation(ctx, req)
	assert.NoError(t, err)
	_, err = svc.Cancel(ctx, req)
	assert.NoError(t, err)
	_, err = svc.Schedule(ctx, req)
	assert.NoError(t, err)
	p.AssertExpectations(t)
}
