package ukpay_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/payment-rails/internal/payment"
	"github.com/yourorg/payment-rails/internal/provider/ukpay"
	"github.com/yourorg/payment-rails/internal/refstore"
	"github.com/yourorg/payment-rails/internal/sca"
	"github.com/yourorg/payment-rails/internal/sca/store"
)

func newProvider(t *testing.T) *ukpay.Provider {
	t.Helper()
	policy, err := sca.NewRequirementPolicy("", 50000)
	require.NoError(t, err)
	engine, err := sca.NewEngine(sca.Config{}, sca.Deps{
		Store:  store.NewMemoryStore(),
		Policy: policy,
		Codes:  sca.StaticCodeSource("123456"),
	})
	require.NoError(t, err)
	return ukpay.New(engine, refstore.NewMemoryStore())
}

func request(pt payment.PaymentType) *payment.OperationRequest {
	return &payment.OperationRequest{
		RequestID:       "req-1",
		PaymentType:     pt,
		AmountMinor:     10000,
		Currency:        "GBP",
		DebtorAccount:   "GB29NWBK60161331926819",
		CreditorAccount: "GB82WEST12345698765432",
	}
}

func TestSimulate_SchemeFees(t *testing.T) {
	p := newProvider(t)
	cases := []struct {
		pt  payment.PaymentType
		fee int64
	}{
		{payment.UKFasterPayment, 0},
		{payment.UKBacs, 23},
		{payment.UKChaps, 2500},
	}
	for _, tc := range cases {
		t.Run(string(tc.pt), func(t *testing.T) {
			res, err := p.Simulate(context.Background(), request(tc.pt))
			require.NoError(t, err)
			assert.True(t, res.Success)
			assert.Equal(t, tc.fee, res.FeeMinor)
		})
	}
}

func TestCancel_ChapsRejected(t *testing.T) {
	p := newProvider(t)

	res, err := p.Cancel(context.Background(), request(payment.UKChaps))
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.False(t, res.Feasible)
	assert.Equal(t, payment.ErrCodeCancellationNotSupported, res.ErrorCode)
	assert.Contains(t, res.ErrorMessage, "CHAPS")
}

func TestSimulateCancellation_ChapsRejected(t *testing.T) {
	p := newProvider(t)

	res, err := p.SimulateCancellation(context.Background(), request(payment.UKChaps))
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, payment.ErrCodeCancellationNotSupported, res.ErrorCode)
}

func TestCancel_FpsAndBacsSupported(t *testing.T) {
	for _, pt := range []payment.PaymentType{payment.UKFasterPayment, payment.UKBacs} {
		t.Run(string(pt), func(t *testing.T) {
			p := newProvider(t)
			res, err := p.Cancel(context.Background(), request(pt))
			require.NoError(t, err)
			assert.True(t, res.Success)
			assert.Equal(t, payment.StatusCancelled, res.Status)
			assert.Contains(t, res.ClearingReference, "-RTN-")
		})
	}
}

func TestExecute_SchemeReferencePrefix(t *testing.T) {
	p := newProvider(t)

	res, err := p.Execute(context.Background(), request(payment.UKFasterPayment))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Contains(t, res.ClearingReference, "FPS-")
}
