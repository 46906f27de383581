package sca

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/payment-rails/internal/payment"
)

func TestRequirementPolicy_Threshold(t *testing.T) {
	policy, err := NewRequirementPolicy("", 50000)
	require.NoError(t, err)

	t.Run("below threshold", func(t *testing.T) {
		required, err := policy.Required(payment.OpSimulate, 10000, "EUR", "DE89370400440532013000")
		require.NoError(t, err)
		assert.False(t, required)
	})

	t.Run("at threshold", func(t *testing.T) {
		required, err := policy.Required(payment.OpSimulate, 50000, "EUR", "DE89370400440532013000")
		require.NoError(t, err)
		assert.False(t, required)
	})

	t.Run("above threshold", func(t *testing.T) {
		required, err := policy.Required(payment.OpSimulate, 50001, "EUR", "DE89370400440532013000")
		require.NoError(t, err)
		assert.True(t, required)
	})
}

func TestRequirementPolicy_RiskFlag(t *testing.T) {
	policy, err := NewRequirementPolicy("", 50000)
	require.NoError(t, err)

	// Small amount to a flagged destination still demands authentication.
	required, err := policy.Required(payment.OpExecute, 100, "EUR", "IR062960000000100324200001")
	require.NoError(t, err)
	assert.True(t, required)

	required, err = policy.Required(payment.OpExecute, 100, "EUR", "FR1420041010050500013M02606")
	require.NoError(t, err)
	assert.False(t, required)
}

func TestRequirementPolicy_Deterministic(t *testing.T) {
	policy, err := NewRequirementPolicy("", 50000)
	require.NoError(t, err)

	first, err := policy.Required(payment.OpCancel, 75000, "USD", "GB29NWBK60161331926819")
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		again, err := policy.Required(payment.OpCancel, 75000, "USD", "GB29NWBK60161331926819")
		require.NoError(t, err)
		assert.Equal(t, first, again, "same inputs must always produce the same answer")
	}
}

func TestRequirementPolicy_CustomExpression(t *testing.T) {
	policy, err := NewRequirementPolicy(`operation == "EXECUTE" && amount_minor > 0`, 50000)
	require.NoError(t, err)

	required, err := policy.Required(payment.OpExecute, 1, "EUR", "")
	require.NoError(t, err)
	assert.True(t, required)

	required, err = policy.Required(payment.OpSimulate, 1000000, "EUR", "")
	require.NoError(t, err)
	assert.False(t, required)
}

func TestRequirementPolicy_FailsClosed(t *testing.T) {
	t.Run("invalid expression rejected at compile", func(t *testing.T) {
		_, err := NewRequirementPolicy("amount_minor >", 50000)
		assert.Error(t, err)
	})

	t.Run("non-bool expression demands sca", func(t *testing.T) {
		policy, err := NewRequirementPolicy("amount_minor + 1", 50000)
		require.NoError(t, err)
		required, err := policy.Required(payment.OpSimulate, 1, "EUR", "")
		assert.Error(t, err)
		assert.True(t, required)
	})
}
