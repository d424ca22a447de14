package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func dp(v int64) *decimal.Decimal {
	out := decimal.NewFromInt(v)
	return &out
}

func TestAmountAdoptCompleteSnapshot(t *testing.T) {
	var a Amount
	a.adopt(&AmountDetails{Total: dp(100), Charged: dp(60), Canceled: dp(10), Remaining: dp(40)})

	assert.True(t, a.Total.Equal(d(100)))
	assert.True(t, a.Charged.Equal(d(60)))
	assert.True(t, a.Canceled.Equal(d(10)))
	assert.True(t, a.Remaining.Equal(d(40)))
	// total = charged + remaining must hold after adoption
	assert.True(t, a.Total.Equal(a.Charged.Add(a.Remaining)))
}

func TestAmountIgnoresPartialSnapshot(t *testing.T) {
	a := Amount{Total: d(100), Charged: d(0), Canceled: d(0), Remaining: d(100)}

	a.adopt(&AmountDetails{Total: dp(100), Charged: dp(60)})
	assert.True(t, a.Charged.IsZero(), "partial snapshot must not be applied")
	assert.True(t, a.Remaining.Equal(d(100)))

	a.adopt(nil)
	assert.True(t, a.Total.Equal(d(100)))
}

func TestAmountCompleted(t *testing.T) {
	a := Amount{Total: d(100), Charged: d(100)}
	require.True(t, a.Completed())

	a.Remaining = d(1)
	require.False(t, a.Completed())
}
