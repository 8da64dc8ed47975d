package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inr(amount float64) Money {
	return NewMoneyINR(decimal.NewFromFloat(amount))
}

func TestNewMoney(t *testing.T) {
	t.Run("valid money", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(49.50), INR)
		require.NoError(t, err)
		assert.Equal(t, INR, m.Currency())
		assert.Equal(t, "49.50", m.StringFixed(2))
	})

	t.Run("empty currency rejected", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(1), "")
		assert.Error(t, err)
	})
}

func TestMoneyArithmetic(t *testing.T) {
	a := inr(100)
	b := inr(40.25)

	t.Run("add", func(t *testing.T) {
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, "140.25", sum.StringFixed(2))
	})

	t.Run("subtract", func(t *testing.T) {
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.Equal(t, "59.75", diff.StringFixed(2))
	})

	t.Run("currency mismatch", func(t *testing.T) {
		usd, err := NewMoney(decimal.NewFromInt(1), USD)
		require.NoError(t, err)
		_, err = a.Add(usd)
		assert.Error(t, err)
	})

	t.Run("multiply", func(t *testing.T) {
		m := inr(12.5).Multiply(decimal.NewFromInt(3))
		assert.Equal(t, "37.50", m.StringFixed(2))
	})

	t.Run("percentage", func(t *testing.T) {
		p := inr(2000).Percentage(decimal.NewFromInt(2))
		assert.Equal(t, "40.00", p.StringFixed(2))
	})

	t.Run("half", func(t *testing.T) {
		h := inr(18).Half()
		assert.Equal(t, "9.00", h.StringFixed(2))
	})
}

func TestMoneyFloorZero(t *testing.T) {
	neg := inr(10).MustSubtract(inr(25))
	assert.True(t, neg.IsNegative())
	assert.True(t, neg.FloorZero().IsZero())

	pos := inr(5)
	assert.True(t, pos.FloorZero().Equals(pos))
}

func TestMoneyMax(t *testing.T) {
	a := inr(40)
	b := inr(50)
	assert.True(t, Max(a, b).Equals(b))
	assert.True(t, Max(b, a).Equals(b))

	// equal values return the first operand, same amount either way
	assert.True(t, Max(a, a).Equals(a))
}

func TestMoneyRound(t *testing.T) {
	m := inr(10.005)
	assert.Equal(t, "10.01", m.Round(2).StringFixed(2))
}

func TestMoneyJSON(t *testing.T) {
	m := inr(123.45)
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"123.45","currency":"INR"}`, string(data))

	var back Money
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, m.Equals(back))
}
