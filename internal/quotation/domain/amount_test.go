package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemAmount(t *testing.T) {
	tests := []struct {
		name         string
		quantity     int64
		durationDays int64
		unitPrice    float64
		expected     float64
		expectedErr  error
	}{
		{"single unit single day", 1, 1, 200, 200, nil},
		{"multiplies all three", 2, 3, 100, 600, nil},
		{"one unit five days", 1, 5, 200, 1000, nil},
		{"zero quantity", 0, 3, 100, 0, nil},
		{"zero price", 4, 2, 0, 0, nil},
		{"fractional price", 3, 1, 99.99, 299.97, nil},
		{"negative quantity", -1, 1, 100, 0, ErrInvalidAmountInput},
		{"negative duration", 1, -1, 100, 0, ErrInvalidAmountInput},
		{"negative price", 1, 1, -100, 0, ErrInvalidAmountInput},
		{"nan price", 1, 1, math.NaN(), 0, ErrInvalidAmountInput},
		{"infinite price", 1, 1, math.Inf(1), 0, ErrInvalidAmountInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := ItemAmount(tt.quantity, tt.durationDays, tt.unitPrice)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, amount, 1e-9)
		})
	}
}

func TestItemAmountOverflow(t *testing.T) {
	_, err := ItemAmount(math.MaxInt64, math.MaxInt64, math.MaxFloat64)
	assert.ErrorIs(t, err, ErrInvalidAmountInput)
}

func TestQuotationTotal(t *testing.T) {
	t.Run("sums recomputed amounts", func(t *testing.T) {
		items := []LineItem{
			{Quantity: 1, DurationDays: 5, UnitPrice: 200},
			{Quantity: 2, DurationDays: 1, UnitPrice: 50},
		}
		total, err := QuotationTotal(items)
		require.NoError(t, err)
		assert.InDelta(t, 1100, total, 1e-9)
	})

	t.Run("ignores stale stored amounts", func(t *testing.T) {
		items := []LineItem{
			{Quantity: 2, DurationDays: 3, UnitPrice: 100, Amount: 999999},
		}
		total, err := QuotationTotal(items)
		require.NoError(t, err)
		assert.InDelta(t, 600, total, 1e-9)
	})

	t.Run("empty totals to zero", func(t *testing.T) {
		total, err := QuotationTotal(nil)
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("bad item fails the whole total", func(t *testing.T) {
		items := []LineItem{
			{Quantity: 1, DurationDays: 1, UnitPrice: 100},
			{Quantity: -1, DurationDays: 1, UnitPrice: 100},
		}
		_, err := QuotationTotal(items)
		assert.ErrorIs(t, err, ErrInvalidAmountInput)
	})
}
