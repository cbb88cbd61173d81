package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAdd_SameCurrency(t *testing.T) {
	total, err := New(1000, "EUR").Add(New(250, "EUR"))
	assert.NoError(t, err)
	assert.Equal(t, New(1250, "EUR"), total)
}

func TestAdd_CurrencyMismatch(t *testing.T) {
	_, err := New(1000, "EUR").Add(New(250, "USD"))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestMul_RoundsHalfAwayFromZero(t *testing.T) {
	// 3 units at 333 subunits each stays exact.
	assert.Equal(t, int64(999), New(333, "EUR").Mul(decimal.NewFromInt(3)).Amount)

	// 1.5 * 333 = 499.5 rounds to 500.
	assert.Equal(t, int64(500), New(333, "EUR").Mul(decimal.NewFromFloat(1.5)).Amount)

	// Negative factor keeps the rounding symmetric.
	assert.Equal(t, int64(-500), New(333, "EUR").Mul(decimal.NewFromFloat(-1.5)).Amount)
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, int64(300), New(3000, "EUR").Percentage(decimal.NewFromInt(10)).Amount)
	assert.Equal(t, int64(-300), New(3000, "EUR").Percentage(decimal.NewFromInt(-10)).Amount)

	// 12.5% of 999 = 124.875 rounds to 125.
	assert.Equal(t, int64(125), New(999, "EUR").Percentage(decimal.NewFromFloat(12.5)).Amount)
}
