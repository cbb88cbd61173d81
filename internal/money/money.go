package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrCurrencyMismatch is returned when arithmetic combines two currencies.
// Listing prices, shipping tiers and commission bases must all share one
// currency, so hitting this indicates bad upstream data rather than user input.
var ErrCurrencyMismatch = errors.New("currency_mismatch")

// Money is an amount in minor units (cents, pence, ...) of an ISO 4217 currency.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func New(amount int64, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

func Zero(currency string) Money {
	return Money{Amount: 0, Currency: currency}
}

func (m Money) IsZero() bool {
	return m.Amount == 0
}

// Add sums two amounts of the same currency.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}, nil
}

// Mul multiplies the amount by an exact decimal factor and rounds half away
// from zero to the nearest minor unit.
func (m Money) Mul(factor decimal.Decimal) Money {
	amount := decimal.NewFromInt(m.Amount).Mul(factor).Round(0)
	return Money{Amount: amount.IntPart(), Currency: m.Currency}
}

// Percentage applies a percentage (15.5 means 15.5%) to the amount.
// Negative percentages yield negative amounts.
func (m Money) Percentage(percentage decimal.Decimal) Money {
	return m.Mul(percentage.Div(decimal.NewFromInt(100)))
}

func (m Money) Decimal() decimal.Decimal {
	return decimal.NewFromInt(m.Amount)
}

func (m Money) String() string {
	return fmt.Sprintf("%d %s", m.Amount, m.Currency)
}
