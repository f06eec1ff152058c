package shared

import (
	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits stored for money and quantities.
const Scale = 2

// Money is a non-negative currency amount with exact decimal arithmetic.
type Money struct {
	amount decimal.Decimal
}

func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, NewValidationError("money", "amount", "must not be negative")
	}
	return Money{amount: amount.Round(Scale)}, nil
}

// MustMoney parses a literal such as "2500.00". It panics on malformed input.
func MustMoney(s string) Money {
	m, err := NewMoney(decimal.RequireFromString(s))
	if err != nil {
		panic(err)
	}
	return m
}

func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

func (m Money) Decimal() decimal.Decimal { return m.amount }

func (m Money) String() string { return m.amount.StringFixed(Scale) }

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Times multiplies a unit price by a quantity, rounding half away from zero to cents.
func (m Money) Times(q Quantity) Money {
	return Money{amount: m.amount.Mul(q.amount).Round(Scale)}
}

func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount)
}

func (m Money) IsZero() bool { return m.amount.IsZero() }

// Quantity is a strictly positive amount of a product in its unit (kg, units, ...).
type Quantity struct {
	amount decimal.Decimal
}

func NewQuantity(amount decimal.Decimal) (Quantity, error) {
	if !amount.IsPositive() {
		return Quantity{}, NewValidationError("quantity", "amount", "must be positive")
	}
	return Quantity{amount: amount.Round(Scale)}, nil
}

func MustQuantity(s string) Quantity {
	q, err := NewQuantity(decimal.RequireFromString(s))
	if err != nil {
		panic(err)
	}
	return q
}

func (q Quantity) Decimal() decimal.Decimal { return q.amount }

func (q Quantity) String() string { return q.amount.StringFixed(Scale) }

func (q Quantity) Equals(other Quantity) bool {
	return q.amount.Equal(other.amount)
}
