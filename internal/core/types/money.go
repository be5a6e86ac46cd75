// Package types provides the monetary type shared by products and documents.
package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
type Money = decimal.Decimal

// MoneyScale is the number of fractional digits prices are rounded to on input.
const MoneyScale = 4

// NewMoney creates a Money value from a float, rounded to MoneyScale.
// JSON prices arrive as floats; rounding drops binary noise such as 0.30000000000000004.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f).Round(MoneyScale)
}

// NewMoneyFromString creates a Money value from a string.
func NewMoneyFromString(s string) (Money, error) {
	m, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("parse money %q: %w", s, err)
	}
	return m, nil
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	return decimal.RequireFromString(s)
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// LineTotal is price multiplied by an integer quantity.
func LineTotal(price Money, quantity int64) Money {
	return price.Mul(decimal.NewFromInt(quantity))
}
