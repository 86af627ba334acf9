package accounting

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Scales used across the engine.
const (
	MoneyScale   int32 = 4
	PercentScale int32 = 2
	// RateScale is the precision kept for derived (inverse) exchange rates.
	RateScale int32 = 10
)

var hundred = decimal.NewFromInt(100)

// Round rounds d to scale digits, half away from zero.
func Round(d decimal.Decimal, scale int32) decimal.Decimal {
	return d.Round(scale)
}

// Add returns a+b rounded to scale.
func Add(a, b decimal.Decimal, scale int32) decimal.Decimal {
	return a.Add(b).Round(scale)
}

// Sub returns a-b rounded to scale.
func Sub(a, b decimal.Decimal, scale int32) decimal.Decimal {
	return a.Sub(b).Round(scale)
}

// Mul returns a*b rounded to scale.
func Mul(a, b decimal.Decimal, scale int32) decimal.Decimal {
	return a.Mul(b).Round(scale)
}

// Div returns a/b rounded to scale. A zero divisor yields zero instead of panicking.
func Div(a, b decimal.Decimal, scale int32) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.DivRound(b, scale)
}

// Compare compares a and b after rounding both to scale. It returns -1, 0 or 1.
func Compare(a, b decimal.Decimal, scale int32) int {
	return a.Round(scale).Cmp(b.Round(scale))
}

// Percentage returns part/whole*100 at PercentScale. A non-positive whole yields zero.
func Percentage(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Mul(hundred).DivRound(whole, PercentScale)
}

// CeilQuotient returns ceil(a/b) as an integer for b > 0. It is exact: the
// remainder is checked rather than relying on a rounded quotient.
func CeilQuotient(a, b decimal.Decimal) int64 {
	if !b.IsPositive() {
		return 0
	}
	q, r := a.QuoRem(b, 0)
	if r.IsPositive() {
		q = q.Add(decimal.NewFromInt(1))
	}
	return q.IntPart()
}

// Parse reads a decimal from its string form, accepting surrounding whitespace.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	return d, nil
}

// Format renders d with exactly scale fractional digits.
func Format(d decimal.Decimal, scale int32) string {
	return d.StringFixed(scale)
}
