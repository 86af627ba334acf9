package domain

import (
	"strings"

	"github.com/SscSPs/family_finance_engine/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// Money is a decimal quantity in a given currency. It never holds a binary float.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency" validate:"required,len=3,uppercase"`
}

// NewMoney builds a Money value, upper-casing the currency code.
func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount, Currency: strings.ToUpper(currency)}
}

// ZeroMoney returns a zero amount in currency.
func ZeroMoney(currency string) Money {
	return NewMoney(decimal.Zero, currency)
}

// String renders the amount at money scale, e.g. "92.0000".
func (m Money) String() string {
	return accounting.Format(m.Amount, accounting.MoneyScale)
}
