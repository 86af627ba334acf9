package services

import (
	"context"

	"github.com/SscSPs/family_finance_engine/internal/core/domain"
	portssvc "github.com/SscSPs/family_finance_engine/internal/core/ports/services"
	"github.com/SscSPs/family_finance_engine/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// convertedAmount expresses txn in currency at the transaction's own date.
func convertedAmount(ctx context.Context, conv portssvc.Converter, txn domain.Transaction, currency string) (decimal.Decimal, error) {
	m, err := conv.Convert(ctx, txn.Amount, currency, txn.Date)
	if err != nil {
		return decimal.Zero, err
	}
	return m.Amount, nil
}

// sumConverted totals the amounts of txns in currency at money scale, ignoring type.
func sumConverted(ctx context.Context, conv portssvc.Converter, txns []domain.Transaction, currency string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, txn := range txns {
		amount, err := convertedAmount(ctx, conv, txn, currency)
		if err != nil {
			return decimal.Zero, err
		}
		total = accounting.Add(total, amount, accounting.MoneyScale)
	}
	return total, nil
}

// cashFlow holds income and expense totals; transfers are never counted.
type cashFlow struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

func (c cashFlow) Net() decimal.Decimal {
	return accounting.Sub(c.Income, c.Expenses, accounting.MoneyScale)
}

func (c *cashFlow) add(txnType domain.TransactionType, amount decimal.Decimal) {
	switch txnType {
	case domain.Income:
		c.Income = accounting.Add(c.Income, amount, accounting.MoneyScale)
	case domain.Expense:
		c.Expenses = accounting.Add(c.Expenses, amount, accounting.MoneyScale)
	}
}

func newCashFlow() cashFlow {
	return cashFlow{Income: decimal.Zero, Expenses: decimal.Zero}
}

func categoryKey(txn domain.Transaction) string {
	if txn.CategoryID == nil {
		return ""
	}
	return *txn.CategoryID
}
