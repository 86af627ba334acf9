package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/family_finance_engine/internal/apperrors"
	"github.com/SscSPs/family_finance_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/family_finance_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/family_finance_engine/internal/core/ports/services"
	"github.com/SscSPs/family_finance_engine/internal/utils/accounting"
	"github.com/SscSPs/family_finance_engine/internal/utils/period"
	"github.com/shopspring/decimal"
)

// budgetService implements the BudgetSvc interface
type budgetService struct {
	BaseService
	budgetRepo portsrepo.BudgetReader
	ledger     portsrepo.LedgerReader
	rates      portssvc.ExchangeRateReaderSvc
}

// BudgetServiceOption is a functional option for configuring the budget service
type BudgetServiceOption func(*budgetService)

// WithBudgetClock overrides the clock used to resolve "today".
func WithBudgetClock(now func() time.Time) BudgetServiceOption {
	return func(s *budgetService) {
		s.now = now
	}
}

// NewBudgetService creates a new budget service with the provided options
func NewBudgetService(budgetRepo portsrepo.BudgetReader, ledger portsrepo.LedgerReader, rates portssvc.ExchangeRateReaderSvc, options ...BudgetServiceOption) portssvc.BudgetSvc {
	svc := &budgetService{
		budgetRepo: budgetRepo,
		ledger:     ledger,
		rates:      rates,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.BudgetSvc = (*budgetService)(nil)

func (s *budgetService) GetBudget(ctx context.Context, budgetID string) (*domain.Budget, error) {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to get budget", slog.String("budget_id", budgetID))
		return nil, fmt.Errorf("failed to get budget %s: %w", budgetID, err)
	}
	return budget, nil
}

func (s *budgetService) CalculateProgress(ctx context.Context, budget domain.Budget, asOf time.Time) (*domain.BudgetProgress, error) {
	if asOf.IsZero() {
		asOf = s.Today()
	}
	window := budget.WindowFor(asOf)

	txns, err := s.ledger.ListTransactions(ctx, portsrepo.TransactionFilter{
		AccountID:     budget.AccountID,
		Types:         []domain.TransactionType{domain.Expense},
		CategoryID:    budget.CategoryID,
		SubcategoryID: budget.SubcategoryID,
		Window:        window,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to load budget transactions",
			slog.String("budget_id", budget.BudgetID),
			slog.String("window", window.String()))
		return nil, fmt.Errorf("failed to load transactions for budget %s: %w", budget.BudgetID, err)
	}

	spent, err := sumConverted(ctx, s.rates.NewConverter(), txns, budget.Currency)
	if err != nil {
		s.LogError(ctx, err, "Failed to convert budget transactions", slog.String("budget_id", budget.BudgetID))
		return nil, err
	}

	progress := budgetProgress(budget, spent, window)
	s.LogDebug(ctx, "Budget progress calculated",
		slog.String("budget_id", budget.BudgetID),
		slog.String("window", window.String()),
		slog.Int("transactions", len(txns)))
	return progress, nil
}

func budgetProgress(budget domain.Budget, spent decimal.Decimal, window period.Window) *domain.BudgetProgress {
	amount := accounting.Round(budget.Amount, accounting.MoneyScale)
	return &domain.BudgetProgress{
		BudgetID:     budget.BudgetID,
		Currency:     budget.Currency,
		BudgetAmount: amount,
		Spent:        spent,
		Remaining:    accounting.Sub(amount, spent, accounting.MoneyScale),
		Percentage:   accounting.Percentage(spent, amount),
		IsOverspent:  accounting.Compare(spent, amount, accounting.MoneyScale) > 0,
		PeriodStart:  window.Start,
		PeriodEnd:    window.End,
	}
}
