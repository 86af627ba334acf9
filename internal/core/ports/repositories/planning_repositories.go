package repositories

import (
	"context"

	"github.com/SscSPs/family_finance_engine/internal/core/domain"
)

// BudgetReader defines read operations for budgets
type BudgetReader interface {
	// FindBudgetByID retrieves a live budget by its ID.
	FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error)

	// ListBudgets retrieves the live budgets of an account with the given period.
	ListBudgets(ctx context.Context, accountID string, period domain.BudgetPeriod) ([]domain.Budget, error)
}

// SavingsGoalReader defines read operations for savings goals
type SavingsGoalReader interface {
	// FindSavingsGoalByID retrieves a live savings goal by its ID.
	FindSavingsGoalByID(ctx context.Context, goalID string) (*domain.SavingsGoal, error)

	// ListSavingsGoals retrieves the live savings goals of an account.
	ListSavingsGoals(ctx context.Context, accountID string) ([]domain.SavingsGoal, error)
}
