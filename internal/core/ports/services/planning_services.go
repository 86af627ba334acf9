package services

import (
	"context"
	"time"

	"github.com/SscSPs/family_finance_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BudgetSvc computes budget progress
type BudgetSvc interface {
	// GetBudget loads a budget by ID.
	GetBudget(ctx context.Context, budgetID string) (*domain.Budget, error)

	// CalculateProgress sums the budget's expenses in the period containing asOf.
	// A zero asOf means today.
	CalculateProgress(ctx context.Context, budget domain.Budget, asOf time.Time) (*domain.BudgetProgress, error)
}

// SavingsGoalSvc computes savings goal progress and projections
type SavingsGoalSvc interface {
	// GetSavingsGoal loads a savings goal by ID.
	GetSavingsGoal(ctx context.Context, goalID string) (*domain.SavingsGoal, error)

	// CalculateProgress evaluates the goal over [startDate, asOf]. A zero asOf means today.
	CalculateProgress(ctx context.Context, goal domain.SavingsGoal, asOf time.Time) (*domain.GoalProgress, error)

	// CalculateProjection extrapolates completion from monthlyContribution, or from the
	// trailing monthsForAverage months when it is nil. monthsForAverage <= 0 means 3.
	CalculateProjection(ctx context.Context, goal domain.SavingsGoal, monthlyContribution *decimal.Decimal, monthsForAverage int) (*domain.GoalProjection, error)
}

// AnalyticsSvc aggregates ledger data for dashboards and statistics
type AnalyticsSvc interface {
	// GetDashboardData summarises the month containing asOfMonth. A zero asOfMonth means the current month.
	GetDashboardData(ctx context.Context, account domain.Account, asOfMonth time.Time) (*domain.DashboardData, error)

	// GetStatisticsRange reports totals, a time series and a category breakdown for [start, end].
	GetStatisticsRange(ctx context.Context, account domain.Account, start, end time.Time) (*domain.StatisticsData, error)
}
