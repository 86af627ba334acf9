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

// DefaultMonthsForAverage is the trailing window used when a projection is asked for without one.
const DefaultMonthsForAverage = 3

// daysPerMonth converts a day count into months for the required contribution.
var daysPerMonth = decimal.NewFromInt(30)

// savingsGoalService implements the SavingsGoalSvc interface
type savingsGoalService struct {
	BaseService
	goalRepo portsrepo.SavingsGoalReader
	ledger   portsrepo.LedgerReader
	rates    portssvc.ExchangeRateReaderSvc
}

// SavingsGoalServiceOption is a functional option for configuring the savings goal service
type SavingsGoalServiceOption func(*savingsGoalService)

// WithSavingsGoalClock overrides the clock used to resolve "today".
func WithSavingsGoalClock(now func() time.Time) SavingsGoalServiceOption {
	return func(s *savingsGoalService) {
		s.now = now
	}
}

// NewSavingsGoalService creates a new savings goal service with the provided options
func NewSavingsGoalService(goalRepo portsrepo.SavingsGoalReader, ledger portsrepo.LedgerReader, rates portssvc.ExchangeRateReaderSvc, options ...SavingsGoalServiceOption) portssvc.SavingsGoalSvc {
	svc := &savingsGoalService{
		goalRepo: goalRepo,
		ledger:   ledger,
		rates:    rates,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.SavingsGoalSvc = (*savingsGoalService)(nil)

func (s *savingsGoalService) GetSavingsGoal(ctx context.Context, goalID string) (*domain.SavingsGoal, error) {
	goal, err := s.goalRepo.FindSavingsGoalByID(ctx, goalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to get savings goal", slog.String("goal_id", goalID))
		return nil, fmt.Errorf("failed to get savings goal %s: %w", goalID, err)
	}
	return goal, nil
}

func (s *savingsGoalService) CalculateProgress(ctx context.Context, goal domain.SavingsGoal, asOf time.Time) (*domain.GoalProgress, error) {
	if asOf.IsZero() {
		asOf = s.Today()
	}
	asOf = period.Day(asOf)

	contributed, err := s.contributions(ctx, s.rates.NewConverter(), goal, period.Between(goal.StartDate, asOf))
	if err != nil {
		return nil, err
	}

	target := accounting.Round(goal.TargetAmount, accounting.MoneyScale)
	current := accounting.Add(goal.InitialAmount, contributed, accounting.MoneyScale)

	return &domain.GoalProgress{
		GoalID:        goal.GoalID,
		Currency:      goal.Currency,
		TargetAmount:  target,
		CurrentAmount: current,
		Contributed:   contributed,
		Remaining:     accounting.Sub(target, current, accounting.MoneyScale),
		Percentage:    accounting.Percentage(current, target),
		IsComplete:    accounting.Compare(current, target, accounting.MoneyScale) >= 0,
		AsOf:          asOf,
	}, nil
}

func (s *savingsGoalService) CalculateProjection(ctx context.Context, goal domain.SavingsGoal, monthlyContribution *decimal.Decimal, monthsForAverage int) (*domain.GoalProjection, error) {
	if monthsForAverage <= 0 {
		monthsForAverage = DefaultMonthsForAverage
	}
	today := s.Today()
	conv := s.rates.NewConverter()

	trailing := period.Between(period.AddMonths(today, -monthsForAverage), today)
	trailingTotal, err := s.contributions(ctx, conv, goal, trailing)
	if err != nil {
		return nil, err
	}
	average := accounting.Div(trailingTotal, decimal.NewFromInt(int64(monthsForAverage)), accounting.MoneyScale)

	monthlyUsed := average
	if monthlyContribution != nil {
		monthlyUsed = accounting.Round(*monthlyContribution, accounting.MoneyScale)
	}

	progress, err := s.CalculateProgress(ctx, goal, today)
	if err != nil {
		return nil, err
	}
	remaining := progress.Remaining

	projection := &domain.GoalProjection{
		GoalID:           goal.GoalID,
		Currency:         goal.Currency,
		AverageMonthly:   average,
		MonthlyUsed:      monthlyUsed,
		MonthsForAverage: monthsForAverage,
	}

	switch {
	case !remaining.IsPositive():
		projection.ProjectedCompletionDate = &today
	case monthlyUsed.IsPositive():
		months := accounting.CeilQuotient(remaining, monthlyUsed)
		if months < 1 {
			months = 1
		}
		completion := period.AddMonths(today, int(months))
		projection.ProjectedCompletionDate = &completion
	}

	target := period.Day(goal.TargetDate)
	switch {
	case !remaining.IsPositive():
		zero := accounting.Round(decimal.Zero, accounting.MoneyScale)
		projection.RequiredMonthly = &zero
	case target.After(today):
		days := decimal.NewFromInt(int64(period.DaysBetween(today, target)))
		months := accounting.CeilQuotient(days, daysPerMonth)
		if months < 1 {
			months = 1
		}
		required := accounting.Div(remaining, decimal.NewFromInt(months), accounting.MoneyScale)
		projection.RequiredMonthly = &required
	}

	s.LogDebug(ctx, "Savings goal projection calculated",
		slog.String("goal_id", goal.GoalID),
		slog.String("monthly_used", monthlyUsed.String()),
		slog.String("remaining", remaining.String()))
	return projection, nil
}

// contributions sums what the goal's tracking mode counts inside window, in the goal currency.
func (s *savingsGoalService) contributions(ctx context.Context, conv portssvc.Converter, goal domain.SavingsGoal, window period.Window) (decimal.Decimal, error) {
	filter := portsrepo.TransactionFilter{
		AccountID: goal.AccountID,
		UserID:    goal.UserID,
		Window:    window,
		Types:     []domain.TransactionType{domain.Expense},
	}

	switch goal.TrackingMode {
	case domain.TrackNetSavings:
		filter.Types = []domain.TransactionType{domain.Income, domain.Expense}
	case domain.TrackCategory:
		filter.CategoryID = goal.CategoryID
	case domain.TrackSubcategory:
		// Without a subcategory the goal degrades to its category, then to the whole account.
		if goal.SubcategoryID != nil {
			filter.SubcategoryID = goal.SubcategoryID
		} else {
			filter.CategoryID = goal.CategoryID
		}
	case domain.TrackManual:
		return decimal.Zero, nil
	default:
		s.LogWarn(ctx, "Unknown tracking mode, counting no contributions",
			slog.String("goal_id", goal.GoalID),
			slog.String("tracking_mode", string(goal.TrackingMode)))
		return decimal.Zero, nil
	}

	txns, err := s.ledger.ListTransactions(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to load goal transactions",
			slog.String("goal_id", goal.GoalID),
			slog.String("window", window.String()))
		return decimal.Zero, fmt.Errorf("failed to load transactions for goal %s: %w", goal.GoalID, err)
	}

	flow := newCashFlow()
	for _, txn := range txns {
		amount, err := convertedAmount(ctx, conv, txn, goal.Currency)
		if err != nil {
			return decimal.Zero, err
		}
		flow.add(txn.Type, amount)
	}

	if goal.TrackingMode == domain.TrackNetSavings {
		return flow.Net(), nil
	}
	return flow.Expenses, nil
}
