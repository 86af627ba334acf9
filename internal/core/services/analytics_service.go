package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/family_finance_engine/internal/apperrors"
	"github.com/SscSPs/family_finance_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/family_finance_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/family_finance_engine/internal/core/ports/services"
	"github.com/SscSPs/family_finance_engine/internal/utils/accounting"
	"github.com/SscSPs/family_finance_engine/internal/utils/period"
	"github.com/shopspring/decimal"
)

const (
	// DefaultTrendMonths is the number of months covered by dashboard category trends.
	DefaultTrendMonths = 6
	// maxDailySeriesDays is the longest range still reported with one bucket per day.
	maxDailySeriesDays = 31
	uncategorizedName  = "Uncategorized"
)

// analyticsService implements the AnalyticsSvc interface
type analyticsService struct {
	BaseService
	ledger      portsrepo.LedgerReader
	budgetRepo  portsrepo.BudgetReader
	budgets     portssvc.BudgetSvc
	accounts    portssvc.AccountReaderSvc
	rates       portssvc.ExchangeRateReaderSvc
	trendMonths int
}

// AnalyticsServiceOption is a functional option for configuring the analytics service
type AnalyticsServiceOption func(*analyticsService)

// WithTrendMonths sets how many months the dashboard category trends cover.
func WithTrendMonths(months int) AnalyticsServiceOption {
	return func(s *analyticsService) {
		if months > 0 {
			s.trendMonths = months
		}
	}
}

// WithAnalyticsClock overrides the clock used to resolve the current month.
func WithAnalyticsClock(now func() time.Time) AnalyticsServiceOption {
	return func(s *analyticsService) {
		s.now = now
	}
}

// WithCategoryNames labels category breakdowns with names from the account service.
func WithCategoryNames(accounts portssvc.AccountReaderSvc) AnalyticsServiceOption {
	return func(s *analyticsService) {
		s.accounts = accounts
	}
}

// NewAnalyticsService creates a new analytics service with the provided options
func NewAnalyticsService(ledger portsrepo.LedgerReader, budgetRepo portsrepo.BudgetReader, budgets portssvc.BudgetSvc, rates portssvc.ExchangeRateReaderSvc, options ...AnalyticsServiceOption) portssvc.AnalyticsSvc {
	svc := &analyticsService{
		ledger:      ledger,
		budgetRepo:  budgetRepo,
		budgets:     budgets,
		rates:       rates,
		trendMonths: DefaultTrendMonths,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.AnalyticsSvc = (*analyticsService)(nil)

func (s *analyticsService) GetDashboardData(ctx context.Context, account domain.Account, asOfMonth time.Time) (*domain.DashboardData, error) {
	if asOfMonth.IsZero() {
		asOfMonth = s.Today()
	}
	month := period.Month(asOfMonth)
	conv := s.rates.NewConverter()

	names, err := s.categoryNames(ctx, account.AccountID)
	if err != nil {
		return nil, err
	}

	txns, err := s.cashFlowTransactions(ctx, account.AccountID, month)
	if err != nil {
		return nil, err
	}

	flow := newCashFlow()
	byCategory := make(map[string]decimal.Decimal)
	for _, txn := range txns {
		amount, err := convertedAmount(ctx, conv, txn, account.BaseCurrency)
		if err != nil {
			return nil, err
		}
		flow.add(txn.Type, amount)
		if txn.Type == domain.Expense {
			key := categoryKey(txn)
			byCategory[key] = accounting.Add(byCategory[key], amount, accounting.MoneyScale)
		}
	}

	usage, err := s.budgetUsage(ctx, account.AccountID, month)
	if err != nil {
		return nil, err
	}

	trends, err := s.categoryTrends(ctx, conv, account, month, names)
	if err != nil {
		return nil, err
	}

	data := &domain.DashboardData{
		AccountID:            account.AccountID,
		Currency:             account.BaseCurrency,
		Month:                period.MonthKey(month.Start),
		CurrentMonthIncome:   flow.Income,
		CurrentMonthExpenses: flow.Expenses,
		NetCashFlow:          flow.Net(),
		ExpensesByCategory:   rankCategories(byCategory, names),
		BudgetUsage:          usage,
		CategoryTrends:       trends,
	}

	s.LogInfo(ctx, "Dashboard data generated",
		slog.String("account_id", account.AccountID),
		slog.String("month", data.Month),
		slog.Int("transactions", len(txns)),
		slog.Int("budgets", len(usage)))
	return data, nil
}

func (s *analyticsService) GetStatisticsRange(ctx context.Context, account domain.Account, start, end time.Time) (*domain.StatisticsData, error) {
	start, end = period.Day(start), period.Day(end)
	if start.IsZero() || end.IsZero() {
		return nil, apperrors.NewValidationError("start and end dates are required")
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: start date %s is after end date %s",
			apperrors.ErrValidation, period.DateKey(start), period.DateKey(end))
	}
	window := period.Between(start, end)
	conv := s.rates.NewConverter()

	names, err := s.categoryNames(ctx, account.AccountID)
	if err != nil {
		return nil, err
	}

	txns, err := s.cashFlowTransactions(ctx, account.AccountID, window)
	if err != nil {
		return nil, err
	}

	granularity := domain.ByMonth
	if period.DaysBetween(start, end)+1 <= maxDailySeriesDays {
		granularity = domain.ByDay
	}
	keys := bucketKeys(window, granularity)
	buckets := make(map[string]*cashFlow, len(keys))
	for _, k := range keys {
		flow := newCashFlow()
		buckets[k] = &flow
	}

	total := newCashFlow()
	byCategory := make(map[string]decimal.Decimal)
	for _, txn := range txns {
		amount, err := convertedAmount(ctx, conv, txn, account.BaseCurrency)
		if err != nil {
			return nil, err
		}
		total.add(txn.Type, amount)
		if bucket, ok := buckets[bucketKey(txn.Date, granularity)]; ok {
			bucket.add(txn.Type, amount)
		}
		if txn.Type == domain.Expense {
			key := categoryKey(txn)
			byCategory[key] = accounting.Add(byCategory[key], amount, accounting.MoneyScale)
		}
	}

	series := make([]domain.SeriesPoint, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		series = append(series, domain.SeriesPoint{Key: k, Income: b.Income, Expenses: b.Expenses, Net: b.Net()})
	}

	s.LogInfo(ctx, "Statistics generated",
		slog.String("account_id", account.AccountID),
		slog.String("window", window.String()),
		slog.String("granularity", string(granularity)),
		slog.Int("transactions", len(txns)))

	return &domain.StatisticsData{
		AccountID:         account.AccountID,
		Currency:          account.BaseCurrency,
		StartDate:         start,
		EndDate:           end,
		Granularity:       granularity,
		TotalIncome:       total.Income,
		TotalExpenses:     total.Expenses,
		NetCashFlow:       total.Net(),
		Series:            series,
		CategoryBreakdown: rankCategories(byCategory, names),
	}, nil
}

func (s *analyticsService) cashFlowTransactions(ctx context.Context, accountID string, window period.Window) ([]domain.Transaction, error) {
	txns, err := s.ledger.ListTransactions(ctx, portsrepo.TransactionFilter{
		AccountID: accountID,
		Types:     []domain.TransactionType{domain.Income, domain.Expense},
		Window:    window,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions",
			slog.String("account_id", accountID),
			slog.String("window", window.String()))
		return nil, fmt.Errorf("failed to load transactions for account %s: %w", accountID, err)
	}
	return txns, nil
}

func (s *analyticsService) categoryNames(ctx context.Context, accountID string) (map[string]string, error) {
	if s.accounts == nil {
		return map[string]string{}, nil
	}
	return s.accounts.CategoryNames(ctx, accountID)
}

// budgetUsage reports every monthly budget whose span covers month, including budgets with no spending.
func (s *analyticsService) budgetUsage(ctx context.Context, accountID string, month period.Window) ([]domain.BudgetProgress, error) {
	budgets, err := s.budgetRepo.ListBudgets(ctx, accountID, domain.Monthly)
	if err != nil {
		s.LogError(ctx, err, "Failed to list budgets", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to list budgets for account %s: %w", accountID, err)
	}

	usage := make([]domain.BudgetProgress, 0, len(budgets))
	for _, b := range budgets {
		if !b.Covers(month) {
			continue
		}
		progress, err := s.budgets.CalculateProgress(ctx, b, month.Start)
		if err != nil {
			return nil, err
		}
		usage = append(usage, *progress)
	}
	return usage, nil
}

// categoryTrends totals expenses per (category, month) over the trailing trend window ending with month.
func (s *analyticsService) categoryTrends(ctx context.Context, conv portssvc.Converter, account domain.Account, month period.Window, names map[string]string) ([]domain.TrendPoint, error) {
	window := period.Window{
		Start: period.AddMonths(month.Start, -(s.trendMonths - 1)),
		End:   month.End,
	}
	txns, err := s.ledger.ListTransactions(ctx, portsrepo.TransactionFilter{
		AccountID: account.AccountID,
		Types:     []domain.TransactionType{domain.Expense},
		Window:    window,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to load trend transactions",
			slog.String("account_id", account.AccountID),
			slog.String("window", window.String()))
		return nil, fmt.Errorf("failed to load trend transactions for account %s: %w", account.AccountID, err)
	}

	type trendKey struct{ category, month string }
	totals := make(map[trendKey]decimal.Decimal)
	for _, txn := range txns {
		amount, err := convertedAmount(ctx, conv, txn, account.BaseCurrency)
		if err != nil {
			return nil, err
		}
		k := trendKey{category: categoryKey(txn), month: period.MonthKey(txn.Date)}
		totals[k] = accounting.Add(totals[k], amount, accounting.MoneyScale)
	}

	points := make([]domain.TrendPoint, 0, len(totals))
	for k, total := range totals {
		points = append(points, domain.TrendPoint{
			CategoryID:   k.category,
			CategoryName: categoryName(k.category, names),
			Month:        k.month,
			Total:        total,
		})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Month != points[j].Month {
			return points[i].Month < points[j].Month
		}
		return points[i].CategoryID < points[j].CategoryID
	})
	return points, nil
}

// rankCategories orders totals descending; ties fall back to the category ID.
func rankCategories(totals map[string]decimal.Decimal, names map[string]string) []domain.CategoryAmount {
	out := make([]domain.CategoryAmount, 0, len(totals))
	for id, total := range totals {
		out = append(out, domain.CategoryAmount{CategoryID: id, CategoryName: categoryName(id, names), Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].CategoryID < out[j].CategoryID
	})
	return out
}

func categoryName(id string, names map[string]string) string {
	if id == "" {
		return uncategorizedName
	}
	if name, ok := names[id]; ok {
		return name
	}
	return id
}

func bucketKey(t time.Time, g domain.Granularity) string {
	if g == domain.ByDay {
		return period.DateKey(t)
	}
	return period.MonthKey(t)
}

// bucketKeys lists every bucket of window in order so empty buckets still appear.
func bucketKeys(window period.Window, g domain.Granularity) []string {
	var keys []string
	if g == domain.ByDay {
		for d := window.Start; !d.After(window.End); d = d.AddDate(0, 0, 1) {
			keys = append(keys, period.DateKey(d))
		}
		return keys
	}
	for m := period.Month(window.Start).Start; !m.After(window.End); m = m.AddDate(0, 1, 0) {
		keys = append(keys, period.MonthKey(m))
	}
	return keys
}
