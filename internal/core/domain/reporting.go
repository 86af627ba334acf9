package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetProgress is the derived spending state of a budget for one period.
type BudgetProgress struct {
	BudgetID     string
	Currency     string
	BudgetAmount decimal.Decimal
	Spent        decimal.Decimal
	Remaining    decimal.Decimal
	Percentage   decimal.Decimal
	IsOverspent  bool
	PeriodStart  time.Time
	PeriodEnd    time.Time
}

// GoalProgress is the derived state of a savings goal as of a date.
type GoalProgress struct {
	GoalID        string
	Currency      string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	Contributed   decimal.Decimal
	Remaining     decimal.Decimal
	Percentage    decimal.Decimal
	IsComplete    bool
	AsOf          time.Time
}

// GoalProjection estimates when a goal completes and what it takes to hit the target date.
type GoalProjection struct {
	GoalID                  string
	Currency                string
	AverageMonthly          decimal.Decimal
	MonthlyUsed             decimal.Decimal
	MonthsForAverage        int
	ProjectedCompletionDate *time.Time       // nil when no positive contribution rate exists
	RequiredMonthly         *decimal.Decimal // nil when the target date has passed
}

// CategoryAmount is an expense total for one category. An empty CategoryID is the uncategorized bucket.
type CategoryAmount struct {
	CategoryID   string
	CategoryName string
	Total        decimal.Decimal
}

// TrendPoint is the expense total of one category in one calendar month.
type TrendPoint struct {
	CategoryID   string
	CategoryName string
	Month        string // YYYY-MM
	Total        decimal.Decimal
}

// DashboardData summarises one month of an account.
type DashboardData struct {
	AccountID            string
	Currency             string
	Month                string // YYYY-MM
	CurrentMonthIncome   decimal.Decimal
	CurrentMonthExpenses decimal.Decimal
	NetCashFlow          decimal.Decimal
	ExpensesByCategory   []CategoryAmount
	BudgetUsage          []BudgetProgress
	CategoryTrends       []TrendPoint
}

// Granularity is the bucket size of a statistics series.
type Granularity string

const (
	ByDay   Granularity = "day"
	ByMonth Granularity = "month"
)

// SeriesPoint holds the totals of one bucket of a statistics series.
type SeriesPoint struct {
	Key      string // YYYY-MM-DD or YYYY-MM
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Net      decimal.Decimal
}

// StatisticsData covers an arbitrary date range of an account.
type StatisticsData struct {
	AccountID         string
	Currency          string
	StartDate         time.Time
	EndDate           time.Time
	Granularity       Granularity
	TotalIncome       decimal.Decimal
	TotalExpenses     decimal.Decimal
	NetCashFlow       decimal.Decimal
	Series            []SeriesPoint
	CategoryBreakdown []CategoryAmount
}
