package dto

import (
	"github.com/SscSPs/family_finance_engine/internal/core/domain"
	"github.com/SscSPs/family_finance_engine/internal/utils/accounting"
	"github.com/SscSPs/family_finance_engine/internal/utils/period"
	"github.com/shopspring/decimal"
)

// Every decimal leaves this package as a string at its fixed scale so that callers
// reproduce exact values.

func money(d decimal.Decimal) string {
	return accounting.Format(d, accounting.MoneyScale)
}

func percent(d decimal.Decimal) string {
	return accounting.Format(d, accounting.PercentScale)
}

// BudgetProgressResponse represents the progress of one budget.
type BudgetProgressResponse struct {
	BudgetID     string `json:"budgetID"`
	Currency     string `json:"currency"`
	PeriodStart  string `json:"periodStart"`
	PeriodEnd    string `json:"periodEnd"`
	BudgetAmount string `json:"budgetAmount"`
	Spent        string `json:"spent"`
	Remaining    string `json:"remaining"`
	Percentage   string `json:"percentage"`
	IsOverspent  bool   `json:"isOverspent"`
}

// ToBudgetProgressResponse converts a domain.BudgetProgress to its response DTO.
func ToBudgetProgressResponse(p *domain.BudgetProgress) BudgetProgressResponse {
	return BudgetProgressResponse{
		BudgetID:     p.BudgetID,
		Currency:     p.Currency,
		PeriodStart:  period.DateKey(p.PeriodStart),
		PeriodEnd:    period.DateKey(p.PeriodEnd),
		BudgetAmount: money(p.BudgetAmount),
		Spent:        money(p.Spent),
		Remaining:    money(p.Remaining),
		Percentage:   percent(p.Percentage),
		IsOverspent:  p.IsOverspent,
	}
}

// GoalProgressResponse represents the progress of a savings goal.
type GoalProgressResponse struct {
	GoalID        string `json:"goalID"`
	Currency      string `json:"currency"`
	AsOf          string `json:"asOf"`
	TargetAmount  string `json:"targetAmount"`
	CurrentAmount string `json:"currentAmount"`
	Contributed   string `json:"contributed"`
	Remaining     string `json:"remaining"`
	Percentage    string `json:"percentage"`
	IsComplete    bool   `json:"isComplete"`
}

// ToGoalProgressResponse converts a domain.GoalProgress to its response DTO.
func ToGoalProgressResponse(p *domain.GoalProgress) GoalProgressResponse {
	return GoalProgressResponse{
		GoalID:        p.GoalID,
		Currency:      p.Currency,
		AsOf:          period.DateKey(p.AsOf),
		TargetAmount:  money(p.TargetAmount),
		CurrentAmount: money(p.CurrentAmount),
		Contributed:   money(p.Contributed),
		Remaining:     money(p.Remaining),
		Percentage:    percent(p.Percentage),
		IsComplete:    p.IsComplete,
	}
}

// GoalProjectionResponse represents a savings goal projection. Null fields mean no
// projection is possible (no positive contribution rate, or the target date has passed).
type GoalProjectionResponse struct {
	GoalID                  string  `json:"goalID"`
	Currency                string  `json:"currency"`
	MonthsForAverage        int     `json:"monthsForAverage"`
	AverageMonthly          string  `json:"averageMonthly"`
	MonthlyUsed             string  `json:"monthlyUsed"`
	ProjectedCompletionDate *string `json:"projectedCompletionDate"`
	RequiredMonthly         *string `json:"requiredMonthly"`
}

// ToGoalProjectionResponse converts a domain.GoalProjection to its response DTO.
func ToGoalProjectionResponse(p *domain.GoalProjection) GoalProjectionResponse {
	res := GoalProjectionResponse{
		GoalID:           p.GoalID,
		Currency:         p.Currency,
		MonthsForAverage: p.MonthsForAverage,
		AverageMonthly:   money(p.AverageMonthly),
		MonthlyUsed:      money(p.MonthlyUsed),
	}
	if p.ProjectedCompletionDate != nil {
		d := period.DateKey(*p.ProjectedCompletionDate)
		res.ProjectedCompletionDate = &d
	}
	if p.RequiredMonthly != nil {
		r := money(*p.RequiredMonthly)
		res.RequiredMonthly = &r
	}
	return res
}

// GoalReportResponse bundles progress and projection for one goal.
type GoalReportResponse struct {
	Progress   GoalProgressResponse   `json:"progress"`
	Projection GoalProjectionResponse `json:"projection"`
}

// CategoryAmountResponse represents an expense total for a category.
type CategoryAmountResponse struct {
	CategoryID   string `json:"categoryID"`
	CategoryName string `json:"categoryName"`
	Total        string `json:"total"`
}

func toCategoryAmounts(in []domain.CategoryAmount) []CategoryAmountResponse {
	out := make([]CategoryAmountResponse, len(in))
	for i, c := range in {
		out[i] = CategoryAmountResponse{CategoryID: c.CategoryID, CategoryName: c.CategoryName, Total: money(c.Total)}
	}
	return out
}

// TrendPointResponse represents one (category, month) expense total.
type TrendPointResponse struct {
	CategoryID   string `json:"categoryID"`
	CategoryName string `json:"categoryName"`
	Month        string `json:"month"`
	Total        string `json:"total"`
}

// DashboardResponse represents the monthly dashboard of an account.
type DashboardResponse struct {
	AccountID            string                   `json:"accountID"`
	Currency             string                   `json:"currency"`
	Month                string                   `json:"month"`
	CurrentMonthIncome   string                   `json:"currentMonthIncome"`
	CurrentMonthExpenses string                   `json:"currentMonthExpenses"`
	NetCashFlow          string                   `json:"netCashFlow"`
	ExpensesByCategory   []CategoryAmountResponse `json:"expensesByCategory"`
	BudgetUsage          []BudgetProgressResponse `json:"budgetUsage"`
	CategoryTrends       []TrendPointResponse     `json:"categoryTrends"`
}

// ToDashboardResponse converts domain.DashboardData to its response DTO.
func ToDashboardResponse(d *domain.DashboardData) DashboardResponse {
	res := DashboardResponse{
		AccountID:            d.AccountID,
		Currency:             d.Currency,
		Month:                d.Month,
		CurrentMonthIncome:   money(d.CurrentMonthIncome),
		CurrentMonthExpenses: money(d.CurrentMonthExpenses),
		NetCashFlow:          money(d.NetCashFlow),
		ExpensesByCategory:   toCategoryAmounts(d.ExpensesByCategory),
		BudgetUsage:          make([]BudgetProgressResponse, len(d.BudgetUsage)),
		CategoryTrends:       make([]TrendPointResponse, len(d.CategoryTrends)),
	}
	for i := range d.BudgetUsage {
		res.BudgetUsage[i] = ToBudgetProgressResponse(&d.BudgetUsage[i])
	}
	for i, t := range d.CategoryTrends {
		res.CategoryTrends[i] = TrendPointResponse{
			CategoryID:   t.CategoryID,
			CategoryName: t.CategoryName,
			Month:        t.Month,
			Total:        money(t.Total),
		}
	}
	return res
}

// SeriesPointResponse represents one bucket of a statistics series.
type SeriesPointResponse struct {
	Key      string `json:"key"`
	Income   string `json:"income"`
	Expenses string `json:"expenses"`
	Net      string `json:"net"`
}

// StatisticsResponse represents ranged statistics of an account.
type StatisticsResponse struct {
	AccountID         string                   `json:"accountID"`
	Currency          string                   `json:"currency"`
	StartDate         string                   `json:"startDate"`
	EndDate           string                   `json:"endDate"`
	Granularity       string                   `json:"granularity"`
	TotalIncome       string                   `json:"totalIncome"`
	TotalExpenses     string                   `json:"totalExpenses"`
	NetCashFlow       string                   `json:"netCashFlow"`
	Series            []SeriesPointResponse    `json:"series"`
	CategoryBreakdown []CategoryAmountResponse `json:"categoryBreakdown"`
}

// ToStatisticsResponse converts domain.StatisticsData to its response DTO.
func ToStatisticsResponse(s *domain.StatisticsData) StatisticsResponse {
	res := StatisticsResponse{
		AccountID:         s.AccountID,
		Currency:          s.Currency,
		StartDate:         period.DateKey(s.StartDate),
		EndDate:           period.DateKey(s.EndDate),
		Granularity:       string(s.Granularity),
		TotalIncome:       money(s.TotalIncome),
		TotalExpenses:     money(s.TotalExpenses),
		NetCashFlow:       money(s.NetCashFlow),
		Series:            make([]SeriesPointResponse, len(s.Series)),
		CategoryBreakdown: toCategoryAmounts(s.CategoryBreakdown),
	}
	for i, p := range s.Series {
		res.Series[i] = SeriesPointResponse{Key: p.Key, Income: money(p.Income), Expenses: money(p.Expenses), Net: money(p.Net)}
	}
	return res
}
