package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a row of the budgets table.
type Budget struct {
	BudgetID      string          `db:"budget_id"`
	AccountID     string          `db:"account_id"`
	CategoryID    *string         `db:"category_id"`
	SubcategoryID *string         `db:"subcategory_id"`
	UserID        *string         `db:"user_id"`
	Name          string          `db:"name"`
	Amount        decimal.Decimal `db:"amount"`
	CurrencyCode  string          `db:"currency_code"`
	Period        string          `db:"period"`
	StartDate     time.Time       `db:"start_date"`
	EndDate       *time.Time      `db:"end_date"`
	AuditFields
}

// SavingsGoal is a row of the savings_goals table.
type SavingsGoal struct {
	GoalID        string          `db:"goal_id"`
	AccountID     string          `db:"account_id"`
	UserID        *string         `db:"user_id"`
	CategoryID    *string         `db:"category_id"`
	SubcategoryID *string         `db:"subcategory_id"`
	Name          string          `db:"name"`
	TargetAmount  decimal.Decimal `db:"target_amount"`
	InitialAmount decimal.Decimal `db:"initial_amount"`
	CurrencyCode  string          `db:"currency_code"`
	TrackingMode  string          `db:"tracking_mode"`
	StartDate     time.Time       `db:"start_date"`
	TargetDate    time.Time       `db:"target_date"`
	AuditFields
}
