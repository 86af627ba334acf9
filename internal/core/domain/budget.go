package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/family_finance_engine/internal/apperrors"
	"github.com/SscSPs/family_finance_engine/internal/utils/period"
	"github.com/shopspring/decimal"
)

// BudgetPeriod is the calendar span a budget resets over.
type BudgetPeriod string

const (
	Monthly BudgetPeriod = "monthly"
	Yearly  BudgetPeriod = "yearly"
)

// Budget caps the expenses of an account, optionally narrowed to a category or subcategory.
type Budget struct {
	BudgetID      string          `json:"budgetID"`
	AccountID     string          `json:"accountID" validate:"required"`
	CategoryID    *string         `json:"categoryID,omitempty" validate:"required_with=SubcategoryID"`
	SubcategoryID *string         `json:"subcategoryID,omitempty"`
	UserID        *string         `json:"userID,omitempty"`
	Name          string          `json:"name"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency" validate:"required,len=3,uppercase"`
	Period        BudgetPeriod    `json:"period" validate:"required,oneof=monthly yearly"`
	StartDate     time.Time       `json:"startDate" validate:"required"`
	EndDate       *time.Time      `json:"endDate,omitempty"`
	AuditFields
}

// Validate enforces the scope invariants of a stored budget.
// The progress calculator does not call it and tolerates violations.
func (b Budget) Validate() error {
	if err := validate.Struct(b); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if !b.Amount.IsPositive() {
		return fmt.Errorf("%w: budget amount must be positive", apperrors.ErrValidation)
	}
	if b.EndDate != nil && b.EndDate.Before(b.StartDate) {
		return fmt.Errorf("%w: budget end date is before its start date", apperrors.ErrValidation)
	}
	return nil
}

// WindowFor returns the calendar month or year containing asOf.
func (b Budget) WindowFor(asOf time.Time) period.Window {
	if b.Period == Yearly {
		return period.Year(asOf)
	}
	return period.Month(asOf)
}

// Covers reports whether the budget's [StartDate, EndDate or open] span overlaps w.
func (b Budget) Covers(w period.Window) bool {
	if period.Day(b.StartDate).After(w.End) {
		return false
	}
	return b.EndDate == nil || !period.Day(*b.EndDate).Before(w.Start)
}
