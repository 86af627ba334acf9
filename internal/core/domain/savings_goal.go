package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/family_finance_engine/internal/apperrors"
	"github.com/shopspring/decimal"
)

// TrackingMode selects how contributions towards a savings goal are counted.
type TrackingMode string

const (
	TrackManual      TrackingMode = "manual"
	TrackNetSavings  TrackingMode = "net_savings"
	TrackCategory    TrackingMode = "category"
	TrackSubcategory TrackingMode = "subcategory"
)

// SavingsGoal is a target amount an account (or one of its users) saves towards.
type SavingsGoal struct {
	GoalID        string          `json:"goalID"`
	AccountID     string          `json:"accountID" validate:"required"`
	UserID        *string         `json:"userID,omitempty"`
	CategoryID    *string         `json:"categoryID,omitempty" validate:"required_if=TrackingMode category"`
	SubcategoryID *string         `json:"subcategoryID,omitempty" validate:"required_if=TrackingMode subcategory"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	InitialAmount decimal.Decimal `json:"initialAmount"`
	Currency      string          `json:"currency" validate:"required,len=3,uppercase"`
	TrackingMode  TrackingMode    `json:"trackingMode" validate:"required,oneof=manual net_savings category subcategory"`
	StartDate     time.Time       `json:"startDate" validate:"required"`
	TargetDate    time.Time       `json:"targetDate" validate:"required,gtfield=StartDate"`
	AuditFields
}

// Validate enforces the tracking mode invariants of a stored goal.
// The progress calculator does not call it and tolerates violations.
func (g SavingsGoal) Validate() error {
	if err := validate.Struct(g); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if !g.TargetAmount.IsPositive() {
		return fmt.Errorf("%w: target amount must be positive", apperrors.ErrValidation)
	}
	if g.InitialAmount.IsNegative() {
		return fmt.Errorf("%w: initial amount must not be negative", apperrors.ErrValidation)
	}
	return nil
}
