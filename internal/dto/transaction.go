package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to record a ledger entry.
type CreateTransactionRequest struct {
	AccountID     string          `json:"accountID" validate:"required"`
	Type          string          `json:"type" validate:"required,oneof=expense income transfer"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency" validate:"required,len=3"`
	Date          time.Time       `json:"date" validate:"required"`
	CategoryID    *string         `json:"categoryID"`                               // Optional
	SubcategoryID *string         `json:"subcategoryID"`                            // Optional, needs CategoryID
	Description   string          `json:"description" validate:"omitempty,max=500"` // Optional
}

// UpdateTransactionRequest defines the fields allowed to change on a ledger entry.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateTransactionRequest struct {
	Type          *string          `json:"type" validate:"omitempty,oneof=expense income transfer"`
	Amount        *decimal.Decimal `json:"amount"`
	Currency      *string          `json:"currency" validate:"omitempty,len=3"`
	Date          *time.Time       `json:"date"`
	CategoryID    *string          `json:"categoryID"`
	SubcategoryID *string          `json:"subcategoryID"`
	Description   *string          `json:"description" validate:"omitempty,max=500"`
	// ClearCategory removes both category and subcategory.
	ClearCategory bool `json:"clearCategory"`
}
