package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/family_finance_engine/internal/apperrors"
)

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	Expense  TransactionType = "expense"
	Income   TransactionType = "income"
	Transfer TransactionType = "transfer"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case Expense, Income, Transfer:
		return true
	}
	return false
}

// Transaction is a single ledger entry of an account.
type Transaction struct {
	TransactionID string          `json:"transactionID"`           // Primary Key (UUID)
	AccountID     string          `json:"accountID"`               // FK -> Account.accountID
	Type          TransactionType `json:"type"`                    // expense, income or transfer
	Amount        Money           `json:"amount"`                  // Positive; sign comes from Type
	Date          time.Time       `json:"date"`                    // Calendar day of the entry
	CategoryID    *string         `json:"categoryID,omitempty"`    // Nullable
	SubcategoryID *string         `json:"subcategoryID,omitempty"` // Nullable, narrows CategoryID
	Description   string          `json:"description"`
	DeletedAt     *time.Time      `json:"deletedAt,omitempty"` // Soft delete marker
	AuditFields
}

// IsDeleted reports whether the transaction has been soft-deleted.
func (t Transaction) IsDeleted() bool {
	return t.DeletedAt != nil
}

// Validate checks the fields a ledger mutation must carry.
func (t Transaction) Validate() error {
	if t.AccountID == "" {
		return fmt.Errorf("%w: accountID is required", apperrors.ErrValidation)
	}
	if !t.Type.Valid() {
		return fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, t.Type)
	}
	if !t.Amount.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if err := validate.Struct(t.Amount); err != nil {
		return fmt.Errorf("%w: invalid currency %q", apperrors.ErrValidation, t.Amount.Currency)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: date is required", apperrors.ErrValidation)
	}
	if t.SubcategoryID != nil && t.CategoryID == nil {
		return fmt.Errorf("%w: subcategory requires a category", apperrors.ErrValidation)
	}
	return nil
}

// HistoryAction is the kind of mutation recorded by a TransactionHistory row.
type HistoryAction string

const (
	HistoryCreated HistoryAction = "created"
	HistoryUpdated HistoryAction = "updated"
	HistoryDeleted HistoryAction = "deleted"
)

// TransactionHistory is the immutable audit record written with every transaction mutation.
type TransactionHistory struct {
	HistoryID     string        `json:"historyID"`
	TransactionID string        `json:"transactionID"`
	Action        HistoryAction `json:"action"`
	Before        *Transaction  `json:"before,omitempty"` // nil for created
	After         *Transaction  `json:"after,omitempty"`  // nil never; deleted rows carry DeletedAt
	ChangedBy     string        `json:"changedBy"`
	ChangedAt     time.Time     `json:"changedAt"`
}
