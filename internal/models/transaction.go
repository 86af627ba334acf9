package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table.
// Amount should always be positive; the sign comes from TransactionType.
type Transaction struct {
	TransactionID   string          `db:"transaction_id"`
	AccountID       string          `db:"account_id"`
	TransactionType string          `db:"transaction_type"`
	Amount          decimal.Decimal `db:"amount"`
	CurrencyCode    string          `db:"currency_code"`
	TransactionDate time.Time       `db:"transaction_date"`
	CategoryID      *string         `db:"category_id"`    // Nullable
	SubcategoryID   *string         `db:"subcategory_id"` // Nullable
	Description     string          `db:"description"`
	DeletedAt       *time.Time      `db:"deleted_at"` // Nullable, soft delete
	AuditFields
}

// TransactionHistory is a row of the append-only transaction_history table.
// Before and After hold JSON snapshots of the transaction.
type TransactionHistory struct {
	HistoryID     string    `db:"history_id"`
	TransactionID string    `db:"transaction_id"`
	Action        string    `db:"action"`
	Before        []byte    `db:"before_state"` // Nullable JSONB
	After         []byte    `db:"after_state"`  // Nullable JSONB
	ChangedBy     string    `db:"changed_by"`
	ChangedAt     time.Time `db:"changed_at"`
}
