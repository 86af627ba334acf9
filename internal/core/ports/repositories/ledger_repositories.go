package repositories

import (
	"context"

	"github.com/SscSPs/family_finance_engine/internal/core/domain"
	"github.com/SscSPs/family_finance_engine/internal/utils/period"
)

// TransactionFilter narrows a ledger query. Soft-deleted rows are always excluded.
type TransactionFilter struct {
	AccountID     string
	Types         []domain.TransactionType // empty means every type
	CategoryID    *string
	SubcategoryID *string
	UserID        *string // matches the creator of the transaction
	Window        period.Window
}

// LedgerReader defines read operations over the transactions of an account.
type LedgerReader interface {
	// ListTransactions returns the live transactions matching the filter, ordered by date.
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]domain.Transaction, error)
}

// LedgerTxWriter performs ledger writes inside an open unit of work.
type LedgerTxWriter interface {
	// FindTransactionForUpdate loads a transaction and locks its row. Deleted rows are ErrNotFound.
	FindTransactionForUpdate(ctx context.Context, transactionID string) (*domain.Transaction, error)
	InsertTransaction(ctx context.Context, txn domain.Transaction) error
	UpdateTransaction(ctx context.Context, txn domain.Transaction) error
	SoftDeleteTransaction(ctx context.Context, txn domain.Transaction) error
	AppendHistory(ctx context.Context, entry domain.TransactionHistory) error
}

// LedgerUnitOfWork runs ledger mutations atomically. When fn returns an error every
// write made through the writer is rolled back; otherwise they commit together.
type LedgerUnitOfWork interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, w LedgerTxWriter) error) error
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerUnitOfWork
}
