package services

import (
	"context"

	"github.com/SscSPs/family_finance_engine/internal/core/domain"
	"github.com/SscSPs/family_finance_engine/internal/dto"
)

// TransactionSvc mutates ledger entries. Every call writes exactly one history row
// in the same database transaction as the mutation.
type TransactionSvc interface {
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, transactionID string, userID string) error
}
