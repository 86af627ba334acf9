package services

import (
	"context"

	"github.com/SscSPs/family_finance_engine/internal/core/domain"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// CategoryNames maps the category IDs of an account to their display names.
	CategoryNames(ctx context.Context, accountID string) (map[string]string, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
}
