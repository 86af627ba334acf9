package repositories

import (
	"context"

	"github.com/SscSPs/family_finance_engine/internal/core/domain"
)

// AccountReader defines read operations for accounts and their categories.
type AccountReader interface {
	// FindAccountByID retrieves an account by its ID.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListCategories retrieves the categories defined for an account.
	ListCategories(ctx context.Context, accountID string) ([]domain.Category, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
}
