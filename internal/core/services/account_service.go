package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/family_finance_engine/internal/apperrors"
	"github.com/SscSPs/family_finance_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/family_finance_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/family_finance_engine/internal/core/ports/services"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service
func NewAccountService(repo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: repo}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	if accountID == "" {
		return nil, apperrors.NewValidationError("account ID is required")
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "Account not found", slog.String("account_id", accountID))
			return nil, err
		}
		s.LogError(ctx, err, "Failed to get account", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to get account %s: %w", accountID, err)
	}
	return account, nil
}

func (s *accountService) CategoryNames(ctx context.Context, accountID string) (map[string]string, error) {
	categories, err := s.accountRepo.ListCategories(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list categories", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to list categories for account %s: %w", accountID, err)
	}

	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.CategoryID] = c.Name
	}
	return names, nil
}
