package pgsql

import (
	"context"
	"errors"
	"net/http"

	"github.com/SscSPs/family_finance_engine/internal/apperrors"
	"github.com/SscSPs/family_finance_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/family_finance_engine/internal/core/ports/repositories"
	"github.com/SscSPs/family_finance_engine/internal/models"
	"github.com/SscSPs/family_finance_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxAccountRepository reads accounts and their categories.
type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `
		SELECT account_id, name, base_currency, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		FROM accounts
		WHERE account_id = $1;
	`

	var m models.Account
	err := r.Pool.QueryRow(ctx, query, accountID).Scan(
		&m.AccountID, &m.Name, &m.BaseCurrency, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("account " + accountID)
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to find account", err)
	}

	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// ListCategories retrieves the categories defined for an account, ordered by name.
func (r *PgxAccountRepository) ListCategories(ctx context.Context, accountID string) ([]domain.Category, error) {
	query := `
		SELECT category_id, account_id, name
		FROM categories
		WHERE account_id = $1
		ORDER BY name;
	`

	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to list categories", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var m models.Category
		if err := rows.Scan(&m.CategoryID, &m.AccountID, &m.Name); err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan category", err)
		}
		categories = append(categories, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating categories", err)
	}

	return mapping.ToDomainCategories(categories), nil
}
