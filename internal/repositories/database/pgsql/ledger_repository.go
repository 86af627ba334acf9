package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/SscSPs/family_finance_engine/internal/apperrors"
	"github.com/SscSPs/family_finance_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/family_finance_engine/internal/core/ports/repositories"
	"github.com/SscSPs/family_finance_engine/internal/models"
	"github.com/SscSPs/family_finance_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `
	transaction_id, account_id, transaction_type, amount, currency_code, transaction_date,
	category_id, subcategory_id, description, deleted_at,
	created_at, created_by, last_updated_at, last_updated_by`

// uniqueViolation is the SQLSTATE postgres reports for duplicate keys.
const uniqueViolation = "23505"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID, &m.AccountID, &m.TransactionType, &m.Amount, &m.CurrencyCode, &m.TransactionDate,
		&m.CategoryID, &m.SubcategoryID, &m.Description, &m.DeletedAt,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// PgxLedgerRepository reads transactions and runs ledger mutations in a database transaction.
type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// ListTransactions returns the live transactions matching filter, ordered by date.
func (r *PgxLedgerRepository) ListTransactions(ctx context.Context, filter portsrepo.TransactionFilter) ([]domain.Transaction, error) {
	query, args := buildListTransactionsQuery(filter)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to list transactions", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan transaction", err)
		}
		txns = append(txns, mapping.ToDomainTransaction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating transactions", err)
	}
	return txns, nil
}

// buildListTransactionsQuery turns a filter into SQL with positional arguments.
func buildListTransactionsQuery(filter portsrepo.TransactionFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT` + transactionColumns + `
		FROM transactions
		WHERE deleted_at IS NULL AND account_id = $1 AND transaction_date BETWEEN $2 AND $3`)
	args := []any{filter.AccountID, filter.Window.Start, filter.Window.End}

	add := func(clause string, value any) {
		args = append(args, value)
		fmt.Fprintf(&sb, " AND "+clause, len(args))
	}

	if len(filter.Types) > 0 {
		types := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			types[i] = string(t)
		}
		add("transaction_type = ANY($%d)", types)
	}
	if filter.CategoryID != nil {
		add("category_id = $%d", *filter.CategoryID)
	}
	if filter.SubcategoryID != nil {
		add("subcategory_id = $%d", *filter.SubcategoryID)
	}
	if filter.UserID != nil {
		add("created_by = $%d", *filter.UserID)
	}

	sb.WriteString(" ORDER BY transaction_date, created_at, transaction_id;")
	return sb.String(), args
}

// WithinTransaction runs fn against a writer bound to one database transaction.
func (r *PgxLedgerRepository) WithinTransaction(ctx context.Context, fn func(ctx context.Context, w portsrepo.LedgerTxWriter) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(ctx, &pgxLedgerWriter{tx: tx})
	})
}

// pgxLedgerWriter performs ledger writes on an open transaction.
type pgxLedgerWriter struct {
	tx pgx.Tx
}

var _ portsrepo.LedgerTxWriter = (*pgxLedgerWriter)(nil)

func (w *pgxLedgerWriter) FindTransactionForUpdate(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT` + transactionColumns + `
		FROM transactions
		WHERE transaction_id = $1 AND deleted_at IS NULL
		FOR UPDATE;`

	m, err := scanTransaction(w.tx.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("transaction " + transactionID)
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to lock transaction", err)
	}
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

func (w *pgxLedgerWriter) InsertTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);`

	_, err := w.tx.Exec(ctx, query,
		m.TransactionID, m.AccountID, m.TransactionType, m.Amount, m.CurrencyCode, m.TransactionDate,
		m.CategoryID, m.SubcategoryID, m.Description, m.DeletedAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, m.TransactionID)
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to insert transaction", err)
	}
	return nil
}

func (w *pgxLedgerWriter) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		UPDATE transactions
		SET transaction_type = $2, amount = $3, currency_code = $4, transaction_date = $5,
			category_id = $6, subcategory_id = $7, description = $8,
			last_updated_at = $9, last_updated_by = $10
		WHERE transaction_id = $1 AND deleted_at IS NULL;`

	tag, err := w.tx.Exec(ctx, query,
		m.TransactionID, m.TransactionType, m.Amount, m.CurrencyCode, m.TransactionDate,
		m.CategoryID, m.SubcategoryID, m.Description,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to update transaction", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("transaction " + m.TransactionID)
	}
	return nil
}

func (w *pgxLedgerWriter) SoftDeleteTransaction(ctx context.Context, txn domain.Transaction) error {
	if txn.DeletedAt == nil {
		return apperrors.NewValidationError("soft delete requires a deletion time")
	}
	query := `
		UPDATE transactions
		SET deleted_at = $2, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $1 AND deleted_at IS NULL;`

	tag, err := w.tx.Exec(ctx, query, txn.TransactionID, *txn.DeletedAt, txn.LastUpdatedAt, txn.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to delete transaction", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("transaction " + txn.TransactionID)
	}
	return nil
}

func (w *pgxLedgerWriter) AppendHistory(ctx context.Context, entry domain.TransactionHistory) error {
	m, err := mapping.ToModelTransactionHistory(entry)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to encode transaction history", err)
	}
	query := `
		INSERT INTO transaction_history (
			history_id, transaction_id, action, before_state, after_state, changed_by, changed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7);`

	if _, err := w.tx.Exec(ctx, query,
		m.HistoryID, m.TransactionID, m.Action, m.Before, m.After, m.ChangedBy, m.ChangedAt,
	); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to append transaction history", err)
	}
	return nil
}
