package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/family_finance_engine/internal/apperrors"
	"github.com/SscSPs/family_finance_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/family_finance_engine/internal/core/ports/repositories"
	"github.com/SscSPs/family_finance_engine/internal/models"
	"github.com/SscSPs/family_finance_engine/internal/utils/mapping"
	"github.com/SscSPs/family_finance_engine/internal/utils/period"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const exchangeRateColumns = `
	exchange_rate_id, base_currency, target_currency, rate_date, rate, source,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxExchangeRateRepository implements the ExchangeRateRepositoryWithTx interface using pgxpool.
type PgxExchangeRateRepository struct {
	BaseRepository
}

// newPgxExchangeRateRepository creates a new PgxExchangeRateRepository.
func newPgxExchangeRateRepository(db *pgxpool.Pool) *PgxExchangeRateRepository {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ExchangeRateRepositoryWithTx = (*PgxExchangeRateRepository)(nil)

// FindExchangeRate retrieves the rate stored for exactly (base, target, date).
func (r *PgxExchangeRateRepository) FindExchangeRate(ctx context.Context, baseCurrency, targetCurrency string, date time.Time) (*domain.ExchangeRate, error) {
	query := `SELECT` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE base_currency = $1 AND target_currency = $2 AND rate_date = $3;`

	return r.queryRate(ctx, query, strings.ToUpper(baseCurrency), strings.ToUpper(targetCurrency), period.Day(date))
}

// FindLatestExchangeRate retrieves the most recent rate dated on or before date.
func (r *PgxExchangeRateRepository) FindLatestExchangeRate(ctx context.Context, baseCurrency, targetCurrency string, date time.Time) (*domain.ExchangeRate, error) {
	query := `SELECT` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE base_currency = $1 AND target_currency = $2 AND rate_date <= $3
		ORDER BY rate_date DESC
		LIMIT 1;`

	return r.queryRate(ctx, query, strings.ToUpper(baseCurrency), strings.ToUpper(targetCurrency), period.Day(date))
}

func (r *PgxExchangeRateRepository) queryRate(ctx context.Context, query string, args ...any) (*domain.ExchangeRate, error) {
	var modelRate models.ExchangeRate
	err := r.Pool.QueryRow(ctx, query, args...).Scan(
		&modelRate.ExchangeRateID, &modelRate.BaseCurrency, &modelRate.TargetCurrency,
		&modelRate.RateDate, &modelRate.Rate, &modelRate.Source,
		&modelRate.CreatedAt, &modelRate.CreatedBy, &modelRate.LastUpdatedAt, &modelRate.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("exchange rate not found")
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to find exchange rate", err)
	}

	domainRate := mapping.ToDomainExchangeRate(modelRate)
	return &domainRate, nil
}

// UpsertExchangeRates writes all rates in one transaction using a pgx batch. A conflict on
// (base_currency, target_currency, rate_date) overwrites rate and source.
func (r *PgxExchangeRateRepository) UpsertExchangeRates(ctx context.Context, rates []domain.ExchangeRate) (int, error) {
	if len(rates) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO exchange_rates (` + exchangeRateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (base_currency, target_currency, rate_date) DO UPDATE
		SET rate = EXCLUDED.rate,
			source = EXCLUDED.source,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;`

	batch := &pgx.Batch{}
	for _, rate := range rates {
		m := mapping.ToModelExchangeRate(rate)
		if m.BaseCurrency == m.TargetCurrency {
			return 0, apperrors.NewValidationError("base and target currencies cannot be the same")
		}
		batch.Queue(query,
			m.ExchangeRateID, m.BaseCurrency, m.TargetCurrency, m.RateDate, m.Rate, m.Source,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
	}

	written := 0
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		results := tx.SendBatch(ctx, batch)
		for i := 0; i < batch.Len(); i++ {
			tag, err := results.Exec()
			if err != nil {
				_ = results.Close()
				return apperrors.NewAppError(http.StatusInternalServerError,
					fmt.Sprintf("failed to upsert exchange rate %d of %d", i+1, batch.Len()), err)
			}
			written += int(tag.RowsAffected())
		}
		return results.Close()
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}
