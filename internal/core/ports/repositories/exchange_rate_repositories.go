package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/family_finance_engine/internal/core/domain"
)

// ExchangeRateReader defines read operations for exchange rate data.
// Both lookups return apperrors.ErrNotFound when no row matches.
type ExchangeRateReader interface {
	// FindExchangeRate retrieves the rate stored for exactly (base, target, date).
	FindExchangeRate(ctx context.Context, baseCurrency, targetCurrency string, date time.Time) (*domain.ExchangeRate, error)

	// FindLatestExchangeRate retrieves the most recent rate for (base, target) dated on or before date.
	FindLatestExchangeRate(ctx context.Context, baseCurrency, targetCurrency string, date time.Time) (*domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for exchange rate data
type ExchangeRateWriter interface {
	// UpsertExchangeRates writes the rates atomically, overwriting rate and source on
	// (base, target, date) conflicts. It returns the number of rows written.
	UpsertExchangeRates(ctx context.Context, rates []domain.ExchangeRate) (int, error)
}

// ExchangeRateRepositoryFacade combines all exchange rate-related repository interfaces
// This is a facade for clients that need access to all operations
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}

// ExchangeRateRepositoryWithTx extends ExchangeRateRepositoryFacade with transaction capabilities
type ExchangeRateRepositoryWithTx interface {
	ExchangeRateRepositoryFacade
	TransactionManager
}
