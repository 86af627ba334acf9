package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RateProvider is the external source of daily exchange rates.
type RateProvider interface {
	// Name identifies the provider; it is stored as the source of ingested rates.
	Name() string

	// FetchRates returns rates quoted against base for date, keyed by symbol.
	// Failures wrap apperrors.ErrIngestion.
	FetchRates(ctx context.Context, date time.Time, base string, symbols []string) (map[string]decimal.Decimal, error)
}
