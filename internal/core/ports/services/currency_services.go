package services

import (
	"context"
	"time"

	"github.com/SscSPs/family_finance_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CurrencyReaderSvc defines read operations for currency data
type CurrencyReaderSvc interface {
	// GetCurrencyByCode retrieves a specific currency by its code.
	GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// ListCurrencies retrieves all available currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// CurrencySvcFacade combines all currency-related service interfaces
type CurrencySvcFacade interface {
	CurrencyReaderSvc
}

// Converter converts amounts between currencies at historical dates.
type Converter interface {
	// Convert returns amount expressed in the to currency as of date, at money scale.
	Convert(ctx context.Context, amount domain.Money, to string, date time.Time) (domain.Money, error)
}

// ExchangeRateReaderSvc defines rate resolution operations
type ExchangeRateReaderSvc interface {
	// ResolveRate finds the rate from -> to applicable on date: exact, then latest on or
	// before date, then the inverse pair. It returns apperrors.ErrRateUnavailable when none applies.
	ResolveRate(ctx context.Context, fromCode, toCode string, date time.Time) (*domain.ExchangeRate, error)

	// NewConverter returns a Converter that memoises resolved rates for its own lifetime.
	// Use one per aggregate computation and drop it afterwards.
	NewConverter() Converter
}

// ExchangeRateSvcFacade combines all exchange rate-related service interfaces
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	Converter
}

// RateIngestionSvc pulls rates from the external provider into rate storage.
type RateIngestionSvc interface {
	// FetchRates returns the provider's rates for base on date, keyed by symbol.
	FetchRates(ctx context.Context, date time.Time, baseCurrency string, symbols []string) (map[string]decimal.Decimal, error)

	// SyncRates fetches and upserts the rates, returning the number of rows written.
	SyncRates(ctx context.Context, date time.Time, baseCurrency string, symbols []string) (int, error)

	// GetRate resolves a stored rate with the same policy as ExchangeRateReaderSvc.ResolveRate.
	GetRate(ctx context.Context, date time.Time, fromCode, toCode string) (*domain.ExchangeRate, error)
}
