package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is a historical rate: 1 unit of BaseCurrency = Rate units of TargetCurrency on RateDate.
type ExchangeRate struct {
	ExchangeRateID string          `json:"exchangeRateID"`
	BaseCurrency   string          `json:"baseCurrency"`
	TargetCurrency string          `json:"targetCurrency"`
	RateDate       time.Time       `json:"rateDate"`
	Rate           decimal.Decimal `json:"rate"`
	Source         string          `json:"source"`
	// Inverted marks a rate derived from the stored (target, base) row. Not persisted.
	Inverted bool `json:"inverted"`
	AuditFields
}

// ConversionPolicy decides what happens when no rate can be resolved.
type ConversionPolicy string

const (
	// PolicyLenient returns the amount unconverted and logs a warning.
	PolicyLenient ConversionPolicy = "lenient"
	// PolicyStrict fails the conversion with apperrors.ErrRateUnavailable.
	PolicyStrict ConversionPolicy = "strict"
)
