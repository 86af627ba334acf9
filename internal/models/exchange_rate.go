package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate stores the conversion rate between two currencies for a specific date.
// (base_currency, target_currency, rate_date) is unique.
type ExchangeRate struct {
	ExchangeRateID string          `db:"exchange_rate_id"` // Primary Key (UUID)
	BaseCurrency   string          `db:"base_currency"`
	TargetCurrency string          `db:"target_currency"`
	RateDate       time.Time       `db:"rate_date"` // DATE column
	Rate           decimal.Decimal `db:"rate"`      // NUMERIC(20,10)
	Source         string          `db:"source"`
	AuditFields
}
