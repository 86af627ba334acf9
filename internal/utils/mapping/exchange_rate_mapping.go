package mapping

import (
	"strings"

	"github.com/SscSPs/family_finance_engine/internal/core/domain"
	"github.com/SscSPs/family_finance_engine/internal/models"
	"github.com/SscSPs/family_finance_engine/internal/utils/period"
)

// ToModelExchangeRate converts a domain ExchangeRate to a model ExchangeRate.
// Codes are upper-cased and the date truncated to its calendar day.
func ToModelExchangeRate(d domain.ExchangeRate) models.ExchangeRate {
	return models.ExchangeRate{
		ExchangeRateID: d.ExchangeRateID,
		BaseCurrency:   strings.ToUpper(d.BaseCurrency),
		TargetCurrency: strings.ToUpper(d.TargetCurrency),
		RateDate:       period.Day(d.RateDate),
		Rate:           d.Rate,
		Source:         d.Source,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExchangeRate converts a model ExchangeRate to a domain ExchangeRate
func ToDomainExchangeRate(m models.ExchangeRate) domain.ExchangeRate {
	return domain.ExchangeRate{
		ExchangeRateID: m.ExchangeRateID,
		BaseCurrency:   m.BaseCurrency,
		TargetCurrency: m.TargetCurrency,
		RateDate:       period.Day(m.RateDate),
		Rate:           m.Rate,
		Source:         m.Source,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
