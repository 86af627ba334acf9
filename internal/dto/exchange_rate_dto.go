package dto

import (
	"github.com/SscSPs/family_finance_engine/internal/core/domain"
	"github.com/SscSPs/family_finance_engine/internal/utils/accounting"
	"github.com/SscSPs/family_finance_engine/internal/utils/period"
)

// SyncRatesRequest is the input of a rate ingestion run.
type SyncRatesRequest struct {
	Date         string   `json:"date" validate:"required,datetime=2006-01-02"`
	BaseCurrency string   `json:"baseCurrency" validate:"required,iso4217"`
	Symbols      []string `json:"symbols" validate:"required,min=1,dive,iso4217"`
}

// SyncRatesResponse reports how many rate rows a run wrote.
type SyncRatesResponse struct {
	Date         string `json:"date"`
	BaseCurrency string `json:"baseCurrency"`
	RowsWritten  int    `json:"rowsWritten"`
}

// ExchangeRateResponse defines the structure for responses containing exchange rate details.
type ExchangeRateResponse struct {
	BaseCurrency   string `json:"baseCurrency"`
	TargetCurrency string `json:"targetCurrency"`
	RateDate       string `json:"rateDate"`
	Rate           string `json:"rate"`
	Source         string `json:"source"`
	Inverted       bool   `json:"inverted"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to ExchangeRateResponse DTO
func ToExchangeRateResponse(rate *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		BaseCurrency:   rate.BaseCurrency,
		TargetCurrency: rate.TargetCurrency,
		RateDate:       period.DateKey(rate.RateDate),
		Rate:           rate.Rate.String(),
		Source:         rate.Source,
		Inverted:       rate.Inverted,
	}
}

// ConversionResponse is the result of converting an amount.
type ConversionResponse struct {
	Amount       string `json:"amount"`
	FromCurrency string `json:"fromCurrency"`
	Result       string `json:"result"`
	ToCurrency   string `json:"toCurrency"`
	Date         string `json:"date"`
	// Converted is false when no rate was found and the amount passed through unconverted.
	Converted bool `json:"converted"`
}

// ToConversionResponse pairs the input and output of a conversion.
func ToConversionResponse(in, out domain.Money, requested string, date string) ConversionResponse {
	return ConversionResponse{
		Amount:       accounting.Format(in.Amount, accounting.MoneyScale),
		FromCurrency: in.Currency,
		Result:       out.String(),
		ToCurrency:   out.Currency,
		Date:         date,
		Converted:    out.Currency == requested,
	}
}
