package domain

import (
	"sort"
	"strings"
)

// Currency represents a supported currency in the domain.
type Currency struct {
	CurrencyCode string `json:"currencyCode" mapstructure:"code"` // e.g. "USD"
	Symbol       string `json:"symbol" mapstructure:"symbol"`     // e.g. "$"
	Name         string `json:"name" mapstructure:"name"`         // e.g. "US Dollar"
}

// CurrencyTable is the immutable, process-wide list of supported currencies.
// It is built once at startup and only read afterwards.
type CurrencyTable struct {
	byCode map[string]Currency
	codes  []string
}

// NewCurrencyTable builds a table from the given currencies. Later entries with
// the same code replace earlier ones.
func NewCurrencyTable(currencies []Currency) CurrencyTable {
	byCode := make(map[string]Currency, len(currencies))
	for _, c := range currencies {
		c.CurrencyCode = strings.ToUpper(strings.TrimSpace(c.CurrencyCode))
		if c.CurrencyCode == "" {
			continue
		}
		byCode[c.CurrencyCode] = c
	}
	codes := make([]string, 0, len(byCode))
	for code := range byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return CurrencyTable{byCode: byCode, codes: codes}
}

// Lookup returns the currency registered under code.
func (t CurrencyTable) Lookup(code string) (Currency, bool) {
	c, ok := t.byCode[strings.ToUpper(code)]
	return c, ok
}

// All returns the currencies sorted by code. The slice is a copy.
func (t CurrencyTable) All() []Currency {
	out := make([]Currency, 0, len(t.codes))
	for _, code := range t.codes {
		out = append(out, t.byCode[code])
	}
	return out
}

// Len returns the number of supported currencies.
func (t CurrencyTable) Len() int { return len(t.codes) }

// DefaultCurrencies is the built-in table used when configuration provides none.
func DefaultCurrencies() []Currency {
	return []Currency{
		{CurrencyCode: "USD", Symbol: "$", Name: "US Dollar"},
		{CurrencyCode: "EUR", Symbol: "€", Name: "Euro"},
		{CurrencyCode: "GBP", Symbol: "£", Name: "British Pound"},
		{CurrencyCode: "JPY", Symbol: "¥", Name: "Japanese Yen"},
		{CurrencyCode: "CHF", Symbol: "CHF", Name: "Swiss Franc"},
		{CurrencyCode: "CAD", Symbol: "C$", Name: "Canadian Dollar"},
		{CurrencyCode: "AUD", Symbol: "A$", Name: "Australian Dollar"},
		{CurrencyCode: "NZD", Symbol: "NZ$", Name: "New Zealand Dollar"},
		{CurrencyCode: "CNY", Symbol: "¥", Name: "Chinese Yuan"},
		{CurrencyCode: "INR", Symbol: "₹", Name: "Indian Rupee"},
		{CurrencyCode: "SEK", Symbol: "kr", Name: "Swedish Krona"},
		{CurrencyCode: "NOK", Symbol: "kr", Name: "Norwegian Krone"},
		{CurrencyCode: "DKK", Symbol: "kr", Name: "Danish Krone"},
		{CurrencyCode: "PLN", Symbol: "zł", Name: "Polish Zloty"},
		{CurrencyCode: "CZK", Symbol: "Kč", Name: "Czech Koruna"},
		{CurrencyCode: "HUF", Symbol: "Ft", Name: "Hungarian Forint"},
		{CurrencyCode: "RON", Symbol: "lei", Name: "Romanian Leu"},
		{CurrencyCode: "TRY", Symbol: "₺", Name: "Turkish Lira"},
		{CurrencyCode: "RUB", Symbol: "₽", Name: "Russian Ruble"},
		{CurrencyCode: "UAH", Symbol: "₴", Name: "Ukrainian Hryvnia"},
		{CurrencyCode: "BRL", Symbol: "R$", Name: "Brazilian Real"},
		{CurrencyCode: "MXN", Symbol: "MX$", Name: "Mexican Peso"},
		{CurrencyCode: "ZAR", Symbol: "R", Name: "South African Rand"},
		{CurrencyCode: "SGD", Symbol: "S$", Name: "Singapore Dollar"},
		{CurrencyCode: "HKD", Symbol: "HK$", Name: "Hong Kong Dollar"},
		{CurrencyCode: "KRW", Symbol: "₩", Name: "South Korean Won"},
		{CurrencyCode: "MYR", Symbol: "RM", Name: "Malaysian Ringgit"},
		{CurrencyCode: "IDR", Symbol: "Rp", Name: "Indonesian Rupiah"},
		{CurrencyCode: "THB", Symbol: "฿", Name: "Thai Baht"},
		{CurrencyCode: "AED", Symbol: "د.إ", Name: "UAE Dirham"},
		{CurrencyCode: "ILS", Symbol: "₪", Name: "Israeli New Shekel"},
	}
}
