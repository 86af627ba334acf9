package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/family_finance_engine/internal/apperrors"
	"github.com/SscSPs/family_finance_engine/internal/core/domain"
	portssvc "github.com/SscSPs/family_finance_engine/internal/core/ports/services"
)

// currencyService serves the immutable currency table built at startup.
type currencyService struct {
	BaseService
	table domain.CurrencyTable
}

// NewCurrencyService creates a currency service over table.
func NewCurrencyService(table domain.CurrencyTable) portssvc.CurrencySvcFacade {
	return &currencyService{table: table}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

func (s *currencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	code, err := normalizeCurrencyCode(currencyCode)
	if err != nil {
		return nil, err
	}

	currency, ok := s.table.Lookup(code)
	if !ok {
		s.LogDebug(ctx, "Currency not supported", slog.String("currency_code", code))
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("currency %s", code))
	}
	return &currency, nil
}

func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	return s.table.All(), nil
}

// normalizeCurrencyCode upper-cases code and rejects anything that is not three letters.
func normalizeCurrencyCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", fmt.Errorf("%w: currency code %q must be 3 letters", apperrors.ErrValidation, code)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("%w: currency code %q must be 3 letters", apperrors.ErrValidation, code)
		}
	}
	return code, nil
}
