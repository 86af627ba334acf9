package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/family_finance_engine/internal/apperrors"
	"github.com/SscSPs/family_finance_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/family_finance_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/family_finance_engine/internal/core/ports/services"
	"github.com/SscSPs/family_finance_engine/internal/utils/accounting"
	"github.com/SscSPs/family_finance_engine/internal/utils/period"
	"github.com/shopspring/decimal"
)

// exchangeRateService resolves historical rates and converts amounts with them.
// It is the only place the exact / latest / inverse fallback chain lives.
type exchangeRateService struct {
	BaseService
	rateRepo portsrepo.ExchangeRateReader
	policy   domain.ConversionPolicy
}

// ExchangeRateServiceOption is a functional option for configuring the exchange rate service
type ExchangeRateServiceOption func(*exchangeRateService)

// WithConversionPolicy selects what Convert does when no rate resolves.
func WithConversionPolicy(policy domain.ConversionPolicy) ExchangeRateServiceOption {
	return func(s *exchangeRateService) {
		s.policy = policy
	}
}

// NewExchangeRateService creates a new exchange rate service. The policy defaults to lenient.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateReader, options ...ExchangeRateServiceOption) portssvc.ExchangeRateSvcFacade {
	svc := &exchangeRateService{
		rateRepo: rateRepo,
		policy:   domain.PolicyLenient,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

func (s *exchangeRateService) ResolveRate(ctx context.Context, fromCode, toCode string, date time.Time) (*domain.ExchangeRate, error) {
	from, err := normalizeCurrencyCode(fromCode)
	if err != nil {
		return nil, err
	}
	to, err := normalizeCurrencyCode(toCode)
	if err != nil {
		return nil, err
	}
	day := period.Day(date)

	if from == to {
		return &domain.ExchangeRate{BaseCurrency: from, TargetCurrency: to, RateDate: day, Rate: decimal.NewFromInt(1), Source: "identity"}, nil
	}

	rate, err := s.findOnOrBefore(ctx, from, to, day)
	if err == nil {
		return rate, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to look up exchange rate",
			slog.String("from", from), slog.String("to", to), slog.String("date", period.DateKey(day)))
		return nil, fmt.Errorf("failed to look up rate %s->%s: %w", from, to, err)
	}

	inverse, err := s.findOnOrBefore(ctx, to, from, day)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to look up inverse exchange rate",
			slog.String("from", to), slog.String("to", from), slog.String("date", period.DateKey(day)))
		return nil, fmt.Errorf("failed to look up rate %s->%s: %w", to, from, err)
	}
	if err == nil && !inverse.Rate.IsZero() {
		derived := *inverse
		derived.BaseCurrency = from
		derived.TargetCurrency = to
		derived.Rate = accounting.Div(decimal.NewFromInt(1), inverse.Rate, accounting.RateScale)
		derived.Inverted = true
		return &derived, nil
	}

	return nil, fmt.Errorf("%w: %s->%s on %s", apperrors.ErrRateUnavailable, from, to, period.DateKey(day))
}

// findOnOrBefore tries the exact date first, then the most recent earlier rate.
func (s *exchangeRateService) findOnOrBefore(ctx context.Context, base, target string, day time.Time) (*domain.ExchangeRate, error) {
	rate, err := s.rateRepo.FindExchangeRate(ctx, base, target, day)
	if err == nil {
		return rate, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	return s.rateRepo.FindLatestExchangeRate(ctx, base, target, day)
}

// Convert converts amount without memoising; aggregates should use NewConverter.
func (s *exchangeRateService) Convert(ctx context.Context, amount domain.Money, to string, date time.Time) (domain.Money, error) {
	return s.convert(ctx, s.ResolveRate, amount, to, date)
}

func (s *exchangeRateService) NewConverter() portssvc.Converter {
	return &memoConverter{svc: s, memo: make(map[rateKey]*domain.ExchangeRate)}
}

type resolveFunc func(ctx context.Context, from, to string, date time.Time) (*domain.ExchangeRate, error)

func (s *exchangeRateService) convert(ctx context.Context, resolve resolveFunc, amount domain.Money, to string, date time.Time) (domain.Money, error) {
	target, err := normalizeCurrencyCode(to)
	if err != nil {
		return domain.Money{}, err
	}
	if amount.Currency == target {
		return amount, nil
	}

	rate, err := resolve(ctx, amount.Currency, target, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrRateUnavailable) && s.policy != domain.PolicyStrict {
			s.LogWarn(ctx, "No exchange rate available, amount left unconverted",
				slog.String("from", amount.Currency),
				slog.String("to", target),
				slog.String("date", period.DateKey(date)))
			return amount, nil
		}
		return domain.Money{}, err
	}

	return domain.NewMoney(accounting.Mul(amount.Amount, rate.Rate, accounting.MoneyScale), target), nil
}

type rateKey struct {
	from, to string
	day      string
}

// memoConverter caches resolutions (including misses, stored as nil) for one computation.
// It is not safe for concurrent use.
type memoConverter struct {
	svc  *exchangeRateService
	memo map[rateKey]*domain.ExchangeRate
}

func (c *memoConverter) Convert(ctx context.Context, amount domain.Money, to string, date time.Time) (domain.Money, error) {
	return c.svc.convert(ctx, c.resolve, amount, to, date)
}

func (c *memoConverter) resolve(ctx context.Context, from, to string, date time.Time) (*domain.ExchangeRate, error) {
	key := rateKey{from: from, to: to, day: period.DateKey(date)}
	if rate, ok := c.memo[key]; ok {
		if rate == nil {
			return nil, fmt.Errorf("%w: %s->%s on %s", apperrors.ErrRateUnavailable, from, to, key.day)
		}
		return rate, nil
	}

	rate, err := c.svc.ResolveRate(ctx, from, to, date)
	switch {
	case err == nil:
		c.memo[key] = rate
	case errors.Is(err, apperrors.ErrRateUnavailable):
		c.memo[key] = nil
	}
	return rate, err
}
