package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/family_finance_engine/internal/apperrors"
	"github.com/SscSPs/family_finance_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/family_finance_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/family_finance_engine/internal/core/ports/services"
	"github.com/SscSPs/family_finance_engine/internal/dto"
	"github.com/SscSPs/family_finance_engine/internal/utils/period"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ingestionUser is recorded as the creator of rows written by rate ingestion.
const ingestionUser = "rate-ingestion"

// rateIngestionService implements the RateIngestionSvc interface
type rateIngestionService struct {
	BaseService
	provider portsrepo.RateProvider
	rateRepo portsrepo.ExchangeRateWriter
	resolver portssvc.ExchangeRateReaderSvc
}

// RateIngestionServiceOption is a functional option for configuring the ingestion service
type RateIngestionServiceOption func(*rateIngestionService)

// WithIngestionClock overrides the clock used for audit timestamps.
func WithIngestionClock(now func() time.Time) RateIngestionServiceOption {
	return func(s *rateIngestionService) {
		s.now = now
	}
}

// NewRateIngestionService creates a new rate ingestion service with the provided options
func NewRateIngestionService(provider portsrepo.RateProvider, rateRepo portsrepo.ExchangeRateWriter, resolver portssvc.ExchangeRateReaderSvc, options ...RateIngestionServiceOption) portssvc.RateIngestionSvc {
	svc := &rateIngestionService{
		provider: provider,
		rateRepo: rateRepo,
		resolver: resolver,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.RateIngestionSvc = (*rateIngestionService)(nil)

func (s *rateIngestionService) FetchRates(ctx context.Context, date time.Time, baseCurrency string, symbols []string) (map[string]decimal.Decimal, error) {
	req, err := newSyncRatesRequest(date, baseCurrency, symbols)
	if err != nil {
		return nil, err
	}
	day := period.Day(date)

	raw, err := s.provider.FetchRates(ctx, day, req.BaseCurrency, req.Symbols)
	if err != nil {
		if !errors.Is(err, apperrors.ErrIngestion) {
			err = fmt.Errorf("%w: %v", apperrors.ErrIngestion, err)
		}
		s.LogError(ctx, err, "Failed to fetch rates from provider",
			slog.String("provider", s.provider.Name()),
			slog.String("base", req.BaseCurrency),
			slog.String("date", req.Date))
		return nil, err
	}

	wanted := make(map[string]struct{}, len(req.Symbols))
	for _, sym := range req.Symbols {
		wanted[sym] = struct{}{}
	}

	rates := make(map[string]decimal.Decimal, len(req.Symbols))
	for sym, rate := range raw {
		sym = strings.ToUpper(sym)
		if _, ok := wanted[sym]; !ok {
			continue
		}
		if !rate.IsPositive() {
			s.LogWarn(ctx, "Ignoring non-positive rate from provider",
				slog.String("symbol", sym), slog.String("rate", rate.String()))
			continue
		}
		rates[sym] = rate
	}

	if len(rates) < len(req.Symbols) {
		s.LogWarn(ctx, "Provider returned fewer rates than requested",
			slog.Int("requested", len(req.Symbols)),
			slog.Int("received", len(rates)))
	}
	return rates, nil
}

func (s *rateIngestionService) SyncRates(ctx context.Context, date time.Time, baseCurrency string, symbols []string) (int, error) {
	rates, err := s.FetchRates(ctx, date, baseCurrency, symbols)
	if err != nil {
		return 0, err
	}
	if len(rates) == 0 {
		return 0, nil
	}

	base := strings.ToUpper(strings.TrimSpace(baseCurrency))
	day := period.Day(date)
	now := s.Now()

	targets := make([]string, 0, len(rates))
	for sym := range rates {
		targets = append(targets, sym)
	}
	sort.Strings(targets)

	rows := make([]domain.ExchangeRate, 0, len(targets))
	for _, sym := range targets {
		rows = append(rows, domain.ExchangeRate{
			ExchangeRateID: uuid.NewString(),
			BaseCurrency:   base,
			TargetCurrency: sym,
			RateDate:       day,
			Rate:           rates[sym],
			Source:         s.provider.Name(),
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     ingestionUser,
				LastUpdatedAt: now,
				LastUpdatedBy: ingestionUser,
			},
		})
	}

	written, err := s.rateRepo.UpsertExchangeRates(ctx, rows)
	if err != nil {
		s.LogError(ctx, err, "Failed to store fetched rates",
			slog.String("base", base),
			slog.String("date", period.DateKey(day)))
		return 0, fmt.Errorf("failed to store rates for %s on %s: %w", base, period.DateKey(day), err)
	}

	s.LogInfo(ctx, "Exchange rates synced",
		slog.String("provider", s.provider.Name()),
		slog.String("base", base),
		slog.String("date", period.DateKey(day)),
		slog.Int("rows_written", written))
	return written, nil
}

func (s *rateIngestionService) GetRate(ctx context.Context, date time.Time, fromCode, toCode string) (*domain.ExchangeRate, error) {
	return s.resolver.ResolveRate(ctx, fromCode, toCode, date)
}

// newSyncRatesRequest normalises and validates the ingestion input. Symbols are
// upper-cased, de-duplicated and stripped of the base currency.
func newSyncRatesRequest(date time.Time, baseCurrency string, symbols []string) (dto.SyncRatesRequest, error) {
	req := dto.SyncRatesRequest{BaseCurrency: strings.ToUpper(strings.TrimSpace(baseCurrency))}
	if !date.IsZero() {
		req.Date = period.DateKey(date)
	}

	seen := make(map[string]struct{}, len(symbols))
	for _, sym := range symbols {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if sym == "" || sym == req.BaseCurrency {
			continue
		}
		if _, dup := seen[sym]; dup {
			continue
		}
		seen[sym] = struct{}{}
		req.Symbols = append(req.Symbols, sym)
	}

	if err := validate.Struct(req); err != nil {
		return req, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return req, nil
}
