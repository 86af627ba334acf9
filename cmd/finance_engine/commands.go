package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/family_finance_engine/internal/apperrors"
	"github.com/SscSPs/family_finance_engine/internal/core/domain"
	portssvc "github.com/SscSPs/family_finance_engine/internal/core/ports/services"
	"github.com/SscSPs/family_finance_engine/internal/dto"
	"github.com/SscSPs/family_finance_engine/internal/platform/config"
	"github.com/SscSPs/family_finance_engine/internal/utils/accounting"
	"github.com/SscSPs/family_finance_engine/internal/utils/period"
	"github.com/shopspring/decimal"
)

// app is what every command runs against.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	services *portssvc.ServiceContainer
	out      io.Writer
}

type commandFunc func(ctx context.Context, a *app, args []string) error

var commands = map[string]commandFunc{
	"sync-rates": runSyncRates,
	"rate":       runRate,
	"convert":    runConvert,
	"currencies": runCurrencies,
	"budget":     runBudget,
	"goal":       runGoal,
	"dashboard":  runDashboard,
	"statistics": runStatistics,
	"record":     runRecord,
	"amend":      runAmend,
	"void":       runVoid,
}

func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ingestion returns the rate ingestion service, which only exists when a provider is configured.
func (a *app) ingestion() (portssvc.RateIngestionSvc, error) {
	if a.services.RateIngestion == nil {
		return nil, errors.New("no rate provider configured, set RATE_PROVIDER_URL")
	}
	return a.services.RateIngestion, nil
}

func runSyncRates(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("sync-rates", flag.ContinueOnError)
	date := fs.String("date", "", "rate date YYYY-MM-DD (default today)")
	base := fs.String("base", a.cfg.RateBaseCurrency, "base currency")
	symbols := fs.String("symbols", strings.Join(a.cfg.RateSymbols, ","), "comma separated target currencies")
	every := fs.Duration("every", 0, "repeat at this interval until interrupted; the date moves with the clock")
	if err := fs.Parse(args); err != nil {
		return err
	}

	fixed, err := parseDay(*date, time.Time{})
	if err != nil {
		return err
	}
	ingestion, err := a.ingestion()
	if err != nil {
		return err
	}
	targets := config.SplitList(*symbols)

	syncOnce := func(now time.Time) error {
		day := fixed
		if day.IsZero() {
			day = period.Day(now)
		}
		written, err := ingestion.SyncRates(ctx, day, *base, targets)
		if err != nil {
			return err
		}
		return a.writeJSON(dto.SyncRatesResponse{
			Date:         period.DateKey(day),
			BaseCurrency: strings.ToUpper(*base),
			RowsWritten:  written,
		})
	}

	if err := syncOnce(time.Now().UTC()); err != nil {
		return err
	}
	if *every <= 0 {
		return nil
	}

	ticker := time.NewTicker(*every)
	defer ticker.Stop()
	a.logger.Info("Rate sync scheduled", slog.Duration("every", *every))
	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Shutdown signal received, stopping rate sync")
			return nil
		case now := <-ticker.C:
			// A failed round is logged and retried on the next tick.
			if err := syncOnce(now.UTC()); err != nil {
				a.logger.Error("Periodic rate sync failed", slog.String("error", err.Error()))
			}
		}
	}
}

func runRate(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("rate", flag.ContinueOnError)
	from := fs.String("from", "", "source currency")
	to := fs.String("to", "", "target currency")
	date := fs.String("date", "", "date YYYY-MM-DD (default today)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	day, err := parseDay(*date, period.Day(time.Now().UTC()))
	if err != nil {
		return err
	}
	ingestion, err := a.ingestion()
	if err != nil {
		return err
	}
	rate, err := ingestion.GetRate(ctx, day, *from, *to)
	if err != nil {
		return err
	}
	return a.writeJSON(dto.ToExchangeRateResponse(rate))
}

func runConvert(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	amount := fs.String("amount", "", "amount to convert")
	from := fs.String("from", "", "source currency")
	to := fs.String("to", "", "target currency")
	date := fs.String("date", "", "date YYYY-MM-DD (default today)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	value, err := accounting.Parse(*amount)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	day, err := parseDay(*date, period.Day(time.Now().UTC()))
	if err != nil {
		return err
	}

	in := domain.NewMoney(value, *from)
	out, err := a.services.ExchangeRate.Convert(ctx, in, *to, day)
	if err != nil {
		return err
	}
	return a.writeJSON(dto.ToConversionResponse(in, out, strings.ToUpper(*to), period.DateKey(day)))
}

func runCurrencies(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("currencies", flag.ContinueOnError)
	code := fs.String("code", "", "show a single currency")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *code != "" {
		currency, err := a.services.Currency.GetCurrencyByCode(ctx, *code)
		if err != nil {
			return err
		}
		return a.writeJSON(dto.ToCurrencyResponse(currency))
	}

	currencies, err := a.services.Currency.ListCurrencies(ctx)
	if err != nil {
		return err
	}
	return a.writeJSON(dto.ToListCurrencyResponse(currencies))
}

func runBudget(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("budget", flag.ContinueOnError)
	id := fs.String("id", "", "budget ID")
	asOf := fs.String("as-of", "", "date inside the period YYYY-MM-DD (default today)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	day, err := parseDay(*asOf, time.Time{})
	if err != nil {
		return err
	}
	budget, err := a.services.Budget.GetBudget(ctx, *id)
	if err != nil {
		return err
	}
	progress, err := a.services.Budget.CalculateProgress(ctx, *budget, day)
	if err != nil {
		return err
	}
	return a.writeJSON(dto.ToBudgetProgressResponse(progress))
}

func runGoal(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("goal", flag.ContinueOnError)
	id := fs.String("id", "", "savings goal ID")
	monthly := fs.String("monthly", "", "monthly contribution to project with (default: trailing average)")
	months := fs.Int("months", 0, "months in the trailing average (default 3)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var override *decimal.Decimal
	if *monthly != "" {
		value, err := accounting.Parse(*monthly)
		if err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		override = &value
	}

	goal, err := a.services.SavingsGoal.GetSavingsGoal(ctx, *id)
	if err != nil {
		return err
	}
	progress, err := a.services.SavingsGoal.CalculateProgress(ctx, *goal, time.Time{})
	if err != nil {
		return err
	}
	projection, err := a.services.SavingsGoal.CalculateProjection(ctx, *goal, override, *months)
	if err != nil {
		return err
	}
	return a.writeJSON(dto.GoalReportResponse{
		Progress:   dto.ToGoalProgressResponse(progress),
		Projection: dto.ToGoalProjectionResponse(projection),
	})
}

func runDashboard(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	accountID := fs.String("account", "", "account ID")
	month := fs.String("month", "", "month YYYY-MM (default current)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var asOf time.Time
	if *month != "" {
		m, err := period.ParseMonth(*month)
		if err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		asOf = m
	}

	account, err := a.services.Account.GetAccountByID(ctx, *accountID)
	if err != nil {
		return err
	}
	data, err := a.services.Analytics.GetDashboardData(ctx, *account, asOf)
	if err != nil {
		return err
	}
	return a.writeJSON(dto.ToDashboardResponse(data))
}

func runStatistics(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("statistics", flag.ContinueOnError)
	accountID := fs.String("account", "", "account ID")
	from := fs.String("from", "", "first day YYYY-MM-DD")
	to := fs.String("to", "", "last day YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return err
	}

	start, err := parseDay(*from, time.Time{})
	if err != nil {
		return err
	}
	end, err := parseDay(*to, time.Time{})
	if err != nil {
		return err
	}

	account, err := a.services.Account.GetAccountByID(ctx, *accountID)
	if err != nil {
		return err
	}
	stats, err := a.services.Analytics.GetStatisticsRange(ctx, *account, start, end)
	if err != nil {
		return err
	}
	return a.writeJSON(dto.ToStatisticsResponse(stats))
}

func runRecord(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("record", flag.ContinueOnError)
	req, user, err := parseRecordFlags(fs, args)
	if err != nil {
		return err
	}

	txn, err := a.services.Transaction.CreateTransaction(ctx, req, user)
	if err != nil {
		return err
	}
	return a.writeJSON(txn)
}

// parseRecordFlags reads the flags of the record command into a create request.
func parseRecordFlags(fs *flag.FlagSet, args []string) (dto.CreateTransactionRequest, string, error) {
	accountID := fs.String("account", "", "account ID")
	txnType := fs.String("type", string(domain.Expense), "expense, income or transfer")
	amount := fs.String("amount", "", "positive amount")
	currency := fs.String("currency", "", "currency code")
	date := fs.String("date", "", "date YYYY-MM-DD (default today)")
	category := fs.String("category", "", "category ID")
	subcategory := fs.String("subcategory", "", "subcategory ID")
	description := fs.String("description", "", "free text")
	user := fs.String("user", "", "user recording the transaction")
	if err := fs.Parse(args); err != nil {
		return dto.CreateTransactionRequest{}, "", err
	}

	if *user == "" {
		return dto.CreateTransactionRequest{}, "", apperrors.NewValidationError("-user is required")
	}
	value, err := accounting.Parse(*amount)
	if err != nil {
		return dto.CreateTransactionRequest{}, "", fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	day, err := parseDay(*date, period.Day(time.Now().UTC()))
	if err != nil {
		return dto.CreateTransactionRequest{}, "", err
	}

	return dto.CreateTransactionRequest{
		AccountID:     *accountID,
		Type:          strings.ToLower(*txnType),
		Amount:        value,
		Currency:      strings.ToUpper(*currency),
		Date:          day,
		CategoryID:    optional(*category),
		SubcategoryID: optional(*subcategory),
		Description:   *description,
	}, *user, nil
}

func runAmend(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("amend", flag.ContinueOnError)
	id, req, user, err := parseAmendFlags(fs, args)
	if err != nil {
		return err
	}

	txn, err := a.services.Transaction.UpdateTransaction(ctx, id, req, user)
	if err != nil {
		return err
	}
	return a.writeJSON(txn)
}

// parseAmendFlags builds a partial update from the flags that were actually passed.
func parseAmendFlags(fs *flag.FlagSet, args []string) (string, dto.UpdateTransactionRequest, string, error) {
	var req dto.UpdateTransactionRequest
	id := fs.String("id", "", "transaction ID")
	user := fs.String("user", "", "user amending the transaction")
	txnType := fs.String("type", "", "expense, income or transfer")
	amount := fs.String("amount", "", "positive amount")
	currency := fs.String("currency", "", "currency code")
	date := fs.String("date", "", "date YYYY-MM-DD")
	category := fs.String("category", "", "category ID")
	subcategory := fs.String("subcategory", "", "subcategory ID")
	description := fs.String("description", "", "free text")
	fs.BoolVar(&req.ClearCategory, "clear-category", false, "remove category and subcategory")
	if err := fs.Parse(args); err != nil {
		return "", req, "", err
	}
	if *id == "" || *user == "" {
		return "", req, "", apperrors.NewValidationError("-id and -user are required")
	}

	var parseErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "type":
			v := strings.ToLower(*txnType)
			req.Type = &v
		case "amount":
			v, err := accounting.Parse(*amount)
			if err != nil {
				parseErr = fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
				return
			}
			req.Amount = &v
		case "currency":
			v := strings.ToUpper(*currency)
			req.Currency = &v
		case "date":
			v, err := parseDay(*date, time.Time{})
			if err != nil {
				parseErr = err
				return
			}
			req.Date = &v
		case "category":
			req.CategoryID = category
		case "subcategory":
			req.SubcategoryID = subcategory
		case "description":
			req.Description = description
		}
	})
	if parseErr != nil {
		return "", req, "", parseErr
	}
	return *id, req, *user, nil
}

func runVoid(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("void", flag.ContinueOnError)
	id := fs.String("id", "", "transaction ID")
	user := fs.String("user", "", "user deleting the transaction")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *user == "" {
		return apperrors.NewValidationError("-user is required")
	}

	if err := a.services.Transaction.DeleteTransaction(ctx, *id, *user); err != nil {
		return err
	}
	return a.writeJSON(map[string]string{"transactionID": *id, "status": "deleted"})
}

// parseDay parses an optional YYYY-MM-DD flag, returning def when it is empty.
func parseDay(s string, def time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	d, err := period.ParseDate(s)
	if err != nil {
		return time.Time{}, errors.Join(apperrors.ErrValidation, err)
	}
	return d, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
