package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/SscSPs/family_finance_engine/internal/adapters/rateprovider"
	"github.com/SscSPs/family_finance_engine/internal/core/services"
	"github.com/SscSPs/family_finance_engine/internal/logging"
	"github.com/SscSPs/family_finance_engine/internal/platform/config"
	"github.com/SscSPs/family_finance_engine/internal/repositories/database/pgsql"
	"github.com/SscSPs/family_finance_engine/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}
	command := os.Args[1]
	if command == "help" || command == "-h" || command == "--help" {
		printUsage(os.Stdout)
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Logs go to stderr so stdout carries only the JSON result.
	logger := logging.New(os.Stderr, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, runLogger := logging.WithRun(ctx, logger, command)

	if err := run(ctx, command, os.Args[2:], cfg, runLogger, os.Stdout); err != nil {
		runLogger.Error("Command failed", slog.String("error", err.Error()))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, args []string, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	if command == "migrate" {
		_, err := pgsql.RunMigrations(cfg.DatabaseURL, logger)
		return err
	}

	handler, ok := commands[command]
	if !ok {
		printUsage(os.Stderr)
		return fmt.Errorf("unknown command %q", command)
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database pool: %w", err)
	}
	defer database.ClosePgxPool(dbPool, logger)

	provider := rateprovider.New(cfg.RateProvider.URL,
		rateprovider.WithTimeout(cfg.RateProvider.Timeout),
		rateprovider.WithAPIKey(cfg.RateProvider.APIKey),
		rateprovider.WithRetries(cfg.RateProvider.Retries, cfg.RateProvider.Backoff),
	)

	a := &app{
		cfg:      cfg,
		logger:   logger,
		services: services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(dbPool), provider),
		out:      out,
	}
	return handler(ctx, a, args)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Family finance engine")
	fmt.Fprintln(w, "\nUsage:")
	fmt.Fprintln(w, "  finance_engine <command> [options]")
	fmt.Fprintln(w, "\nCommands:")
	fmt.Fprintln(w, "  migrate      Apply database migrations")
	fmt.Fprintln(w, "  sync-rates   Fetch and store exchange rates (-date -base -symbols -every)")
	fmt.Fprintln(w, "  rate         Resolve a stored rate (-from -to -date)")
	fmt.Fprintln(w, "  convert      Convert an amount (-amount -from -to -date)")
	fmt.Fprintln(w, "  currencies   List supported currencies (-code)")
	fmt.Fprintln(w, "  budget       Budget progress (-id -as-of)")
	fmt.Fprintln(w, "  goal         Savings goal progress and projection (-id -monthly -months)")
	fmt.Fprintln(w, "  dashboard    Monthly dashboard of an account (-account -month)")
	fmt.Fprintln(w, "  statistics   Cash flow over a date range (-account -from -to)")
	fmt.Fprintln(w, "  record       Record a transaction (-account -type -amount -currency -date ...)")
	fmt.Fprintln(w, "  amend        Change fields of a transaction (-id -user and any record option)")
	fmt.Fprintln(w, "  void         Soft-delete a transaction (-id -user)")
	fmt.Fprintln(w, "  help         Show this help message")
	fmt.Fprintln(w, "\nRun 'finance_engine <command> -h' for the options of a command.")
}
