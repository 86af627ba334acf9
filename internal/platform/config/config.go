package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/SscSPs/family_finance_engine/internal/core/domain"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// RateProviderConfig configures the external exchange rate provider.
type RateProviderConfig struct {
	URL     string        `validate:"required,url"`
	APIKey  string        // Optional; sent as access_key when set
	Timeout time.Duration `validate:"gt=0"`
	Retries int           `validate:"gte=0,lte=10"`
	Backoff time.Duration `validate:"gte=0"`
}

// Config holds application configuration.
type Config struct {
	DatabaseURL      string
	IsProduction     bool
	EnableDBCheck    bool
	LogLevel         string                  `validate:"oneof=debug info warn warning error"`
	ConversionPolicy domain.ConversionPolicy `validate:"oneof=lenient strict"`
	RateProvider     RateProviderConfig
	RateBaseCurrency string   `validate:"required,iso4217"`
	RateSymbols      []string `validate:"dive,iso4217"`
	TrendMonths      int      `validate:"gte=1,lte=60"`
	// Currencies is the supported currency table; the built-in list unless the config file overrides it.
	Currencies []domain.Currency `validate:"min=1"`
}

// LoadConfig loads configuration from environment variables, a .env file and,
// when FINANCE_CONFIG_FILE is set, a YAML/JSON/TOML config file.
// Environment variables win over the file, which wins over defaults.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CONVERSION_POLICY", string(domain.PolicyLenient))
	v.SetDefault("RATE_PROVIDER_URL", "https://api.exchangerate.host")
	v.SetDefault("RATE_PROVIDER_API_KEY", "")
	v.SetDefault("RATE_PROVIDER_TIMEOUT", "15s")
	v.SetDefault("RATE_PROVIDER_RETRIES", 2)
	v.SetDefault("RATE_PROVIDER_BACKOFF", "500ms")
	v.SetDefault("RATE_BASE_CURRENCY", "USD")
	v.SetDefault("RATE_SYMBOLS", "EUR,GBP,JPY,CHF,CAD,AUD")
	v.SetDefault("TREND_MONTHS", 6)

	v.AutomaticEnv()

	if file := v.GetString("FINANCE_CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := &Config{
		DatabaseURL:      v.GetString("PGSQL_URL"),
		IsProduction:     v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:    v.GetBool("ENABLE_DB_CHECK"),
		LogLevel:         strings.ToLower(v.GetString("LOG_LEVEL")),
		ConversionPolicy: domain.ConversionPolicy(strings.ToLower(v.GetString("CONVERSION_POLICY"))),
		RateProvider: RateProviderConfig{
			URL:     strings.TrimRight(v.GetString("RATE_PROVIDER_URL"), "/"),
			APIKey:  v.GetString("RATE_PROVIDER_API_KEY"),
			Timeout: v.GetDuration("RATE_PROVIDER_TIMEOUT"),
			Retries: v.GetInt("RATE_PROVIDER_RETRIES"),
			Backoff: v.GetDuration("RATE_PROVIDER_BACKOFF"),
		},
		RateBaseCurrency: strings.ToUpper(v.GetString("RATE_BASE_CURRENCY")),
		RateSymbols:      SplitList(v.GetString("RATE_SYMBOLS")),
		TrendMonths:      v.GetInt("TREND_MONTHS"),
		Currencies:       domain.DefaultCurrencies(),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	if v.IsSet("currencies") {
		var currencies []domain.Currency
		if err := v.UnmarshalKey("currencies", &currencies); err != nil {
			return nil, fmt.Errorf("invalid currencies in config file: %w", err)
		}
		cfg.Currencies = currencies
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// CurrencyTable builds the immutable currency table from the loaded configuration.
func (c *Config) CurrencyTable() domain.CurrencyTable {
	return domain.NewCurrencyTable(c.Currencies)
}

// SplitList splits a comma separated list, upper-casing entries and dropping blanks.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
