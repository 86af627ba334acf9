package services

import (
	portsrepo "github.com/SscSPs/family_finance_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/family_finance_engine/internal/core/ports/services"
	"github.com/SscSPs/family_finance_engine/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, provider portsrepo.RateProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo)
	container.Currency = NewCurrencyService(cfg.CurrencyTable())

	// Every calculator converts through the same resolver so the policy is applied uniformly.
	container.ExchangeRate = NewExchangeRateService(
		repos.ExchangeRateRepo,
		WithConversionPolicy(cfg.ConversionPolicy),
	)

	if provider != nil {
		container.RateIngestion = NewRateIngestionService(provider, repos.ExchangeRateRepo, container.ExchangeRate)
	}

	container.Budget = NewBudgetService(repos.BudgetRepo, repos.LedgerRepo, container.ExchangeRate)
	container.SavingsGoal = NewSavingsGoalService(repos.SavingsGoalRepo, repos.LedgerRepo, container.ExchangeRate)
	container.Analytics = NewAnalyticsService(
		repos.LedgerRepo,
		repos.BudgetRepo,
		container.Budget,
		container.ExchangeRate,
		WithTrendMonths(cfg.TrendMonths),
		WithCategoryNames(container.Account),
	)
	container.Transaction = NewTransactionService(repos.LedgerRepo)

	return container
}
