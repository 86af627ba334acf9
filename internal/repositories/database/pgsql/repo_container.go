package pgsql

import (
	portsrepo "github.com/SscSPs/family_finance_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	exchangeRateRepo := newPgxExchangeRateRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool)
	planningRepo := newPgxPlanningRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:      accountRepo,
		ExchangeRateRepo: exchangeRateRepo,
		LedgerRepo:       ledgerRepo,
		BudgetRepo:       planningRepo,
		SavingsGoalRepo:  planningRepo,
	}
}
