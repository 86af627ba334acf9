package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used by the operator commands.
type ServiceContainer struct {
	Account       AccountSvcFacade
	Currency      CurrencySvcFacade
	ExchangeRate  ExchangeRateSvcFacade
	RateIngestion RateIngestionSvc
	Budget        BudgetSvc
	SavingsGoal   SavingsGoalSvc
	Analytics     AnalyticsSvc
	Transaction   TransactionSvc
}
