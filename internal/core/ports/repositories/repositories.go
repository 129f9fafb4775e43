package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	AccountRepo     AccountRepositoryFacade
	PeriodRepo      PeriodRepositoryFacade
	TaxCodeRepo     TaxCodeRepositoryFacade
	TransactionRepo TransactionRepositoryFacade
	LedgerRepo      LedgerRepositoryFacade
	ReversalRepo    ReversalLinkRepository
	ReportingRepo   ReportingRepository
	UnitOfWork      UnitOfWork
}
