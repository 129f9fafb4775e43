package services

import (
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/platform/metrics"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, m *metrics.LedgerMetrics, opts ...BaseOption) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo, opts...)
	container.Period = NewPeriodService(repos.PeriodRepo, repos.UnitOfWork, opts...)
	container.Tax = NewTaxService(repos.TaxCodeRepo, opts...)
	container.Transaction = NewTransactionService(repos.TransactionRepo, repos.LedgerRepo, repos.UnitOfWork, opts...)

	// Posting and reversal share the metrics so a reversal's post is counted with the rest.
	container.Posting = NewPostingService(repos.UnitOfWork, m, opts...)
	container.Reversal = NewReversalService(repos.TransactionRepo, repos.ReversalRepo, repos.UnitOfWork, m, opts...)
	container.Reporting = NewReportingService(repos.ReportingRepo, repos.AccountRepo, repos.TaxCodeRepo, opts...)

	return container
}
