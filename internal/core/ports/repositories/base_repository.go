package repositories

import (
	"context"
)

// TxRepositories are the repositories bound to one storage transaction.
type TxRepositories struct {
	Accounts     AccountReader
	Periods      PeriodRepositoryFacade
	TaxCodes     TaxCodeReader
	Transactions TransactionRepositoryFacade
	Ledger       LedgerRepositoryFacade
	Reversals    ReversalLinkRepository
	Audit        AuditSink
}

// UnitOfWork runs fn inside one storage transaction. The transaction commits when fn
// returns nil and rolls back on error, panic or context cancellation.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}
