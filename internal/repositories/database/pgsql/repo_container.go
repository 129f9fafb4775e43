package pgsql

import (
	"time"

	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool, lockTimeout time.Duration) portsrepo.RepositoryProvider {
	base := BaseRepository{db: dbPool}
	ledgerRepo := &PgxLedgerRepository{BaseRepository: base}

	return portsrepo.RepositoryProvider{
		AccountRepo:     &PgxAccountRepository{BaseRepository: base},
		PeriodRepo:      &PgxPeriodRepository{BaseRepository: base},
		TaxCodeRepo:     &PgxTaxCodeRepository{BaseRepository: base},
		TransactionRepo: &PgxTransactionRepository{BaseRepository: base},
		LedgerRepo:      ledgerRepo,
		ReversalRepo:    ledgerRepo,
		ReportingRepo:   &PgxReportingRepository{BaseRepository: base},
		UnitOfWork:      NewUnitOfWork(dbPool, lockTimeout),
	}
}
