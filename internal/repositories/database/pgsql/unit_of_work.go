package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UnitOfWork runs repository calls inside one READ COMMITTED transaction. Row locks
// taken by the *ForUpdate and *ForShare finders serialise competing writers.
type UnitOfWork struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

func NewUnitOfWork(pool *pgxpool.Pool, lockTimeout time.Duration) *UnitOfWork {
	return &UnitOfWork{pool: pool, lockTimeout: lockTimeout}
}

var _ portsrepo.UnitOfWork = (*UnitOfWork)(nil)

// WithinTx runs fn in a transaction. Lock waits that time out and deadlocks surface as
// apperrors.ErrConflict, even when fn returned them unmapped.
func (u *UnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	err := pgx.BeginTxFunc(ctx, u.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		if u.lockTimeout > 0 {
			// SET does not take bind parameters.
			if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = %d", u.lockTimeout.Milliseconds())); err != nil {
				return fmt.Errorf("failed to set lock timeout: %w", err)
			}
		}
		return fn(ctx, txRepositories(tx))
	})
	if isConcurrencyErr(err) && !errors.Is(err, apperrors.ErrConflict) {
		return wrapErr(err, "unit of work")
	}
	return err
}

func txRepositories(tx pgx.Tx) portsrepo.TxRepositories {
	base := BaseRepository{db: tx}
	ledger := &PgxLedgerRepository{BaseRepository: base}
	return portsrepo.TxRepositories{
		Accounts:     &PgxAccountRepository{BaseRepository: base},
		Periods:      &PgxPeriodRepository{BaseRepository: base},
		TaxCodes:     &PgxTaxCodeRepository{BaseRepository: base},
		Transactions: &PgxTransactionRepository{BaseRepository: base},
		Ledger:       ledger,
		Reversals:    ledger,
		Audit:        ledger,
	}
}
