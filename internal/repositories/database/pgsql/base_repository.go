package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is the subset of *pgxpool.Pool and pgx.Tx the repositories use, so the
// same repository code runs on the pool or inside a unit of work.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db querier
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgLockNotAvailable    = "55P03"
	pgDeadlockDetected    = "40P01"
	pgSerializationFail   = "40001"
)

// wrapErr maps driver errors onto application errors. what names the object for messages.
func wrapErr(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFoundError(what + " not found")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperrors.NewAppError(http.StatusConflict, what+" already exists", apperrors.ErrDuplicate)
		case pgForeignKeyViolation:
			return apperrors.NewAppError(http.StatusNotFound, what+" references a missing "+pgErr.ConstraintName, apperrors.ErrNotFound)
		case pgLockNotAvailable, pgDeadlockDetected, pgSerializationFail:
			return apperrors.NewAppError(http.StatusConflict, what+" is locked by a concurrent operation", apperrors.ErrConflict)
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}

// isConcurrencyErr reports whether err is a lock timeout, deadlock or serialization failure.
func isConcurrencyErr(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgLockNotAvailable, pgDeadlockDetected, pgSerializationFail:
		return true
	}
	return false
}

// execBatch sends b and drains every result, returning the first failure.
func (r *BaseRepository) execBatch(ctx context.Context, b *pgx.Batch, what string) error {
	br := r.db.SendBatch(ctx, b)
	var batchErr error
	for i := 0; i < b.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = wrapErr(err, fmt.Sprintf("%s (item %d)", what, i+1))
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close %s batch: %w", what, err)
	}
	return batchErr
}
