package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapErr(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantIs     error
	}{
		{"no rows", pgx.ErrNoRows, http.StatusNotFound, apperrors.ErrNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, http.StatusConflict, apperrors.ErrDuplicate},
		{"foreign key violation", &pgconn.PgError{Code: "23503", ConstraintName: "fk_account"}, http.StatusNotFound, apperrors.ErrNotFound},
		{"lock timeout", &pgconn.PgError{Code: "55P03"}, http.StatusConflict, apperrors.ErrConflict},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, http.StatusConflict, apperrors.ErrConflict},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, http.StatusConflict, apperrors.ErrConflict},
		{"lock timeout wrapped by caller", fmt.Errorf("scan: %w", &pgconn.PgError{Code: "55P03"}), http.StatusConflict, apperrors.ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrapErr(tt.err, "transaction t1")

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantStatus, appErr.Code)
			assert.ErrorIs(t, err, tt.wantIs)
		})
	}
}

func TestWrapErr_OtherErrorsStayInternal(t *testing.T) {
	assert.NoError(t, wrapErr(nil, "x"))

	err := wrapErr(&pgconn.PgError{Code: "22P02"}, "transaction t1")
	var appErr *apperrors.AppError
	assert.False(t, errors.As(err, &appErr))
	assert.Contains(t, err.Error(), "transaction t1")
}

func TestIsConcurrencyErr(t *testing.T) {
	assert.True(t, isConcurrencyErr(&pgconn.PgError{Code: "55P03"}))
	assert.True(t, isConcurrencyErr(fmt.Errorf("commit: %w", &pgconn.PgError{Code: "40001"})))
	assert.False(t, isConcurrencyErr(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isConcurrencyErr(errors.New("boom")))
}

// recordingQuerier remembers the statements it receives and fails queries with queryErr.
type recordingQuerier struct {
	execSQL  []string
	execArgs [][]any
	execErr  error
	queryErr error
}

func (q *recordingQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.execSQL = append(q.execSQL, sql)
	q.execArgs = append(q.execArgs, args)
	return pgconn.CommandTag{}, q.execErr
}

func (q *recordingQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, q.queryErr
}

func (q *recordingQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	panic("not used")
}

func (q *recordingQuerier) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults {
	panic("not used")
}

func TestFindOverlappingFiscalYears_TakesCalendarLock(t *testing.T) {
	q := &recordingQuerier{queryErr: errors.New("stop")}
	repo := &PgxPeriodRepository{BaseRepository: BaseRepository{db: q}}

	_, err := repo.FindOverlappingFiscalYears(context.Background(), "tenant-a",
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC))

	require.Error(t, err)
	require.Len(t, q.execSQL, 1)
	assert.Contains(t, q.execSQL[0], "pg_advisory_xact_lock")
	assert.Equal(t, []any{"tenant-a"}, q.execArgs[0])
}

func TestFindOverlappingFiscalYears_LockTimeoutIsConflict(t *testing.T) {
	q := &recordingQuerier{execErr: &pgconn.PgError{Code: "55P03"}}
	repo := &PgxPeriodRepository{BaseRepository: BaseRepository{db: q}}

	_, err := repo.FindOverlappingFiscalYears(context.Background(), "tenant-a",
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC))

	assert.ErrorIs(t, err, apperrors.ErrConflict)
}
