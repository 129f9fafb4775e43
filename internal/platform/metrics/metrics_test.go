package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestClassifyPostingError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"already posted", &apperrors.AlreadyPostedError{TransactionID: "t"}, ReasonAlreadyPosted},
		{"wrapped unbalanced", fmt.Errorf("post: %w", &apperrors.UnbalancedTransactionError{Debits: decimal.NewFromInt(1), Credits: decimal.Zero}), ReasonUnbalanced},
		{"empty", &apperrors.EmptyTransactionError{}, ReasonEmpty},
		{"locked", &apperrors.LockedPeriodError{}, ReasonLockedPeriod},
		{"inactive", &apperrors.InactiveAccountError{}, ReasonInactiveAccount},
		{"exceeds", &apperrors.AmountExceedsBalanceError{}, ReasonExceedsBalance},
		{"validation", apperrors.NewValidationError("amount", "must be positive"), ReasonValidation},
		{"not found", apperrors.NewNotFoundError("missing"), ReasonNotFound},
		{"deadline", context.DeadlineExceeded, ReasonDeadline},
		{"db lock timeout", &pgconn.PgError{Code: "55P03"}, ReasonDBLockTimeout},
		{"serialization", &pgconn.PgError{Code: "40001"}, ReasonSerialization},
		{"unknown", errors.New("boom"), ReasonUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyPostingError(tc.err))
		})
	}
}

func TestRecordPosting(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordPosting(nil, 2, 10*time.Millisecond)
	m.RecordPosting(&apperrors.AlreadyPostedError{}, 0, time.Millisecond)
	m.RecordReversal("FULL")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.postings.WithLabelValues(OutcomePosted, "")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.postings.WithLabelValues(OutcomeRejected, ReasonAlreadyPosted)))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.ledgerEntries))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.reversals.WithLabelValues("FULL")))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *LedgerMetrics
	assert.NotPanics(t, func() {
		m.RecordPosting(nil, 1, time.Second)
		m.RecordReversal("PARTIAL")
	})
}
