package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomePosted   = "posted"
	OutcomeRejected = "rejected"
)

const (
	ReasonAlreadyPosted   = "already_posted"
	ReasonEmpty           = "empty"
	ReasonValidation      = "validation"
	ReasonUnbalanced      = "unbalanced"
	ReasonLockedPeriod    = "locked_period"
	ReasonInactiveAccount = "inactive_account"
	ReasonExceedsBalance  = "exceeds_balance"
	ReasonNotFound        = "not_found"
	ReasonConflict        = "conflict"
	ReasonDeadline        = "deadline_exceeded"
	ReasonDBLockTimeout   = "db_lock_timeout"
	ReasonSerialization   = "serialization_failure"
	ReasonUnknown         = "unknown"
)

// LedgerMetrics captures posting engine health signals.
type LedgerMetrics struct {
	postings      *prometheus.CounterVec
	postDuration  prometheus.Histogram
	ledgerEntries prometheus.Counter
	reversals     *prometheus.CounterVec
}

// New registers the ledger instruments on registerer. A nil registerer gets a private registry.
func New(registerer prometheus.Registerer) *LedgerMetrics {
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}
	m := &LedgerMetrics{
		postings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "postings_total",
			Help:      "Posting attempts by outcome and rejection reason.",
		}, []string{"outcome", "reason"}),
		postDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ledger",
			Name:      "posting_duration_seconds",
			Help:      "Wall time of posting units of work.",
			Buckets:   prometheus.DefBuckets,
		}),
		ledgerEntries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "entries_total",
			Help:      "Ledger entries written.",
		}),
		reversals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "reversals_total",
			Help:      "Reversal drafts created by kind.",
		}, []string{"kind"}),
	}
	registerer.MustRegister(m.postings, m.postDuration, m.ledgerEntries, m.reversals)
	return m
}

// RecordPosting counts a posting attempt. A nil err is a successful post of entries lines.
func (m *LedgerMetrics) RecordPosting(err error, entries int, took time.Duration) {
	if m == nil {
		return
	}
	m.postDuration.Observe(took.Seconds())
	if err != nil {
		m.postings.WithLabelValues(OutcomeRejected, ClassifyPostingError(err)).Inc()
		return
	}
	m.postings.WithLabelValues(OutcomePosted, "").Inc()
	m.ledgerEntries.Add(float64(entries))
}

// RecordReversal counts a created reversal draft.
func (m *LedgerMetrics) RecordReversal(kind string) {
	if m == nil {
		return
	}
	m.reversals.WithLabelValues(kind).Inc()
}

// ClassifyPostingError maps a posting failure to a low-cardinality reason label.
func ClassifyPostingError(err error) string {
	var (
		alreadyPosted *apperrors.AlreadyPostedError
		empty         *apperrors.EmptyTransactionError
		unbalanced    *apperrors.UnbalancedTransactionError
		locked        *apperrors.LockedPeriodError
		inactive      *apperrors.InactiveAccountError
		exceeds       *apperrors.AmountExceedsBalanceError
		pgErr         *pgconn.PgError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &alreadyPosted):
		return ReasonAlreadyPosted
	case errors.As(err, &empty):
		return ReasonEmpty
	case errors.As(err, &unbalanced):
		return ReasonUnbalanced
	case errors.As(err, &locked):
		return ReasonLockedPeriod
	case errors.As(err, &inactive):
		return ReasonInactiveAccount
	case errors.As(err, &exceeds):
		return ReasonExceedsBalance
	case errors.Is(err, apperrors.ErrValidation):
		return ReasonValidation
	case errors.Is(err, apperrors.ErrNotFound):
		return ReasonNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonDeadline
	case errors.As(err, &pgErr) && pgErr.Code == "55P03":
		return ReasonDBLockTimeout
	case errors.As(err, &pgErr) && pgErr.Code == "40001":
		return ReasonSerialization
	case errors.Is(err, apperrors.ErrConflict):
		return ReasonConflict
	}
	return ReasonUnknown
}
