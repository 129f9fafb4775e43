package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionReader defines read operations for transactions and their lines
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction with its lines ordered by line number.
	FindTransactionByID(ctx context.Context, tenantID, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a page of transaction headers using token-based pagination.
	// It returns the transactions, a token for the next page, and an error.
	ListTransactions(ctx context.Context, tenantID string, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// PendingReversalAmounts sums, per original line id, the amounts of reversal lines
	// still sitting in DRAFT transactions.
	PendingReversalAmounts(ctx context.Context, tenantID string, originalLineIDs []string) (map[string]decimal.Decimal, error)
}

// TransactionWriter defines write operations for draft transactions
type TransactionWriter interface {
	// SaveTransaction persists a new draft with its lines.
	SaveTransaction(ctx context.Context, transaction domain.Transaction) error

	// ReplaceDraft rewrites the header and lines of a draft whose stored version is expectedVersion.
	ReplaceDraft(ctx context.Context, transaction domain.Transaction, expectedVersion int) error

	// DeleteDraft removes a draft, its lines and any reversal link naming it as the reversing side.
	// Posted transactions are never deleted.
	DeleteDraft(ctx context.Context, tenantID, transactionID string) error
}

// TransactionTransactionSupport defines locking operations used by posting and reversal
type TransactionTransactionSupport interface {
	// FindTransactionByIDForUpdate retrieves a transaction and locks its header row.
	FindTransactionByIDForUpdate(ctx context.Context, tenantID, transactionID string) (*domain.Transaction, error)

	// FindLinesByIDsForUpdate retrieves lines by id and locks them.
	FindLinesByIDsForUpdate(ctx context.Context, tenantID string, lineIDs []string) (map[string]domain.TransactionLine, error)

	// AddReversedAmount increases the reversed running total of a posted line.
	AddReversedAmount(ctx context.Context, tenantID, lineID string, amount decimal.Decimal) error

	// MarkPosted moves a DRAFT at expectedVersion to POSTED. It returns apperrors.ErrConflict
	// when no draft at that version exists.
	MarkPosted(ctx context.Context, tenantID, transactionID string, expectedVersion int, postedBy string, postedAt time.Time) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
	TransactionTransactionSupport
}
