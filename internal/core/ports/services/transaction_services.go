package services

import (
	"context"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
)

// TransactionReaderSvc defines read operations for transactions and their ledger entries
type TransactionReaderSvc interface {
	GetTransaction(ctx context.Context, tenantID string, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a page of transactions using token-based pagination.
	ListTransactions(ctx context.Context, tenantID string, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// ListLedgerEntries returns the entries a posted transaction produced, in line order.
	ListLedgerEntries(ctx context.Context, tenantID string, transactionID string) ([]domain.LedgerEntry, error)
}

// DraftWriterSvc edits transactions while they are DRAFT
type DraftWriterSvc interface {
	CreateDraft(ctx context.Context, tenantID string, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error)
	AddLine(ctx context.Context, tenantID string, transactionID string, req dto.LineRequest, userID string) (*domain.Transaction, error)
	UpdateLine(ctx context.Context, tenantID string, transactionID string, lineID string, req dto.LineRequest, userID string) (*domain.Transaction, error)
	RemoveLine(ctx context.Context, tenantID string, transactionID string, lineID string, userID string) (*domain.Transaction, error)

	// AddTaxedLine appends the net line and, when tax is not zero, a tax line on req.TaxAccountID.
	AddTaxedLine(ctx context.Context, tenantID string, transactionID string, req dto.AddTaxedLineRequest, userID string) (*domain.Transaction, error)

	DeleteDraft(ctx context.Context, tenantID string, transactionID string, userID string) error
}

// TransactionSvcFacade combines draft editing and transaction reads
type TransactionSvcFacade interface {
	TransactionReaderSvc
	DraftWriterSvc
}

// PostingSvc turns drafts into ledger entries
type PostingSvc interface {
	// Post validates the draft and writes one ledger entry per line, atomically.
	// A second call fails with *apperrors.AlreadyPostedError.
	Post(ctx context.Context, tenantID string, transactionID string, actor string) (*domain.Transaction, error)
}

// ReversalSvc builds reversal drafts of posted transactions
type ReversalSvc interface {
	// Reverse creates a draft inverting every line of a posted transaction.
	Reverse(ctx context.Context, tenantID string, transactionID string, actor string, opts domain.ReversalOptions) (*domain.Transaction, error)

	// ReversePartial creates a draft inverting the chosen amounts of chosen lines.
	ReversePartial(ctx context.Context, tenantID string, transactionID string, actor string, lines []domain.ReversalLineRequest, opts domain.ReversalOptions) (*domain.Transaction, error)

	ListReversals(ctx context.Context, tenantID string, transactionID string) ([]domain.ReversalLink, error)

	// RemainingBalance reports, per original line, what is reversed, pending and left.
	RemainingBalance(ctx context.Context, tenantID string, transactionID string) ([]domain.LineBalance, error)
}
