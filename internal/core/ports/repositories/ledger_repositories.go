package repositories

import (
	"context"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// LedgerEntryReader defines read operations for ledger entries
type LedgerEntryReader interface {
	// ListEntriesByTransaction returns the entries of a transaction ordered by line number.
	ListEntriesByTransaction(ctx context.Context, tenantID, transactionID string) ([]domain.LedgerEntry, error)
}

// LedgerEntryWriter appends entries. Entries are never updated or deleted.
type LedgerEntryWriter interface {
	SaveEntries(ctx context.Context, entries []domain.LedgerEntry) error
}

// LedgerRepositoryFacade combines all ledger repository interfaces
type LedgerRepositoryFacade interface {
	LedgerEntryReader
	LedgerEntryWriter
}

// ReversalLinkRepository persists links between originals and their reversals
type ReversalLinkRepository interface {
	SaveReversalLink(ctx context.Context, link domain.ReversalLink) error
	ListReversalLinks(ctx context.Context, tenantID, originalTransactionID string) ([]domain.ReversalLink, error)
}

// AuditSink receives audit events inside the unit of work of the mutation they describe
type AuditSink interface {
	LogEvent(ctx context.Context, event domain.AuditEvent) error
}
