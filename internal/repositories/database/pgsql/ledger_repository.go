package pgsql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/models"
	"github.com/SscSPs/ledger_core/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

// PgxLedgerRepository owns the append-only tables: ledger entries, reversal links and audit events.
type PgxLedgerRepository struct {
	BaseRepository
}

var (
	_ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)
	_ portsrepo.ReversalLinkRepository = (*PgxLedgerRepository)(nil)
	_ portsrepo.AuditSink              = (*PgxLedgerRepository)(nil)
)

const entryColumns = `entry_id, tenant_id, transaction_id, line_id, line_no, entry_date, account_id, amount_dr, amount_cr,
	tax_code, is_tax_line, department, created_at`

// SaveEntries appends entries in one batch. The table rejects updates and deletes.
func (r *PgxLedgerRepository) SaveEntries(ctx context.Context, entries []domain.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	b := &pgx.Batch{}
	for _, e := range entries {
		b.Queue(`
			INSERT INTO ledger_entries (`+entryColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`,
			e.EntryID, e.TenantID, e.TransactionID, e.LineID, e.LineNo, domain.DateOnly(e.EntryDate), e.AccountID,
			e.AmountDr, e.AmountCr, e.TaxCode, e.IsTaxLine, e.Department, e.CreatedAt)
	}
	return r.execBatch(ctx, b, "ledger entries of transaction "+entries[0].TransactionID)
}

func (r *PgxLedgerRepository) ListEntriesByTransaction(ctx context.Context, tenantID, transactionID string) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE tenant_id = $1 AND transaction_id = $2 ORDER BY line_no;`
	rows, err := r.db.Query(ctx, query, tenantID, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.LedgerEntry])
	if err != nil {
		return nil, fmt.Errorf("failed to scan ledger entries: %w", err)
	}
	return mapping.ToDomainLedgerEntrySlice(ms), nil
}

func (r *PgxLedgerRepository) SaveReversalLink(ctx context.Context, link domain.ReversalLink) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO reversal_links (reversing_transaction_id, original_transaction_id, tenant_id, kind, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6);`,
		link.ReversingTransactionID, link.OriginalTransactionID, link.TenantID, string(link.Kind), link.CreatedAt, link.CreatedBy)
	return wrapErr(err, "reversal link "+link.ReversingTransactionID)
}

func (r *PgxLedgerRepository) ListReversalLinks(ctx context.Context, tenantID, originalTransactionID string) ([]domain.ReversalLink, error) {
	rows, err := r.db.Query(ctx, `
		SELECT reversing_transaction_id, original_transaction_id, tenant_id, kind, created_at, created_by
		FROM reversal_links
		WHERE tenant_id = $1 AND original_transaction_id = $2
		ORDER BY created_at;`, tenantID, originalTransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reversal links: %w", err)
	}
	defer rows.Close()
	links := []domain.ReversalLink{}
	for rows.Next() {
		var (
			l    domain.ReversalLink
			kind string
		)
		if err := rows.Scan(&l.ReversingTransactionID, &l.OriginalTransactionID, &l.TenantID, &kind, &l.CreatedAt, &l.CreatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan reversal link: %w", err)
		}
		l.Kind = domain.ReversalKind(kind)
		links = append(links, l)
	}
	return links, rows.Err()
}

// LogEvent appends an audit event. Details are stored as JSONB.
func (r *PgxLedgerRepository) LogEvent(ctx context.Context, event domain.AuditEvent) error {
	var details []byte
	if len(event.Details) > 0 {
		var err error
		if details, err = json.Marshal(event.Details); err != nil {
			return fmt.Errorf("failed to encode audit details: %w", err)
		}
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO audit_events (event_id, tenant_id, actor, event_type, entity_type, entity_id, summary, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`,
		event.EventID, event.TenantID, event.Actor, event.EventType, event.EntityType, event.EntityID, event.Summary,
		details, event.CreatedAt)
	return wrapErr(err, "audit event "+event.EventID)
}
