package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

// PgxReportingRepository aggregates ledger entries. Reads run on the pool, outside any unit of work.
type PgxReportingRepository struct {
	BaseRepository
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

const entryFilter = `
	tenant_id = $1
	AND ($2::date IS NULL OR entry_date >= $2)
	AND entry_date <= $3
	AND ($4::varchar IS NULL OR department = $4)`

func filterArgs(f domain.ReportFilter) []any {
	var start any
	if !f.StartDate.IsZero() {
		start = domain.DateOnly(f.StartDate)
	}
	return []any{f.TenantID, start, domain.DateOnly(f.EndDate), f.Department}
}

func (r *PgxReportingRepository) SumEntriesByAccount(ctx context.Context, filter domain.ReportFilter) ([]domain.AccountTotals, error) {
	query := `
		SELECT account_id, SUM(amount_dr) AS debit, SUM(amount_cr) AS credit
		FROM ledger_entries
		WHERE ` + entryFilter + `
		GROUP BY account_id
		ORDER BY account_id;`
	rows, err := r.db.Query(ctx, query, filterArgs(filter)...)
	if err != nil {
		return nil, fmt.Errorf("failed to sum ledger entries: %w", err)
	}
	totals, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.AccountTotals])
	if err != nil {
		return nil, fmt.Errorf("failed to scan account totals: %w", err)
	}
	return totals, nil
}

func (r *PgxReportingRepository) SumTaxEntries(ctx context.Context, filter domain.ReportFilter) ([]domain.TaxAccountTotals, error) {
	query := `
		SELECT tax_code, account_id, is_tax_line, SUM(amount_dr) AS debit, SUM(amount_cr) AS credit
		FROM ledger_entries
		WHERE tax_code IS NOT NULL AND ` + entryFilter + `
		GROUP BY tax_code, account_id, is_tax_line
		ORDER BY tax_code, account_id;`
	rows, err := r.db.Query(ctx, query, filterArgs(filter)...)
	if err != nil {
		return nil, fmt.Errorf("failed to sum tax entries: %w", err)
	}
	defer rows.Close()
	out := []domain.TaxAccountTotals{}
	for rows.Next() {
		var t domain.TaxAccountTotals
		if err := rows.Scan(&t.TaxCode, &t.AccountID, &t.IsTaxLine, &t.Debit, &t.Credit); err != nil {
			return nil, fmt.Errorf("failed to scan tax totals: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
