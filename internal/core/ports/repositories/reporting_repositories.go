package repositories

import (
	"context"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// ReportingRepository defines aggregate reads over committed ledger entries
type ReportingRepository interface {
	// SumEntriesByAccount totals debits and credits per account for entries dated in the
	// filter's range and matching its department. Security filtering is left to the caller.
	SumEntriesByAccount(ctx context.Context, filter domain.ReportFilter) ([]domain.AccountTotals, error)

	// SumTaxEntries totals tax-coded entries per tax code, account and line kind.
	SumTaxEntries(ctx context.Context, filter domain.ReportFilter) ([]domain.TaxAccountTotals, error)
}
