package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

func (r *repo) ListEntriesByTransaction(_ context.Context, tenantID, transactionID string) ([]domain.LedgerEntry, error) {
	defer r.rlock()()
	out := []domain.LedgerEntry{}
	for _, e := range r.s.st.entries {
		if e.TenantID == tenantID && e.TransactionID == transactionID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LineNo < out[j].LineNo })
	return out, nil
}

func (r *repo) SaveEntries(_ context.Context, entries []domain.LedgerEntry) error {
	defer r.lock()()
	r.s.st.entries = append(r.s.st.entries, entries...)
	return nil
}

func (r *repo) SaveReversalLink(_ context.Context, link domain.ReversalLink) error {
	defer r.lock()()
	r.s.st.links = append(r.s.st.links, link)
	return nil
}

func (r *repo) ListReversalLinks(_ context.Context, tenantID, originalTransactionID string) ([]domain.ReversalLink, error) {
	defer r.rlock()()
	out := []domain.ReversalLink{}
	for _, l := range r.s.st.links {
		if l.TenantID == tenantID && l.OriginalTransactionID == originalTransactionID {
			out = append(out, l)
		}
	}
	return out, nil
}
