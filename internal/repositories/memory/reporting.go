package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

func inRange(e domain.LedgerEntry, f domain.ReportFilter) bool {
	if e.TenantID != f.TenantID {
		return false
	}
	if !f.StartDate.IsZero() && e.EntryDate.Before(domain.DateOnly(f.StartDate)) {
		return false
	}
	if e.EntryDate.After(domain.DateOnly(f.EndDate)) {
		return false
	}
	if f.Department != nil && (e.Department == nil || *e.Department != *f.Department) {
		return false
	}
	return true
}

func (r *repo) SumEntriesByAccount(_ context.Context, filter domain.ReportFilter) ([]domain.AccountTotals, error) {
	defer r.rlock()()
	totals := make(map[string]*domain.AccountTotals)
	for _, e := range r.s.st.entries {
		if !inRange(e, filter) {
			continue
		}
		t, ok := totals[e.AccountID]
		if !ok {
			t = &domain.AccountTotals{AccountID: e.AccountID, Debit: decimal.Zero, Credit: decimal.Zero}
			totals[e.AccountID] = t
		}
		t.Debit = t.Debit.Add(e.AmountDr)
		t.Credit = t.Credit.Add(e.AmountCr)
	}
	out := make([]domain.AccountTotals, 0, len(totals))
	for _, t := range totals {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out, nil
}

func (r *repo) SumTaxEntries(_ context.Context, filter domain.ReportFilter) ([]domain.TaxAccountTotals, error) {
	defer r.rlock()()
	type key struct {
		code, account string
		isTax         bool
	}
	totals := make(map[key]*domain.TaxAccountTotals)
	for _, e := range r.s.st.entries {
		if e.TaxCode == nil || !inRange(e, filter) {
			continue
		}
		k := key{*e.TaxCode, e.AccountID, e.IsTaxLine}
		t, ok := totals[k]
		if !ok {
			t = &domain.TaxAccountTotals{TaxCode: k.code, AccountID: k.account, IsTaxLine: k.isTax, Debit: decimal.Zero, Credit: decimal.Zero}
			totals[k] = t
		}
		t.Debit = t.Debit.Add(e.AmountDr)
		t.Credit = t.Credit.Add(e.AmountCr)
	}
	out := make([]domain.TaxAccountTotals, 0, len(totals))
	for _, t := range totals {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TaxCode != out[j].TaxCode {
			return out[i].TaxCode < out[j].TaxCode
		}
		return out[i].AccountID < out[j].AccountID
	})
	return out, nil
}
