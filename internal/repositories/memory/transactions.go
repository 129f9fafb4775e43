package memory

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

func (r *repo) FindTransactionByID(_ context.Context, tenantID, transactionID string) (*domain.Transaction, error) {
	defer r.rlock()()
	return r.transaction(tenantID, transactionID)
}

// FindTransactionByIDForUpdate relies on the unit of work holding the store lock.
func (r *repo) FindTransactionByIDForUpdate(_ context.Context, tenantID, transactionID string) (*domain.Transaction, error) {
	defer r.rlock()()
	return r.transaction(tenantID, transactionID)
}

func (r *repo) transaction(tenantID, transactionID string) (*domain.Transaction, error) {
	t, ok := r.s.st.transactions[transactionID]
	if !ok || t.TenantID != tenantID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("transaction %s not found", transactionID))
	}
	t = copyTransaction(t)
	return &t, nil
}

func cursorOf(t domain.Transaction) pagination.Cursor {
	return pagination.Cursor{Date: t.Date, CreatedAt: t.CreatedAt, ID: t.TransactionID}
}

func (r *repo) ListTransactions(_ context.Context, tenantID string, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	defer r.rlock()()

	var after *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, err
		}
		after = &c
	}

	var out []domain.Transaction
	for _, t := range r.s.st.transactions {
		if t.TenantID != tenantID || !matches(t, filter) {
			continue
		}
		if after != nil && !after.After(cursorOf(t)) {
			continue
		}
		out = append(out, copyTransaction(t))
	}
	sort.Slice(out, func(i, j int) bool { return cursorOf(out[i]).After(cursorOf(out[j])) })

	var next *string
	if limit > 0 && len(out) > limit {
		out = out[:limit]
		token := pagination.EncodeToken(cursorOf(out[limit-1]))
		next = &token
	}
	if out == nil {
		out = []domain.Transaction{}
	}
	return out, next, nil
}

func matches(t domain.Transaction, f domain.TransactionFilter) bool {
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Type != nil && t.Type != *f.Type {
		return false
	}
	if f.StartDate != nil && t.Date.Before(domain.DateOnly(*f.StartDate)) {
		return false
	}
	if f.EndDate != nil && t.Date.After(domain.DateOnly(*f.EndDate)) {
		return false
	}
	return true
}

func (r *repo) PendingReversalAmounts(_ context.Context, tenantID string, originalLineIDs []string) (map[string]decimal.Decimal, error) {
	defer r.rlock()()
	wanted := make(map[string]bool, len(originalLineIDs))
	for _, id := range originalLineIDs {
		wanted[id] = true
	}
	out := make(map[string]decimal.Decimal)
	for _, t := range r.s.st.transactions {
		if t.TenantID != tenantID || t.Status != domain.StatusDraft {
			continue
		}
		for _, l := range t.Lines {
			if l.ReversesLineID != nil && wanted[*l.ReversesLineID] {
				out[*l.ReversesLineID] = out[*l.ReversesLineID].Add(l.Amount)
			}
		}
	}
	return out, nil
}

func (r *repo) SaveTransaction(_ context.Context, transaction domain.Transaction) error {
	defer r.lock()()
	if _, ok := r.s.st.transactions[transaction.TransactionID]; ok {
		return apperrors.NewAppError(http.StatusConflict, "transaction already exists", apperrors.ErrDuplicate)
	}
	r.s.st.transactions[transaction.TransactionID] = copyTransaction(transaction)
	return nil
}

func (r *repo) ReplaceDraft(_ context.Context, transaction domain.Transaction, expectedVersion int) error {
	defer r.lock()()
	current, ok := r.s.st.transactions[transaction.TransactionID]
	if !ok || current.TenantID != transaction.TenantID {
		return apperrors.NewNotFoundError(fmt.Sprintf("transaction %s not found", transaction.TransactionID))
	}
	if current.Status != domain.StatusDraft || current.Version != expectedVersion {
		return apperrors.NewAppError(http.StatusConflict, "draft was modified concurrently", apperrors.ErrConflict)
	}
	r.s.st.transactions[transaction.TransactionID] = copyTransaction(transaction)
	return nil
}

func (r *repo) DeleteDraft(_ context.Context, tenantID, transactionID string) error {
	defer r.lock()()
	current, ok := r.s.st.transactions[transactionID]
	if !ok || current.TenantID != tenantID {
		return apperrors.NewNotFoundError(fmt.Sprintf("transaction %s not found", transactionID))
	}
	if current.Status != domain.StatusDraft {
		return &apperrors.AlreadyPostedError{TransactionID: transactionID}
	}
	delete(r.s.st.transactions, transactionID)
	links := r.s.st.links[:0]
	for _, l := range r.s.st.links {
		if l.ReversingTransactionID != transactionID {
			links = append(links, l)
		}
	}
	r.s.st.links = links
	return nil
}

func (r *repo) FindLinesByIDsForUpdate(_ context.Context, tenantID string, lineIDs []string) (map[string]domain.TransactionLine, error) {
	defer r.rlock()()
	wanted := make(map[string]bool, len(lineIDs))
	for _, id := range lineIDs {
		wanted[id] = true
	}
	out := make(map[string]domain.TransactionLine, len(lineIDs))
	for _, t := range r.s.st.transactions {
		if t.TenantID != tenantID {
			continue
		}
		for _, l := range t.Lines {
			if wanted[l.LineID] {
				out[l.LineID] = l
			}
		}
	}
	return out, nil
}

func (r *repo) AddReversedAmount(_ context.Context, tenantID, lineID string, amount decimal.Decimal) error {
	defer r.lock()()
	for id, t := range r.s.st.transactions {
		if t.TenantID != tenantID {
			continue
		}
		for i := range t.Lines {
			if t.Lines[i].LineID == lineID {
				t = copyTransaction(t)
				t.Lines[i].ReversedAmount = t.Lines[i].ReversedAmount.Add(amount)
				r.s.st.transactions[id] = t
				return nil
			}
		}
	}
	return apperrors.NewNotFoundError(fmt.Sprintf("line %s not found", lineID))
}

func (r *repo) MarkPosted(_ context.Context, tenantID, transactionID string, expectedVersion int, postedBy string, postedAt time.Time) error {
	defer r.lock()()
	t, ok := r.s.st.transactions[transactionID]
	if !ok || t.TenantID != tenantID || t.Status != domain.StatusDraft || t.Version != expectedVersion {
		return apperrors.NewAppError(http.StatusConflict, "transaction is no longer a draft at the expected version", apperrors.ErrConflict)
	}
	t = copyTransaction(t)
	t.Status = domain.StatusPosted
	t.PostedAt = &postedAt
	t.PostedBy = &postedBy
	t.Version++
	t.Touch(postedBy, postedAt)
	r.s.st.transactions[transactionID] = t
	return nil
}
