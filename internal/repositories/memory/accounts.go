package memory

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
)

func (r *repo) FindAccountByID(_ context.Context, tenantID, accountID string) (*domain.Account, error) {
	defer r.rlock()()
	acc, ok := r.s.st.accounts[accountID]
	if !ok || acc.TenantID != tenantID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("account %s not found", accountID))
	}
	return &acc, nil
}

func (r *repo) FindAccountByCode(_ context.Context, tenantID, code string) (*domain.Account, error) {
	defer r.rlock()()
	for _, acc := range r.s.st.accounts {
		if acc.TenantID == tenantID && acc.Code == code {
			return &acc, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("account with code %s not found", code))
}

func (r *repo) FindAccountsByIDs(_ context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	defer r.rlock()()
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if acc, ok := r.s.st.accounts[id]; ok && acc.TenantID == tenantID {
			out[id] = acc
		}
	}
	return out, nil
}

func (r *repo) ListAccounts(_ context.Context, tenantID string, limit int, offset int) ([]domain.Account, error) {
	defer r.rlock()()
	var out []domain.Account
	for _, acc := range r.s.st.accounts {
		if acc.TenantID == tenantID {
			out = append(out, acc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return page(out, limit, offset), nil
}

func (r *repo) SaveAccount(_ context.Context, account domain.Account) error {
	defer r.lock()()
	for _, acc := range r.s.st.accounts {
		if acc.TenantID == account.TenantID && acc.Code == account.Code {
			return apperrors.NewAppError(http.StatusConflict,
				fmt.Sprintf("account code %s already exists", account.Code), apperrors.ErrDuplicate)
		}
	}
	if _, ok := r.s.st.accounts[account.AccountID]; ok {
		return apperrors.NewAppError(http.StatusConflict, "account already exists", apperrors.ErrDuplicate)
	}
	r.s.st.accounts[account.AccountID] = account
	return nil
}

func (r *repo) UpdateAccount(_ context.Context, account domain.Account) error {
	defer r.lock()()
	current, ok := r.s.st.accounts[account.AccountID]
	if !ok || current.TenantID != account.TenantID {
		return apperrors.NewNotFoundError(fmt.Sprintf("account %s not found", account.AccountID))
	}
	current.Name = account.Name
	current.Description = account.Description
	current.IsActive = account.IsActive
	current.SecurityLevel = account.SecurityLevel
	current.LastUpdatedAt = account.LastUpdatedAt
	current.LastUpdatedBy = account.LastUpdatedBy
	r.s.st.accounts[account.AccountID] = current
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
