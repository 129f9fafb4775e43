package memory

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
)

func taxKey(tenantID, code string) string { return tenantID + "|" + code }

func (r *repo) FindTaxCode(_ context.Context, tenantID, code string) (*domain.TaxCode, error) {
	defer r.rlock()()
	tc, ok := r.s.st.taxCodes[taxKey(tenantID, code)]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("tax code %s not found", code))
	}
	return &tc, nil
}

func (r *repo) ListTaxCodes(_ context.Context, tenantID string) ([]domain.TaxCode, error) {
	defer r.rlock()()
	out := []domain.TaxCode{}
	for _, tc := range r.s.st.taxCodes {
		if tc.TenantID == tenantID {
			out = append(out, tc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *repo) SaveTaxCode(_ context.Context, taxCode domain.TaxCode) error {
	defer r.lock()()
	k := taxKey(taxCode.TenantID, taxCode.Code)
	if _, ok := r.s.st.taxCodes[k]; ok {
		return apperrors.NewAppError(http.StatusConflict,
			fmt.Sprintf("tax code %s already exists", taxCode.Code), apperrors.ErrDuplicate)
	}
	r.s.st.taxCodes[k] = taxCode
	return nil
}
