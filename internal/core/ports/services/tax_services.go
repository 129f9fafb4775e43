package services

import (
	"context"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/shopspring/decimal"
)

// TaxSvcFacade manages the tax-code registry and computes tax against it
type TaxSvcFacade interface {
	CreateTaxCode(ctx context.Context, tenantID string, req dto.CreateTaxCodeRequest, userID string) (*domain.TaxCode, error)
	GetTaxCode(ctx context.Context, tenantID string, code string) (*domain.TaxCode, error)
	ListTaxCodes(ctx context.Context, tenantID string) ([]domain.TaxCode, error)

	// CalculateTax returns the tax due on amount under the tenant's code.
	CalculateTax(ctx context.Context, tenantID string, code string, amount decimal.Decimal) (decimal.Decimal, error)
}
