package repositories

import (
	"context"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// TaxCodeReader defines read operations for tax codes
type TaxCodeReader interface {
	FindTaxCode(ctx context.Context, tenantID, code string) (*domain.TaxCode, error)
	ListTaxCodes(ctx context.Context, tenantID string) ([]domain.TaxCode, error)
}

// TaxCodeWriter defines write operations for tax codes
type TaxCodeWriter interface {
	SaveTaxCode(ctx context.Context, taxCode domain.TaxCode) error
}

// TaxCodeRepositoryFacade combines all tax-code repository interfaces
type TaxCodeRepositoryFacade interface {
	TaxCodeReader
	TaxCodeWriter
}
