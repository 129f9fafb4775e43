package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/models"
	"github.com/SscSPs/ledger_core/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

type PgxTaxCodeRepository struct {
	BaseRepository
}

var _ portsrepo.TaxCodeRepositoryFacade = (*PgxTaxCodeRepository)(nil)

const taxCodeColumns = `tenant_id, code, name, rate, tax_type, reporting_box, is_active, created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxTaxCodeRepository) SaveTaxCode(ctx context.Context, taxCode domain.TaxCode) error {
	m := mapping.ToModelTaxCode(taxCode)
	query := `
		INSERT INTO tax_codes (` + taxCodeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.db.Exec(ctx, query,
		m.TenantID, m.Code, m.Name, m.Rate, m.TaxType, m.ReportingBox, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	return wrapErr(err, "tax code "+m.Code)
}

func (r *PgxTaxCodeRepository) FindTaxCode(ctx context.Context, tenantID, code string) (*domain.TaxCode, error) {
	query := `SELECT ` + taxCodeColumns + ` FROM tax_codes WHERE tenant_id = $1 AND code = $2;`
	rows, err := r.db.Query(ctx, query, tenantID, code)
	if err != nil {
		return nil, wrapErr(err, "tax code "+code)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.TaxCode])
	if err != nil {
		return nil, wrapErr(err, "tax code "+code)
	}
	tc := mapping.ToDomainTaxCode(m)
	return &tc, nil
}

func (r *PgxTaxCodeRepository) ListTaxCodes(ctx context.Context, tenantID string) ([]domain.TaxCode, error) {
	query := `SELECT ` + taxCodeColumns + ` FROM tax_codes WHERE tenant_id = $1 ORDER BY code;`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tax codes: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.TaxCode])
	if err != nil {
		return nil, fmt.Errorf("failed to scan tax codes: %w", err)
	}
	out := make([]domain.TaxCode, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainTaxCode(m)
	}
	return out, nil
}
