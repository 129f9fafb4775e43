package models

import "github.com/shopspring/decimal"

type TaxCode struct {
	TenantID     string          `db:"tenant_id"`
	Code         string          `db:"code"`
	Name         string          `db:"name"`
	Rate         decimal.Decimal `db:"rate"`
	TaxType      string          `db:"tax_type"`
	ReportingBox string          `db:"reporting_box"`
	IsActive     bool            `db:"is_active"`
	AuditFields
}
