package domain

import (
	"github.com/shopspring/decimal"
)

// TaxType classifies how a tax code treats the taxable amount.
type TaxType string

const (
	TaxStandard   TaxType = "STANDARD"
	TaxZeroRated  TaxType = "ZERO_RATED"
	TaxExempt     TaxType = "EXEMPT"
	TaxOutOfScope TaxType = "OUT_OF_SCOPE"
)

// TaxRateScale is the number of decimal places a tax rate is stored with.
const TaxRateScale = 4

// Valid reports whether t is a known tax type.
func (t TaxType) Valid() bool {
	switch t {
	case TaxStandard, TaxZeroRated, TaxExempt, TaxOutOfScope:
		return true
	}
	return false
}

// TaxCode is a tenant-scoped tax definition. Code is stable once used on a line.
type TaxCode struct {
	TenantID     string          `json:"tenantID"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Rate         decimal.Decimal `json:"rate"` // fraction, e.g. 0.2000 for 20%
	TaxType      TaxType         `json:"taxType"`
	ReportingBox string          `json:"reportingBox"`
	IsActive     bool            `json:"isActive"`
	AuditFields
}
