package accounting

import (
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ComputeTax returns the tax due on taxable for code. Only STANDARD codes produce tax;
// the result is rounded half away from zero to the money scale, so negative bases mirror positive ones.
func ComputeTax(code domain.TaxCode, taxable decimal.Decimal) decimal.Decimal {
	switch code.TaxType {
	case domain.TaxStandard:
		return domain.RoundMoney(code.Rate.Mul(taxable))
	case domain.TaxZeroRated, domain.TaxExempt, domain.TaxOutOfScope:
		return decimal.Zero
	}
	return decimal.Zero
}

// NormalizeRate rounds a rate to the stored tax-rate scale.
func NormalizeRate(rate decimal.Decimal) decimal.Decimal {
	return rate.Round(domain.TaxRateScale)
}
