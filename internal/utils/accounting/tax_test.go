package accounting_test

import (
	"testing"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeTax(t *testing.T) {
	standard := domain.TaxCode{Code: "S20", TaxType: domain.TaxStandard, Rate: decimal.RequireFromString("0.2000")}
	reduced := domain.TaxCode{Code: "R05", TaxType: domain.TaxStandard, Rate: decimal.RequireFromString("0.0500")}

	tests := []struct {
		name    string
		code    domain.TaxCode
		taxable string
		want    string
	}{
		{name: "standard rate", code: standard, taxable: "100.00", want: "20.00"},
		{name: "rounds half up", code: reduced, taxable: "10.10", want: "0.51"},
		{name: "rounds down below half", code: reduced, taxable: "10.08", want: "0.50"},
		{name: "negative base rounds away from zero", code: reduced, taxable: "-10.10", want: "-0.51"},
		{name: "zero rated", code: domain.TaxCode{TaxType: domain.TaxZeroRated}, taxable: "100.00", want: "0"},
		{name: "exempt", code: domain.TaxCode{TaxType: domain.TaxExempt, Rate: decimal.RequireFromString("0.2")}, taxable: "100.00", want: "0"},
		{name: "out of scope", code: domain.TaxCode{TaxType: domain.TaxOutOfScope}, taxable: "100.00", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := accounting.ComputeTax(tt.code, decimal.RequireFromString(tt.taxable))
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestComputeTax_Deterministic(t *testing.T) {
	code := domain.TaxCode{TaxType: domain.TaxStandard, Rate: decimal.RequireFromString("0.1750")}
	amount := decimal.RequireFromString("123.45")
	first := accounting.ComputeTax(code, amount)
	for i := 0; i < 10; i++ {
		assert.True(t, first.Equal(accounting.ComputeTax(code, amount)))
	}
	assert.Equal(t, "21.60", first.StringFixed(2))
}

func TestCalculateSignedAmount(t *testing.T) {
	hundred := decimal.NewFromInt(100)

	tests := []struct {
		name        string
		direction   domain.Direction
		accountType domain.AccountType
		want        int64
		wantErr     bool
	}{
		{"debit asset", domain.Debit, domain.Asset, 100, false},
		{"credit asset", domain.Credit, domain.Asset, -100, false},
		{"debit expense", domain.Debit, domain.Expense, 100, false},
		{"credit income", domain.Credit, domain.Income, 100, false},
		{"debit liability", domain.Debit, domain.Liability, -100, false},
		{"credit equity", domain.Credit, domain.Equity, 100, false},
		{"unknown type", domain.Debit, domain.AccountType("OTHER"), 0, true},
		{"unknown direction", domain.Direction("SIDEWAYS"), domain.Asset, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := accounting.CalculateSignedAmount(hundred, tt.direction, tt.accountType)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.True(t, decimal.NewFromInt(tt.want).Equal(got))
		})
	}
}

func TestNetDebitCredit(t *testing.T) {
	dr, cr := accounting.NetDebitCredit(decimal.NewFromInt(150), decimal.NewFromInt(40))
	assert.True(t, dr.Equal(decimal.NewFromInt(110)))
	assert.True(t, cr.IsZero())

	dr, cr = accounting.NetDebitCredit(decimal.NewFromInt(40), decimal.NewFromInt(150))
	assert.True(t, dr.IsZero())
	assert.True(t, cr.Equal(decimal.NewFromInt(110)))
}
