package accounting

import (
	"fmt"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CalculateSignedAmount applies the correct sign to an amount based on account type and direction.
// Positive means the amount increases the account's normal balance.
func CalculateSignedAmount(amount decimal.Decimal, direction domain.Direction, accountType domain.AccountType) (decimal.Decimal, error) {
	if !direction.Valid() {
		return decimal.Zero, fmt.Errorf("unknown direction '%s'", direction)
	}
	// DEBIT to ASSET/EXPENSE -> Positive (+)
	// CREDIT to ASSET/EXPENSE -> Negative (-)
	// DEBIT to LIABILITY/EQUITY/INCOME -> Negative (-)
	// CREDIT to LIABILITY/EQUITY/INCOME -> Positive (+)
	switch accountType {
	case domain.Asset, domain.Expense, domain.Liability, domain.Equity, domain.Income:
		if direction != accountType.NormalBalance() {
			return amount.Neg(), nil
		}
		return amount, nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s'", accountType)
	}
}

// NormalBalance returns the net of debit and credit totals on the account type's normal side.
func NormalBalance(accountType domain.AccountType, debit, credit decimal.Decimal) (decimal.Decimal, error) {
	dr, err := CalculateSignedAmount(debit, domain.Debit, accountType)
	if err != nil {
		return decimal.Zero, err
	}
	cr, err := CalculateSignedAmount(credit, domain.Credit, accountType)
	if err != nil {
		return decimal.Zero, err
	}
	return dr.Add(cr), nil
}

// NetDebitCredit collapses debit and credit totals to a single non-negative side.
func NetDebitCredit(debit, credit decimal.Decimal) (netDebit, netCredit decimal.Decimal) {
	diff := debit.Sub(credit)
	if diff.IsNegative() {
		return decimal.Zero, diff.Neg()
	}
	return diff, decimal.Zero
}
