package domain

import (
	"errors"
	"testing"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(dir Direction, amount string) TransactionLine {
	return TransactionLine{AccountID: "acc", Direction: dir, Amount: decimal.RequireFromString(amount)}
}

func TestTransactionTotals(t *testing.T) {
	tx := Transaction{Lines: []TransactionLine{
		line(Debit, "100.00"),
		line(Debit, "20.50"),
		line(Credit, "120.50"),
	}}

	debits, credits := tx.Totals()
	assert.True(t, debits.Equal(decimal.RequireFromString("120.50")))
	assert.True(t, credits.Equal(decimal.RequireFromString("120.50")))
	assert.True(t, tx.IsBalanced())

	tx.Lines[2].Amount = decimal.RequireFromString("120.49")
	assert.False(t, tx.IsBalanced())
}

func TestValidateLines(t *testing.T) {
	empty := Transaction{TransactionID: "t1"}
	var emptyErr *apperrors.EmptyTransactionError
	require.ErrorAs(t, empty.ValidateLines(), &emptyErr)
	assert.Equal(t, "t1", emptyErr.TransactionID)

	tests := []struct {
		name string
		line TransactionLine
	}{
		{"zero amount", line(Debit, "0")},
		{"negative amount", line(Credit, "-5")},
		{"three decimals", line(Debit, "1.005")},
		{"bad direction", line(Direction("SIDEWAYS"), "10")},
		{"missing account", TransactionLine{Direction: Debit, Amount: decimal.NewFromInt(10)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := Transaction{Lines: []TransactionLine{tt.line}}
			err := tx.ValidateLines()
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrValidation))
		})
	}
}

func TestRenumberAndLookup(t *testing.T) {
	tx := Transaction{Lines: []TransactionLine{{LineID: "a"}, {LineID: "b"}, {LineID: "c"}}}
	tx.Lines = append(tx.Lines[:1], tx.Lines[2:]...)
	tx.Renumber()

	l, ok := tx.Line("c")
	require.True(t, ok)
	assert.Equal(t, 2, l.LineNo)

	_, ok = tx.Line("b")
	assert.False(t, ok)
}

func TestAdjustmentType(t *testing.T) {
	assert.Equal(t, CreditNote, SalesInvoice.AdjustmentType())
	assert.Equal(t, DebitNote, PurchaseBill.AdjustmentType())
	assert.Equal(t, Journal, Payment.AdjustmentType())
}

func TestRemaining(t *testing.T) {
	l := line(Debit, "100.00")
	l.ReversedAmount = decimal.RequireFromString("40.00")
	assert.True(t, l.Remaining().Equal(decimal.NewFromInt(60)))
}

func TestAccountVisibility(t *testing.T) {
	level := 2
	open := Account{}
	restricted := Account{SecurityLevel: &level}

	assert.True(t, open.VisibleTo(0))
	assert.False(t, restricted.VisibleTo(1))
	assert.True(t, restricted.VisibleTo(2))
	assert.Equal(t, Debit, Expense.NormalBalance())
	assert.Equal(t, Credit, Income.NormalBalance())
}
