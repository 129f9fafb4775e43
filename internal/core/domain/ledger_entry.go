package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is the immutable record a posted line produces. Exactly one of AmountDr and AmountCr is non-zero.
type LedgerEntry struct {
	EntryID       string          `json:"entryID"`
	TenantID      string          `json:"tenantID"`
	TransactionID string          `json:"transactionID"`
	LineID        string          `json:"lineID"`
	LineNo        int             `json:"lineNo"`
	EntryDate     time.Time       `json:"entryDate"`
	AccountID     string          `json:"accountID"`
	AmountDr      decimal.Decimal `json:"amountDr"`
	AmountCr      decimal.Decimal `json:"amountCr"`
	TaxCode       *string         `json:"taxCode,omitempty"`
	IsTaxLine     bool            `json:"isTaxLine"`
	Department    *string         `json:"department,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// NewLedgerEntry derives the entry for line of tx. The entry date is the transaction date.
func NewLedgerEntry(entryID string, tx Transaction, line TransactionLine, now time.Time) LedgerEntry {
	e := LedgerEntry{
		EntryID:       entryID,
		TenantID:      tx.TenantID,
		TransactionID: tx.TransactionID,
		LineID:        line.LineID,
		LineNo:        line.LineNo,
		EntryDate:     DateOnly(tx.Date),
		AccountID:     line.AccountID,
		AmountDr:      decimal.Zero,
		AmountCr:      decimal.Zero,
		TaxCode:       line.TaxCode,
		IsTaxLine:     line.IsTaxLine,
		Department:    line.Department,
		CreatedAt:     now,
	}
	switch line.Direction {
	case Debit:
		e.AmountDr = line.Amount
	case Credit:
		e.AmountCr = line.Amount
	}
	return e
}

// Direction returns the side the entry is on.
func (e LedgerEntry) Direction() Direction {
	if e.AmountDr.IsPositive() {
		return Debit
	}
	return Credit
}

// Net returns AmountDr minus AmountCr.
func (e LedgerEntry) Net() decimal.Decimal {
	return e.AmountDr.Sub(e.AmountCr)
}
