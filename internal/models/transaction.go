package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table. Lines are loaded separately.
type Transaction struct {
	TransactionID   string     `db:"transaction_id"`
	TenantID        string     `db:"tenant_id"`
	TransactionType string     `db:"transaction_type"`
	TransactionDate time.Time  `db:"transaction_date"`
	Description     string     `db:"description"`
	Reference       *string    `db:"reference"`
	Status          string     `db:"status"`
	PostedAt        *time.Time `db:"posted_at"`
	PostedBy        *string    `db:"posted_by"`
	Version         int        `db:"version"`
	AuditFields
}

// TransactionLine is a row of the transaction_lines table.
type TransactionLine struct {
	LineID         string          `db:"line_id"`
	TransactionID  string          `db:"transaction_id"`
	TenantID       string          `db:"tenant_id"`
	LineNo         int             `db:"line_no"`
	AccountID      string          `db:"account_id"`
	Amount         decimal.Decimal `db:"amount"`
	Direction      string          `db:"direction"`
	TaxCode        *string         `db:"tax_code"`
	IsTaxLine      bool            `db:"is_tax_line"`
	Department     *string         `db:"department"`
	Memo           string          `db:"memo"`
	ReversesLineID *string         `db:"reverses_line_id"`
	ReversedAmount decimal.Decimal `db:"reversed_amount"`
}

// LedgerEntry is a row of the append-only ledger_entries table.
type LedgerEntry struct {
	EntryID       string          `db:"entry_id"`
	TenantID      string          `db:"tenant_id"`
	TransactionID string          `db:"transaction_id"`
	LineID        string          `db:"line_id"`
	LineNo        int             `db:"line_no"`
	EntryDate     time.Time       `db:"entry_date"`
	AccountID     string          `db:"account_id"`
	AmountDr      decimal.Decimal `db:"amount_dr"`
	AmountCr      decimal.Decimal `db:"amount_cr"`
	TaxCode       *string         `db:"tax_code"`
	IsTaxLine     bool            `db:"is_tax_line"`
	Department    *string         `db:"department"`
	CreatedAt     time.Time       `db:"created_at"`
}
