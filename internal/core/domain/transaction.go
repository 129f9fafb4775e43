package domain

import (
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/shopspring/decimal"
)

// TransactionType is the business kind of a transaction. All kinds share the same posting contract.
type TransactionType string

const (
	Payment      TransactionType = "PAYMENT"
	Receipt      TransactionType = "RECEIPT"
	Journal      TransactionType = "JOURNAL"
	Transfer     TransactionType = "TRANSFER"
	SalesInvoice TransactionType = "SALES_INVOICE"
	PurchaseBill TransactionType = "PURCHASE_BILL"
	CreditNote   TransactionType = "CREDIT_NOTE"
	DebitNote    TransactionType = "DEBIT_NOTE"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case Payment, Receipt, Journal, Transfer, SalesInvoice, PurchaseBill, CreditNote, DebitNote:
		return true
	}
	return false
}

// AdjustmentType returns the type a partial reversal of a t transaction carries by default.
func (t TransactionType) AdjustmentType() TransactionType {
	switch t {
	case SalesInvoice:
		return CreditNote
	case PurchaseBill:
		return DebitNote
	case Payment, Receipt, Journal, Transfer, CreditNote, DebitNote:
		return Journal
	}
	return Journal
}

// Direction indicates whether a line is a debit or a credit. It carries the sign; amounts are always positive.
type Direction string

const (
	Debit  Direction = "DEBIT"
	Credit Direction = "CREDIT"
)

// Valid reports whether d is DEBIT or CREDIT.
func (d Direction) Valid() bool {
	return d == Debit || d == Credit
}

// Opposite swaps DEBIT and CREDIT.
func (d Direction) Opposite() Direction {
	switch d {
	case Debit:
		return Credit
	case Credit:
		return Debit
	}
	return d
}

// TransactionStatus is the lifecycle state of a transaction.
type TransactionStatus string

const (
	StatusDraft  TransactionStatus = "DRAFT"
	StatusPosted TransactionStatus = "POSTED"
)

// MoneyScale is the minor-unit scale amounts are compared and rounded at.
const MoneyScale = 2

// RoundMoney rounds d half away from zero to MoneyScale places.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// TransactionLine is a single debit or credit against one account, owned by its transaction.
type TransactionLine struct {
	LineID         string          `json:"lineID"`
	TransactionID  string          `json:"transactionID"`
	LineNo         int             `json:"lineNo"` // 1-based position
	AccountID      string          `json:"accountID"`
	Amount         decimal.Decimal `json:"amount"` // always positive
	Direction      Direction       `json:"direction"`
	TaxCode        *string         `json:"taxCode,omitempty"`
	IsTaxLine      bool            `json:"isTaxLine"` // line holds the tax portion of a taxed amount
	Department     *string         `json:"department,omitempty"`
	Memo           string          `json:"memo"`
	ReversesLineID *string         `json:"reversesLineID,omitempty"`
	ReversedAmount decimal.Decimal `json:"reversedAmount"` // running total reversed against this line
}

// Remaining returns the part of the line amount not yet reversed by posted reversals.
func (l TransactionLine) Remaining() decimal.Decimal {
	return l.Amount.Sub(l.ReversedAmount)
}

// Validate checks the line's own shape: positive amount, known direction, account reference.
func (l TransactionLine) Validate() error {
	if l.AccountID == "" {
		return apperrors.NewValidationError("accountID", "is required")
	}
	if !l.Direction.Valid() {
		return apperrors.NewValidationError("direction", "must be DEBIT or CREDIT")
	}
	if !l.Amount.IsPositive() {
		return apperrors.NewValidationError("amount", "must be greater than zero")
	}
	if !RoundMoney(l.Amount).Equal(l.Amount) {
		return apperrors.NewValidationError("amount", "must have at most 2 decimal places")
	}
	return nil
}

// Transaction is the aggregate header plus its ordered lines.
type Transaction struct {
	TransactionID string            `json:"transactionID"`
	TenantID      string            `json:"tenantID"`
	Type          TransactionType   `json:"type"`
	Date          time.Time         `json:"date"`
	Description   string            `json:"description"`
	Reference     *string           `json:"reference,omitempty"`
	Status        TransactionStatus `json:"status"`
	PostedAt      *time.Time        `json:"postedAt,omitempty"`
	PostedBy      *string           `json:"postedBy,omitempty"`
	Version       int               `json:"version"`
	Lines         []TransactionLine `json:"lines"`
	AuditFields
}

// IsDraft reports whether the transaction may still be edited.
func (t Transaction) IsDraft() bool {
	return t.Status == StatusDraft
}

// Totals returns the debit and credit sums of the lines rounded to MoneyScale.
func (t Transaction) Totals() (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, l := range t.Lines {
		switch l.Direction {
		case Debit:
			debits = debits.Add(l.Amount)
		case Credit:
			credits = credits.Add(l.Amount)
		}
	}
	return RoundMoney(debits), RoundMoney(credits)
}

// IsBalanced reports whether debits equal credits at MoneyScale.
func (t Transaction) IsBalanced() bool {
	d, c := t.Totals()
	return d.Equal(c)
}

// ValidateLines checks the transaction has lines and that every line is well-formed.
func (t Transaction) ValidateLines() error {
	if len(t.Lines) == 0 {
		return &apperrors.EmptyTransactionError{TransactionID: t.TransactionID}
	}
	for _, l := range t.Lines {
		if err := l.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Line returns the line with the given id.
func (t *Transaction) Line(lineID string) (*TransactionLine, bool) {
	for i := range t.Lines {
		if t.Lines[i].LineID == lineID {
			return &t.Lines[i], true
		}
	}
	return nil, false
}

// Renumber assigns consecutive 1-based LineNo values in slice order.
func (t *Transaction) Renumber() {
	for i := range t.Lines {
		t.Lines[i].LineNo = i + 1
	}
}

// IsReversal reports whether any line reverses a line of another transaction.
func (t Transaction) IsReversal() bool {
	for _, l := range t.Lines {
		if l.ReversesLineID != nil {
			return true
		}
	}
	return false
}

// TransactionFilter narrows transaction listings. Nil fields do not filter.
type TransactionFilter struct {
	Status    *TransactionStatus
	Type      *TransactionType
	StartDate *time.Time
	EndDate   *time.Time
}
