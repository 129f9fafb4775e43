package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReversalKind distinguishes full reversals from partial adjustments.
type ReversalKind string

const (
	ReversalFull    ReversalKind = "FULL"
	ReversalPartial ReversalKind = "PARTIAL"
)

// ReversalLink ties an original posted transaction to one of its reversing transactions.
type ReversalLink struct {
	TenantID               string       `json:"tenantID"`
	OriginalTransactionID  string       `json:"originalTransactionID"`
	ReversingTransactionID string       `json:"reversingTransactionID"`
	Kind                   ReversalKind `json:"kind"`
	CreatedAt              time.Time    `json:"createdAt"`
	CreatedBy              string       `json:"createdBy"`
}

// ReversalLineRequest selects an original line and the amount to reverse from it.
type ReversalLineRequest struct {
	LineID string
	Amount decimal.Decimal
}

// ReversalOptions overrides defaults of a reversal draft. A nil Date keeps the original's date.
type ReversalOptions struct {
	Date        *time.Time
	Description string
	Reference   *string
	Type        *TransactionType
}

// LineBalance is the reversal position of one original line.
type LineBalance struct {
	LineID    string          `json:"lineID"`
	LineNo    int             `json:"lineNo"`
	AccountID string          `json:"accountID"`
	Direction Direction       `json:"direction"`
	Amount    decimal.Decimal `json:"amount"`
	Reversed  decimal.Decimal `json:"reversed"`  // posted reversals
	Pending   decimal.Decimal `json:"pending"`   // unposted reversal drafts
	Remaining decimal.Decimal `json:"remaining"` // Amount - Reversed - Pending
}
