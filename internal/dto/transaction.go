package dto

import (
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LineRequest describes one draft line.
type LineRequest struct {
	AccountID  string           `json:"accountID" binding:"required,uuid"`
	Amount     decimal.Decimal  `json:"amount"`
	Direction  domain.Direction `json:"direction" binding:"required,oneof=DEBIT CREDIT"`
	TaxCode    *string          `json:"taxCode" binding:"omitempty,max=16"`
	Department *string          `json:"department" binding:"omitempty,max=64"`
	Memo       string           `json:"memo" binding:"max=255"`
}

// CreateTransactionRequest creates a draft. Lines are optional at creation time.
type CreateTransactionRequest struct {
	Type        domain.TransactionType `json:"type" binding:"required,oneof=PAYMENT RECEIPT JOURNAL TRANSFER SALES_INVOICE PURCHASE_BILL CREDIT_NOTE DEBIT_NOTE"`
	Date        string                 `json:"date" binding:"required,datetime=2006-01-02"`
	Description string                 `json:"description" binding:"max=1024"`
	Reference   *string                `json:"reference" binding:"omitempty,max=128"`
	Lines       []LineRequest          `json:"lines" binding:"omitempty,dive"`
}

// AddTaxedLineRequest adds a net line and the tax it attracts.
type AddTaxedLineRequest struct {
	LineRequest
	TaxAccountID string `json:"taxAccountID" binding:"required,uuid"`
}

// ReverseRequest optionally overrides the reversal date and description.
type ReverseRequest struct {
	Date        *string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Description string  `json:"description" binding:"max=1024"`
	Reference   *string `json:"reference" binding:"omitempty,max=128"`
}

// ReversalLineInput picks an original line and the amount to reverse from it.
type ReversalLineInput struct {
	LineID string          `json:"lineID" binding:"required,uuid"`
	Amount decimal.Decimal `json:"amount"`
}

// ReversePartialRequest creates a partial reversal (credit or debit note).
type ReversePartialRequest struct {
	ReverseRequest
	Type  *domain.TransactionType `json:"type" binding:"omitempty,oneof=PAYMENT RECEIPT JOURNAL TRANSFER SALES_INVOICE PURCHASE_BILL CREDIT_NOTE DEBIT_NOTE"`
	Lines []ReversalLineInput     `json:"lines" binding:"required,min=1,dive"`
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=200"`
	NextToken *string `form:"nextToken"`
	Status    *string `form:"status" binding:"omitempty,oneof=DRAFT POSTED"`
	Type      *string `form:"type" binding:"omitempty,oneof=PAYMENT RECEIPT JOURNAL TRANSFER SALES_INVOICE PURCHASE_BILL CREDIT_NOTE DEBIT_NOTE"`
	StartDate *string `form:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate   *string `form:"endDate" binding:"omitempty,datetime=2006-01-02"`
}

type LineResponse struct {
	LineID         string           `json:"lineID"`
	LineNo         int              `json:"lineNo"`
	AccountID      string           `json:"accountID"`
	Amount         decimal.Decimal  `json:"amount"`
	Direction      domain.Direction `json:"direction"`
	TaxCode        *string          `json:"taxCode,omitempty"`
	IsTaxLine      bool             `json:"isTaxLine"`
	Department     *string          `json:"department,omitempty"`
	Memo           string           `json:"memo"`
	ReversesLineID *string          `json:"reversesLineID,omitempty"`
	ReversedAmount decimal.Decimal  `json:"reversedAmount"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID string                   `json:"transactionID"`
	Type          domain.TransactionType   `json:"type"`
	Date          string                   `json:"date"`
	Description   string                   `json:"description"`
	Reference     *string                  `json:"reference,omitempty"`
	Status        domain.TransactionStatus `json:"status"`
	PostedAt      *time.Time               `json:"postedAt,omitempty"`
	PostedBy      *string                  `json:"postedBy,omitempty"`
	Version       int                      `json:"version"`
	TotalDebits   decimal.Decimal          `json:"totalDebits"`
	TotalCredits  decimal.Decimal          `json:"totalCredits"`
	Lines         []LineResponse           `json:"lines"`
	CreatedAt     time.Time                `json:"createdAt"`
	CreatedBy     string                   `json:"createdBy"`
}

type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

func ToLineResponse(l *domain.TransactionLine) LineResponse {
	return LineResponse{
		LineID:         l.LineID,
		LineNo:         l.LineNo,
		AccountID:      l.AccountID,
		Amount:         l.Amount,
		Direction:      l.Direction,
		TaxCode:        l.TaxCode,
		IsTaxLine:      l.IsTaxLine,
		Department:     l.Department,
		Memo:           l.Memo,
		ReversesLineID: l.ReversesLineID,
		ReversedAmount: l.ReversedAmount,
	}
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	debits, credits := t.Totals()
	lines := make([]LineResponse, len(t.Lines))
	for i := range t.Lines {
		lines[i] = ToLineResponse(&t.Lines[i])
	}
	return TransactionResponse{
		TransactionID: t.TransactionID,
		Type:          t.Type,
		Date:          t.Date.Format(DateLayout),
		Description:   t.Description,
		Reference:     t.Reference,
		Status:        t.Status,
		PostedAt:      t.PostedAt,
		PostedBy:      t.PostedBy,
		Version:       t.Version,
		TotalDebits:   debits,
		TotalCredits:  credits,
		Lines:         lines,
		CreatedAt:     t.CreatedAt,
		CreatedBy:     t.CreatedBy,
	}
}

func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}

type LedgerEntryResponse struct {
	EntryID    string          `json:"entryID"`
	LineID     string          `json:"lineID"`
	LineNo     int             `json:"lineNo"`
	EntryDate  string          `json:"entryDate"`
	AccountID  string          `json:"accountID"`
	AmountDr   decimal.Decimal `json:"amountDr"`
	AmountCr   decimal.Decimal `json:"amountCr"`
	TaxCode    *string         `json:"taxCode,omitempty"`
	Department *string         `json:"department,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	res := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		res[i] = LedgerEntryResponse{
			EntryID:    e.EntryID,
			LineID:     e.LineID,
			LineNo:     e.LineNo,
			EntryDate:  e.EntryDate.Format(DateLayout),
			AccountID:  e.AccountID,
			AmountDr:   e.AmountDr,
			AmountCr:   e.AmountCr,
			TaxCode:    e.TaxCode,
			Department: e.Department,
			CreatedAt:  e.CreatedAt,
		}
	}
	return res
}

type ReversalLinkResponse struct {
	OriginalTransactionID  string              `json:"originalTransactionID"`
	ReversingTransactionID string              `json:"reversingTransactionID"`
	Kind                   domain.ReversalKind `json:"kind"`
	CreatedAt              time.Time           `json:"createdAt"`
	CreatedBy              string              `json:"createdBy"`
}

// ReversalsResponse lists an original's reversals and what is left to reverse per line.
type ReversalsResponse struct {
	Reversals []ReversalLinkResponse `json:"reversals"`
	Lines     []domain.LineBalance   `json:"lines"`
}

func ToReversalLinkResponses(links []domain.ReversalLink) []ReversalLinkResponse {
	res := make([]ReversalLinkResponse, len(links))
	for i, l := range links {
		res[i] = ReversalLinkResponse{
			OriginalTransactionID:  l.OriginalTransactionID,
			ReversingTransactionID: l.ReversingTransactionID,
			Kind:                   l.Kind,
			CreatedAt:              l.CreatedAt,
			CreatedBy:              l.CreatedBy,
		}
	}
	return res
}
