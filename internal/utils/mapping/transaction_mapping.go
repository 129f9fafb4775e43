package mapping

import (
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/models"
)

// ToModelTransaction converts the header of a domain Transaction. Lines map separately.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:   d.TransactionID,
		TenantID:        d.TenantID,
		TransactionType: string(d.Type),
		TransactionDate: d.Date,
		Description:     d.Description,
		Reference:       d.Reference,
		Status:          string(d.Status),
		PostedAt:        d.PostedAt,
		PostedBy:        d.PostedBy,
		Version:         d.Version,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction combines a header row with its line rows.
func ToDomainTransaction(m models.Transaction, lines []models.TransactionLine) domain.Transaction {
	t := domain.Transaction{
		TransactionID: m.TransactionID,
		TenantID:      m.TenantID,
		Type:          domain.TransactionType(m.TransactionType),
		Date:          domain.DateOnly(m.TransactionDate),
		Description:   m.Description,
		Reference:     m.Reference,
		Status:        domain.TransactionStatus(m.Status),
		PostedAt:      m.PostedAt,
		PostedBy:      m.PostedBy,
		Version:       m.Version,
		Lines:         make([]domain.TransactionLine, len(lines)),
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
	for i, l := range lines {
		t.Lines[i] = ToDomainTransactionLine(l)
	}
	return t
}

func ToModelTransactionLine(tenantID string, d domain.TransactionLine) models.TransactionLine {
	return models.TransactionLine{
		LineID:         d.LineID,
		TransactionID:  d.TransactionID,
		TenantID:       tenantID,
		LineNo:         d.LineNo,
		AccountID:      d.AccountID,
		Amount:         d.Amount,
		Direction:      string(d.Direction),
		TaxCode:        d.TaxCode,
		IsTaxLine:      d.IsTaxLine,
		Department:     d.Department,
		Memo:           d.Memo,
		ReversesLineID: d.ReversesLineID,
		ReversedAmount: d.ReversedAmount,
	}
}

func ToDomainTransactionLine(m models.TransactionLine) domain.TransactionLine {
	return domain.TransactionLine{
		LineID:         m.LineID,
		TransactionID:  m.TransactionID,
		LineNo:         m.LineNo,
		AccountID:      m.AccountID,
		Amount:         m.Amount,
		Direction:      domain.Direction(m.Direction),
		TaxCode:        m.TaxCode,
		IsTaxLine:      m.IsTaxLine,
		Department:     m.Department,
		Memo:           m.Memo,
		ReversesLineID: m.ReversesLineID,
		ReversedAmount: m.ReversedAmount,
	}
}

func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:       m.EntryID,
		TenantID:      m.TenantID,
		TransactionID: m.TransactionID,
		LineID:        m.LineID,
		LineNo:        m.LineNo,
		EntryDate:     domain.DateOnly(m.EntryDate),
		AccountID:     m.AccountID,
		AmountDr:      m.AmountDr,
		AmountCr:      m.AmountCr,
		TaxCode:       m.TaxCode,
		IsTaxLine:     m.IsTaxLine,
		Department:    m.Department,
		CreatedAt:     m.CreatedAt,
	}
}

func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
