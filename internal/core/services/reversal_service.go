package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/platform/metrics"
	"github.com/shopspring/decimal"
)

// reversalService builds reversal drafts. It never writes ledger entries; the drafts
// it creates are posted through the posting service like any other.
type reversalService struct {
	BaseService
	txRepo       portsrepo.TransactionReader
	reversalRepo portsrepo.ReversalLinkRepository
	uow          portsrepo.UnitOfWork
	metrics      *metrics.LedgerMetrics
}

func NewReversalService(txRepo portsrepo.TransactionReader, reversalRepo portsrepo.ReversalLinkRepository, uow portsrepo.UnitOfWork, m *metrics.LedgerMetrics, opts ...BaseOption) portssvc.ReversalSvc {
	return &reversalService{
		BaseService:  newBaseService(opts...),
		txRepo:       txRepo,
		reversalRepo: reversalRepo,
		uow:          uow,
		metrics:      m,
	}
}

var _ portssvc.ReversalSvc = (*reversalService)(nil)

func (s *reversalService) Reverse(ctx context.Context, tenantID string, transactionID string, actor string, opts domain.ReversalOptions) (*domain.Transaction, error) {
	return s.createReversal(ctx, tenantID, transactionID, actor, opts, domain.ReversalFull,
		func(orig *domain.Transaction, pending map[string]decimal.Decimal) ([]domain.TransactionLine, error) {
			lines := make([]domain.TransactionLine, 0, len(orig.Lines))
			for _, ol := range orig.Lines {
				if !ol.ReversedAmount.IsZero() || pending[ol.LineID].IsPositive() {
					return nil, &apperrors.AmountExceedsBalanceError{
						LineID:    ol.LineID,
						Requested: ol.Amount,
						Remaining: ol.Remaining().Sub(pending[ol.LineID]),
					}
				}
				lines = append(lines, s.inverseLine(ol, ol.Amount))
			}
			return lines, nil
		})
}

func (s *reversalService) ReversePartial(ctx context.Context, tenantID string, transactionID string, actor string, requests []domain.ReversalLineRequest, opts domain.ReversalOptions) (*domain.Transaction, error) {
	if len(requests) == 0 {
		return nil, apperrors.NewValidationError("lines", "at least one line is required")
	}
	for i, r := range requests {
		if !r.Amount.IsPositive() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("lines[%d].amount", i), "must be greater than zero")
		}
		if !domain.RoundMoney(r.Amount).Equal(r.Amount) {
			return nil, apperrors.NewValidationError(fmt.Sprintf("lines[%d].amount", i), "must have at most 2 decimal places")
		}
	}

	return s.createReversal(ctx, tenantID, transactionID, actor, opts, domain.ReversalPartial,
		func(orig *domain.Transaction, pending map[string]decimal.Decimal) ([]domain.TransactionLine, error) {
			requested := make(map[string]decimal.Decimal)
			lines := make([]domain.TransactionLine, 0, len(requests))
			for _, r := range requests {
				ol, ok := orig.Line(r.LineID)
				if !ok {
					return nil, apperrors.NewNotFoundError(fmt.Sprintf("line %s not found on transaction %s", r.LineID, orig.TransactionID))
				}
				requested[r.LineID] = requested[r.LineID].Add(r.Amount)
				remaining := ol.Remaining().Sub(pending[r.LineID])
				if requested[r.LineID].GreaterThan(remaining) {
					return nil, &apperrors.AmountExceedsBalanceError{LineID: r.LineID, Requested: requested[r.LineID], Remaining: remaining}
				}
				lines = append(lines, s.inverseLine(*ol, r.Amount))
			}
			return lines, nil
		})
}

// inverseLine mirrors an original line on the opposite side for amount.
func (s *reversalService) inverseLine(orig domain.TransactionLine, amount decimal.Decimal) domain.TransactionLine {
	origID := orig.LineID
	return domain.TransactionLine{
		LineID:         s.newID(),
		AccountID:      orig.AccountID,
		Amount:         amount,
		Direction:      orig.Direction.Opposite(),
		TaxCode:        orig.TaxCode,
		IsTaxLine:      orig.IsTaxLine,
		Department:     orig.Department,
		Memo:           orig.Memo,
		ReversesLineID: &origID,
		ReversedAmount: decimal.Zero,
	}
}

type lineBuilder func(orig *domain.Transaction, pending map[string]decimal.Decimal) ([]domain.TransactionLine, error)

// createReversal locks the original, builds the reversal lines and stores the draft,
// its link and the audit event in one unit of work.
func (s *reversalService) createReversal(ctx context.Context, tenantID, transactionID, actor string,
	opts domain.ReversalOptions, kind domain.ReversalKind, build lineBuilder) (*domain.Transaction, error) {

	var draft *domain.Transaction
	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		orig, err := repos.Transactions.FindTransactionByIDForUpdate(ctx, tenantID, transactionID)
		if err != nil {
			return err
		}
		if orig.Status != domain.StatusPosted {
			return &apperrors.NotPostedError{TransactionID: transactionID}
		}

		lineIDs := make([]string, len(orig.Lines))
		for i, l := range orig.Lines {
			lineIDs[i] = l.LineID
		}
		pending, err := repos.Transactions.PendingReversalAmounts(ctx, tenantID, lineIDs)
		if err != nil {
			return err
		}

		lines, err := build(orig, pending)
		if err != nil {
			return err
		}

		now := s.now()
		t := s.reversalHeader(orig, opts, kind, actor)
		for i := range lines {
			lines[i].TransactionID = t.TransactionID
		}
		t.Lines = lines
		t.Renumber()
		t.AuditFields = domain.NewAuditFields(actor, now)

		if err := repos.Transactions.SaveTransaction(ctx, t); err != nil {
			return err
		}
		if err := repos.Reversals.SaveReversalLink(ctx, domain.ReversalLink{
			TenantID:               tenantID,
			OriginalTransactionID:  orig.TransactionID,
			ReversingTransactionID: t.TransactionID,
			Kind:                   kind,
			CreatedAt:              now,
			CreatedBy:              actor,
		}); err != nil {
			return err
		}
		if err := repos.Audit.LogEvent(ctx, domain.AuditEvent{
			EventID:    s.newID(),
			TenantID:   tenantID,
			Actor:      actor,
			EventType:  domain.AuditReversalCreated,
			EntityType: domain.EntityTransaction,
			EntityID:   t.TransactionID,
			Summary:    fmt.Sprintf("%s reversal of %s", kind, orig.TransactionID),
			Details: map[string]any{
				"originalTransactionID": orig.TransactionID,
				"kind":                  string(kind),
				"lines":                 len(t.Lines),
			},
			CreatedAt: now,
		}); err != nil {
			return err
		}
		draft = &t
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create reversal",
			slog.String("transaction_id", transactionID),
			slog.String("kind", string(kind)))
		return nil, err
	}

	s.metrics.RecordReversal(string(kind))
	s.LogInfo(ctx, "Reversal draft created",
		slog.String("original_transaction_id", transactionID),
		slog.String("reversal_transaction_id", draft.TransactionID),
		slog.String("kind", string(kind)))
	return draft, nil
}

// reversalHeader applies the date policy: the original's date unless opts.Date is set.
func (s *reversalService) reversalHeader(orig *domain.Transaction, opts domain.ReversalOptions, kind domain.ReversalKind, actor string) domain.Transaction {
	date := orig.Date
	if opts.Date != nil {
		date = domain.DateOnly(*opts.Date)
	}
	txType := orig.Type.AdjustmentType()
	if opts.Type != nil && opts.Type.Valid() {
		txType = *opts.Type
	}
	description := opts.Description
	if description == "" {
		label := "Reversal"
		if kind == domain.ReversalPartial {
			label = "Partial reversal"
		}
		ref := orig.TransactionID
		if orig.Reference != nil && *orig.Reference != "" {
			ref = *orig.Reference
		}
		description = fmt.Sprintf("%s of %s", label, ref)
	}
	return domain.Transaction{
		TransactionID: s.newID(),
		TenantID:      orig.TenantID,
		Type:          txType,
		Date:          date,
		Description:   description,
		Reference:     opts.Reference,
		Status:        domain.StatusDraft,
		Version:       1,
	}
}

func (s *reversalService) ListReversals(ctx context.Context, tenantID string, transactionID string) ([]domain.ReversalLink, error) {
	if _, err := s.txRepo.FindTransactionByID(ctx, tenantID, transactionID); err != nil {
		return nil, err
	}
	return s.reversalRepo.ListReversalLinks(ctx, tenantID, transactionID)
}

func (s *reversalService) RemainingBalance(ctx context.Context, tenantID string, transactionID string) ([]domain.LineBalance, error) {
	orig, err := s.txRepo.FindTransactionByID(ctx, tenantID, transactionID)
	if err != nil {
		return nil, err
	}
	lineIDs := make([]string, len(orig.Lines))
	for i, l := range orig.Lines {
		lineIDs[i] = l.LineID
	}
	pending, err := s.txRepo.PendingReversalAmounts(ctx, tenantID, lineIDs)
	if err != nil {
		return nil, err
	}
	out := make([]domain.LineBalance, len(orig.Lines))
	for i, l := range orig.Lines {
		p := pending[l.LineID]
		out[i] = domain.LineBalance{
			LineID:    l.LineID,
			LineNo:    l.LineNo,
			AccountID: l.AccountID,
			Direction: l.Direction,
			Amount:    l.Amount,
			Reversed:  l.ReversedAmount,
			Pending:   p,
			Remaining: l.Remaining().Sub(p),
		}
	}
	return out, nil
}
