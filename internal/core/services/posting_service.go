package services

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/platform/metrics"
	"github.com/shopspring/decimal"
)

// postingService converts drafts into ledger entries.
type postingService struct {
	BaseService
	uow     portsrepo.UnitOfWork
	metrics *metrics.LedgerMetrics
}

func NewPostingService(uow portsrepo.UnitOfWork, m *metrics.LedgerMetrics, opts ...BaseOption) portssvc.PostingSvc {
	return &postingService{
		BaseService: newBaseService(opts...),
		uow:         uow,
		metrics:     m,
	}
}

var _ portssvc.PostingSvc = (*postingService)(nil)

// Post runs every precondition and then writes the entries, the status change and
// the audit event in one unit of work. Any failure leaves storage untouched.
func (s *postingService) Post(ctx context.Context, tenantID string, transactionID string, actor string) (*domain.Transaction, error) {
	started := time.Now()
	var posted *domain.Transaction

	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		t, err := repos.Transactions.FindTransactionByIDForUpdate(ctx, tenantID, transactionID)
		if err != nil {
			return err
		}
		if !t.IsDraft() {
			return &apperrors.AlreadyPostedError{TransactionID: transactionID}
		}
		if err := t.ValidateLines(); err != nil {
			return err
		}
		if err := s.checkAccounts(ctx, repos, t); err != nil {
			return err
		}
		if err := s.checkPeriod(ctx, repos, t); err != nil {
			return err
		}
		if debits, credits := t.Totals(); !debits.Equal(credits) {
			return &apperrors.UnbalancedTransactionError{TransactionID: transactionID, Debits: debits, Credits: credits}
		}
		consumed, err := s.checkReversalBounds(ctx, repos, t)
		if err != nil {
			return err
		}

		// All preconditions hold; from here on only writes.
		for lineID, amount := range consumed {
			if err := repos.Transactions.AddReversedAmount(ctx, tenantID, lineID, amount); err != nil {
				return err
			}
		}

		now := s.now()
		entries := make([]domain.LedgerEntry, len(t.Lines))
		for i, line := range t.Lines {
			entries[i] = domain.NewLedgerEntry(s.newID(), *t, line, now)
		}
		if err := repos.Ledger.SaveEntries(ctx, entries); err != nil {
			return err
		}

		if err := repos.Transactions.MarkPosted(ctx, tenantID, transactionID, t.Version, actor, now); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				return &apperrors.AlreadyPostedError{TransactionID: transactionID}
			}
			return err
		}
		t.Status = domain.StatusPosted
		t.PostedAt = &now
		t.PostedBy = &actor
		t.Version++
		t.Touch(actor, now)

		debits, credits := t.Totals()
		if err := repos.Audit.LogEvent(ctx, domain.AuditEvent{
			EventID:    s.newID(),
			TenantID:   tenantID,
			Actor:      actor,
			EventType:  domain.AuditTransactionPosted,
			EntityType: domain.EntityTransaction,
			EntityID:   transactionID,
			Summary:    "posted " + string(t.Type) + " " + debits.StringFixed(domain.MoneyScale),
			Details: map[string]any{
				"type":    string(t.Type),
				"date":    t.Date.Format("2006-01-02"),
				"lines":   len(t.Lines),
				"debits":  debits.StringFixed(domain.MoneyScale),
				"credits": credits.StringFixed(domain.MoneyScale),
			},
			CreatedAt: now,
		}); err != nil {
			return err
		}

		posted = t
		return nil
	})

	entryCount := 0
	if posted != nil {
		entryCount = len(posted.Lines)
	}
	s.metrics.RecordPosting(err, entryCount, time.Since(started))

	if err != nil {
		if errors.Is(err, apperrors.ErrDomainInvariant) || errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrConflict) {
			s.LogWarn(ctx, err, "Posting rejected",
				slog.String("transaction_id", transactionID),
				slog.String("reason", metrics.ClassifyPostingError(err)))
		} else {
			s.LogError(ctx, err, "Posting failed", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Transaction posted",
		slog.String("transaction_id", transactionID),
		slog.String("tenant_id", tenantID),
		slog.Int("entries", entryCount),
		slog.String("posted_by", actor))
	return posted, nil
}

// checkAccounts requires every referenced account to exist in the tenant and be active.
func (s *postingService) checkAccounts(ctx context.Context, repos portsrepo.TxRepositories, t *domain.Transaction) error {
	ids := make([]string, 0, len(t.Lines))
	seen := make(map[string]bool, len(t.Lines))
	for _, l := range t.Lines {
		if !seen[l.AccountID] {
			seen[l.AccountID] = true
			ids = append(ids, l.AccountID)
		}
	}
	accounts, err := repos.Accounts.FindAccountsByIDs(ctx, t.TenantID, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		acc, ok := accounts[id]
		if !ok {
			return apperrors.NewNotFoundError("account " + id + " not found")
		}
		if !acc.IsActive {
			return &apperrors.InactiveAccountError{AccountID: acc.AccountID, Code: acc.Code}
		}
	}
	return nil
}

// checkPeriod requires an OPEN period covering the transaction date and holds it against locking.
func (s *postingService) checkPeriod(ctx context.Context, repos portsrepo.TxRepositories, t *domain.Transaction) error {
	period, err := repos.Periods.FindPeriodForDateForShare(ctx, t.TenantID, t.Date)
	if err != nil {
		return err
	}
	switch period.Status {
	case domain.PeriodOpen:
		return nil
	case domain.PeriodLocked:
		return &apperrors.LockedPeriodError{PeriodID: period.PeriodID, PeriodName: period.Name, Date: t.Date}
	}
	return apperrors.NewAppError(http.StatusInternalServerError, "period "+period.PeriodID+" has unknown status "+string(period.Status), apperrors.ErrInternal)
}

// checkReversalBounds locks the original lines a reversal draft points at and verifies
// none of them would be reversed beyond its amount. It returns the amount to add per original line.
func (s *postingService) checkReversalBounds(ctx context.Context, repos portsrepo.TxRepositories, t *domain.Transaction) (map[string]decimal.Decimal, error) {
	requested := make(map[string]decimal.Decimal)
	var order []string
	for _, l := range t.Lines {
		if l.ReversesLineID == nil {
			continue
		}
		id := *l.ReversesLineID
		if _, ok := requested[id]; !ok {
			order = append(order, id)
		}
		requested[id] = requested[id].Add(l.Amount)
	}
	if len(order) == 0 {
		return nil, nil
	}

	originals, err := repos.Transactions.FindLinesByIDsForUpdate(ctx, t.TenantID, order)
	if err != nil {
		return nil, err
	}
	for _, id := range order {
		orig, ok := originals[id]
		if !ok {
			return nil, apperrors.NewNotFoundError("reversed line " + id + " not found")
		}
		if orig.ReversedAmount.Add(requested[id]).GreaterThan(orig.Amount) {
			return nil, &apperrors.AmountExceedsBalanceError{LineID: id, Requested: requested[id], Remaining: orig.Remaining()}
		}
	}
	return requested, nil
}
