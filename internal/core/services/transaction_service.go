package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// transactionService manages drafts and read access to transactions.
type transactionService struct {
	BaseService
	txRepo     portsrepo.TransactionReader
	ledgerRepo portsrepo.LedgerEntryReader
	uow        portsrepo.UnitOfWork
}

func NewTransactionService(txRepo portsrepo.TransactionReader, ledgerRepo portsrepo.LedgerEntryReader, uow portsrepo.UnitOfWork, opts ...BaseOption) portssvc.TransactionSvcFacade {
	return &transactionService{
		BaseService: newBaseService(opts...),
		txRepo:      txRepo,
		ledgerRepo:  ledgerRepo,
		uow:         uow,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) GetTransaction(ctx context.Context, tenantID string, transactionID string) (*domain.Transaction, error) {
	return s.txRepo.FindTransactionByID(ctx, tenantID, transactionID)
}

func (s *transactionService) ListTransactions(ctx context.Context, tenantID string, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	txns, next, err := s.txRepo.ListTransactions(ctx, tenantID, filter, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.String("tenant_id", tenantID))
		return nil, nil, err
	}
	return txns, next, nil
}

func (s *transactionService) ListLedgerEntries(ctx context.Context, tenantID string, transactionID string) ([]domain.LedgerEntry, error) {
	if _, err := s.txRepo.FindTransactionByID(ctx, tenantID, transactionID); err != nil {
		return nil, err
	}
	return s.ledgerRepo.ListEntriesByTransaction(ctx, tenantID, transactionID)
}

func (s *transactionService) CreateDraft(ctx context.Context, tenantID string, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	if !req.Type.Valid() {
		return nil, apperrors.NewValidationError("type", "is not a known transaction type")
	}
	date, err := dto.ParseDate("date", req.Date)
	if err != nil {
		return nil, err
	}

	t := domain.Transaction{
		TransactionID: s.newID(),
		TenantID:      tenantID,
		Type:          req.Type,
		Date:          date,
		Description:   strings.TrimSpace(req.Description),
		Reference:     req.Reference,
		Status:        domain.StatusDraft,
		Version:       1,
		Lines:         []domain.TransactionLine{},
		AuditFields:   domain.NewAuditFields(userID, s.now()),
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		for i, lr := range req.Lines {
			line, err := s.buildLine(ctx, repos, tenantID, lr)
			if err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}
			line.TransactionID = t.TransactionID
			t.Lines = append(t.Lines, line)
		}
		t.Renumber()
		return repos.Transactions.SaveTransaction(ctx, t)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create draft", slog.String("tenant_id", tenantID))
		return nil, err
	}

	s.LogInfo(ctx, "Draft transaction created",
		slog.String("transaction_id", t.TransactionID),
		slog.String("type", string(t.Type)),
		slog.Int("lines", len(t.Lines)))
	return &t, nil
}

// buildLine validates a line request against the tenant's accounts and tax codes.
func (s *transactionService) buildLine(ctx context.Context, repos portsrepo.TxRepositories, tenantID string, lr dto.LineRequest) (domain.TransactionLine, error) {
	line := domain.TransactionLine{
		LineID:         s.newID(),
		AccountID:      lr.AccountID,
		Amount:         lr.Amount,
		Direction:      lr.Direction,
		TaxCode:        lr.TaxCode,
		Department:     lr.Department,
		Memo:           lr.Memo,
		ReversedAmount: decimal.Zero,
	}
	if err := line.Validate(); err != nil {
		return line, err
	}
	if _, err := repos.Accounts.FindAccountByID(ctx, tenantID, lr.AccountID); err != nil {
		return line, err
	}
	if lr.TaxCode != nil {
		if _, err := activeTaxCode(ctx, repos, tenantID, *lr.TaxCode); err != nil {
			return line, err
		}
	}
	return line, nil
}

func activeTaxCode(ctx context.Context, repos portsrepo.TxRepositories, tenantID, code string) (*domain.TaxCode, error) {
	tc, err := repos.TaxCodes.FindTaxCode(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}
	if !tc.IsActive {
		return nil, apperrors.NewValidationError("taxCode", fmt.Sprintf("%s is inactive", code))
	}
	return tc, nil
}

// editDraft loads a draft under lock, applies mutate and stores the result with a bumped version.
func (s *transactionService) editDraft(ctx context.Context, tenantID, transactionID, userID string,
	mutate func(ctx context.Context, repos portsrepo.TxRepositories, t *domain.Transaction) error) (*domain.Transaction, error) {

	var result *domain.Transaction
	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		t, err := repos.Transactions.FindTransactionByIDForUpdate(ctx, tenantID, transactionID)
		if err != nil {
			return err
		}
		if !t.IsDraft() {
			return &apperrors.AlreadyPostedError{TransactionID: transactionID}
		}
		if err := mutate(ctx, repos, t); err != nil {
			return err
		}
		t.Renumber()
		expected := t.Version
		t.Version++
		t.Touch(userID, s.now())
		if err := repos.Transactions.ReplaceDraft(ctx, *t, expected); err != nil {
			return err
		}
		result = t
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to edit draft", slog.String("transaction_id", transactionID))
		return nil, err
	}
	s.LogDebug(ctx, "Draft updated",
		slog.String("transaction_id", transactionID),
		slog.Int("version", result.Version))
	return result, nil
}

func (s *transactionService) AddLine(ctx context.Context, tenantID string, transactionID string, req dto.LineRequest, userID string) (*domain.Transaction, error) {
	return s.editDraft(ctx, tenantID, transactionID, userID, func(ctx context.Context, repos portsrepo.TxRepositories, t *domain.Transaction) error {
		line, err := s.buildLine(ctx, repos, tenantID, req)
		if err != nil {
			return err
		}
		line.TransactionID = t.TransactionID
		t.Lines = append(t.Lines, line)
		return nil
	})
}

func (s *transactionService) UpdateLine(ctx context.Context, tenantID string, transactionID string, lineID string, req dto.LineRequest, userID string) (*domain.Transaction, error) {
	return s.editDraft(ctx, tenantID, transactionID, userID, func(ctx context.Context, repos portsrepo.TxRepositories, t *domain.Transaction) error {
		existing, ok := t.Line(lineID)
		if !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("line %s not found", lineID))
		}
		if existing.ReversesLineID != nil {
			return apperrors.NewValidationError("lineID", "reversal lines cannot be edited, only removed")
		}
		line, err := s.buildLine(ctx, repos, tenantID, req)
		if err != nil {
			return err
		}
		line.LineID = existing.LineID
		line.TransactionID = t.TransactionID
		*existing = line
		return nil
	})
}

func (s *transactionService) RemoveLine(ctx context.Context, tenantID string, transactionID string, lineID string, userID string) (*domain.Transaction, error) {
	return s.editDraft(ctx, tenantID, transactionID, userID, func(_ context.Context, _ portsrepo.TxRepositories, t *domain.Transaction) error {
		for i := range t.Lines {
			if t.Lines[i].LineID == lineID {
				t.Lines = append(t.Lines[:i], t.Lines[i+1:]...)
				return nil
			}
		}
		return apperrors.NewNotFoundError(fmt.Sprintf("line %s not found", lineID))
	})
}

func (s *transactionService) AddTaxedLine(ctx context.Context, tenantID string, transactionID string, req dto.AddTaxedLineRequest, userID string) (*domain.Transaction, error) {
	if req.TaxCode == nil || *req.TaxCode == "" {
		return nil, apperrors.NewValidationError("taxCode", "is required for a taxed line")
	}
	return s.editDraft(ctx, tenantID, transactionID, userID, func(ctx context.Context, repos portsrepo.TxRepositories, t *domain.Transaction) error {
		net, err := s.buildLine(ctx, repos, tenantID, req.LineRequest)
		if err != nil {
			return err
		}
		tc, err := activeTaxCode(ctx, repos, tenantID, *req.TaxCode)
		if err != nil {
			return err
		}
		net.TransactionID = t.TransactionID
		t.Lines = append(t.Lines, net)

		tax := accounting.ComputeTax(*tc, net.Amount)
		if tax.IsZero() {
			return nil
		}
		if _, err := repos.Accounts.FindAccountByID(ctx, tenantID, req.TaxAccountID); err != nil {
			return err
		}
		code := tc.Code
		t.Lines = append(t.Lines, domain.TransactionLine{
			LineID:         s.newID(),
			TransactionID:  t.TransactionID,
			AccountID:      req.TaxAccountID,
			Amount:         tax,
			Direction:      net.Direction,
			TaxCode:        &code,
			IsTaxLine:      true,
			Department:     net.Department,
			Memo:           fmt.Sprintf("tax %s on %s", code, net.Amount.StringFixed(domain.MoneyScale)),
			ReversedAmount: decimal.Zero,
		})
		return nil
	})
}

func (s *transactionService) DeleteDraft(ctx context.Context, tenantID string, transactionID string, userID string) error {
	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		t, err := repos.Transactions.FindTransactionByIDForUpdate(ctx, tenantID, transactionID)
		if err != nil {
			return err
		}
		if !t.IsDraft() {
			return &apperrors.AlreadyPostedError{TransactionID: transactionID}
		}
		return repos.Transactions.DeleteDraft(ctx, tenantID, transactionID)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete draft", slog.String("transaction_id", transactionID))
		return err
	}
	s.LogInfo(ctx, "Draft deleted",
		slog.String("transaction_id", transactionID),
		slog.String("user_id", userID))
	return nil
}
