package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, tenantID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) FindByCode(ctx context.Context, tenantID string, code string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, tenantID string, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) UpdateAccount(ctx context.Context, tenantID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) DeactivateAccount(ctx context.Context, tenantID string, accountID string, userID string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, accountID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ActivateAccount(ctx context.Context, tenantID string, accountID string, userID string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, accountID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) txn(args mock.Arguments) (*domain.Transaction, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) GetTransaction(ctx context.Context, tenantID string, transactionID string) (*domain.Transaction, error) {
	return m.txn(m.Called(ctx, tenantID, transactionID))
}
func (m *MockTransactionService) ListTransactions(ctx context.Context, tenantID string, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, tenantID, filter, limit, nextToken)
	var next *string
	if n, ok := args.Get(1).(*string); ok {
		next = n
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), next, args.Error(2)
}
func (m *MockTransactionService) ListLedgerEntries(ctx context.Context, tenantID string, transactionID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}
func (m *MockTransactionService) CreateDraft(ctx context.Context, tenantID string, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	return m.txn(m.Called(ctx, tenantID, req, userID))
}
func (m *MockTransactionService) AddLine(ctx context.Context, tenantID string, transactionID string, req dto.LineRequest, userID string) (*domain.Transaction, error) {
	return m.txn(m.Called(ctx, tenantID, transactionID, req, userID))
}
func (m *MockTransactionService) UpdateLine(ctx context.Context, tenantID string, transactionID string, lineID string, req dto.LineRequest, userID string) (*domain.Transaction, error) {
	return m.txn(m.Called(ctx, tenantID, transactionID, lineID, req, userID))
}
func (m *MockTransactionService) RemoveLine(ctx context.Context, tenantID string, transactionID string, lineID string, userID string) (*domain.Transaction, error) {
	return m.txn(m.Called(ctx, tenantID, transactionID, lineID, userID))
}
func (m *MockTransactionService) AddTaxedLine(ctx context.Context, tenantID string, transactionID string, req dto.AddTaxedLineRequest, userID string) (*domain.Transaction, error) {
	return m.txn(m.Called(ctx, tenantID, transactionID, req, userID))
}
func (m *MockTransactionService) DeleteDraft(ctx context.Context, tenantID string, transactionID string, userID string) error {
	return m.Called(ctx, tenantID, transactionID, userID).Error(0)
}

var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

// --- Mock PostingService ---
type MockPostingService struct {
	mock.Mock
}

func (m *MockPostingService) Post(ctx context.Context, tenantID string, transactionID string, actor string) (*domain.Transaction, error) {
	args := m.Called(ctx, tenantID, transactionID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

var _ portssvc.PostingSvc = (*MockPostingService)(nil)

// --- Mock ReversalService ---
type MockReversalService struct {
	mock.Mock
}

func (m *MockReversalService) Reverse(ctx context.Context, tenantID string, transactionID string, actor string, opts domain.ReversalOptions) (*domain.Transaction, error) {
	args := m.Called(ctx, tenantID, transactionID, actor, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockReversalService) ReversePartial(ctx context.Context, tenantID string, transactionID string, actor string, lines []domain.ReversalLineRequest, opts domain.ReversalOptions) (*domain.Transaction, error) {
	args := m.Called(ctx, tenantID, transactionID, actor, lines, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockReversalService) ListReversals(ctx context.Context, tenantID string, transactionID string) ([]domain.ReversalLink, error) {
	args := m.Called(ctx, tenantID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReversalLink), args.Error(1)
}
func (m *MockReversalService) RemainingBalance(ctx context.Context, tenantID string, transactionID string) ([]domain.LineBalance, error) {
	args := m.Called(ctx, tenantID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LineBalance), args.Error(1)
}

var _ portssvc.ReversalSvc = (*MockReversalService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) TrialBalance(ctx context.Context, tenantID string, start, end time.Time, maxLevel int, department *string) (*domain.TrialBalance, error) {
	args := m.Called(ctx, tenantID, start, end, maxLevel, department)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Error(1)
}
func (m *MockReportingService) ProfitAndLoss(ctx context.Context, tenantID string, start, end time.Time, maxLevel int, department *string) (*domain.ProfitAndLoss, error) {
	args := m.Called(ctx, tenantID, start, end, maxLevel, department)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProfitAndLoss), args.Error(1)
}
func (m *MockReportingService) BalanceSheet(ctx context.Context, tenantID string, asOf time.Time, maxLevel int, department *string) (*domain.BalanceSheet, error) {
	args := m.Called(ctx, tenantID, asOf, maxLevel, department)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceSheet), args.Error(1)
}
func (m *MockReportingService) TaxReturn(ctx context.Context, tenantID string, start, end time.Time, maxLevel int) (*domain.TaxReturn, error) {
	args := m.Called(ctx, tenantID, start, end, maxLevel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxReturn), args.Error(1)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

// --- Mock TaxService ---
type MockTaxService struct {
	mock.Mock
}

func (m *MockTaxService) CreateTaxCode(ctx context.Context, tenantID string, req dto.CreateTaxCodeRequest, userID string) (*domain.TaxCode, error) {
	args := m.Called(ctx, tenantID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxCode), args.Error(1)
}
func (m *MockTaxService) GetTaxCode(ctx context.Context, tenantID string, code string) (*domain.TaxCode, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxCode), args.Error(1)
}
func (m *MockTaxService) ListTaxCodes(ctx context.Context, tenantID string) ([]domain.TaxCode, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxCode), args.Error(1)
}
func (m *MockTaxService) CalculateTax(ctx context.Context, tenantID string, code string, amount decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, code, amount)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

var _ portssvc.TaxSvcFacade = (*MockTaxService)(nil)
