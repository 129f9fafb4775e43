package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/core/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/platform/metrics"
	"github.com/SscSPs/ledger_core/internal/repositories/memory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const (
	tenant = "tenant-1"
	actor  = "user-1"
)

// LedgerFlowTestSuite drives the services end to end against the in-memory store.
type LedgerFlowTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *memory.Store
	repos portsrepo.RepositoryProvider
	svc   *portssvc.ServiceContainer

	bank, capital, sales, rent, vat, payroll string
}

func TestLedgerFlowTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerFlowTestSuite))
}

func (s *LedgerFlowTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.repos = s.store.Repositories()
	s.svc = services.NewServiceContainer(s.repos, metrics.New(prometheus.NewRegistry()))

	_, err := s.svc.Period.CreateFiscalYear(s.ctx, tenant, dto.CreateFiscalYearRequest{
		Name:      "FY2026",
		StartDate: "2026-01-01",
		EndDate:   "2026-12-31",
	}, actor)
	s.Require().NoError(err)

	s.bank = s.account("1000", "Bank", domain.Asset, nil)
	s.vat = s.account("2200", "VAT payable", domain.Liability, nil)
	s.capital = s.account("3000", "Capital", domain.Equity, nil)
	s.sales = s.account("4000", "Sales", domain.Income, nil)
	s.rent = s.account("5000", "Rent", domain.Expense, nil)
	level := 5
	s.payroll = s.account("5100", "Payroll", domain.Expense, &level)

	_, err = s.svc.Tax.CreateTaxCode(s.ctx, tenant, dto.CreateTaxCodeRequest{
		Code:         "VAT20",
		Name:         "Standard rate",
		Rate:         decimal.RequireFromString("0.2"),
		TaxType:      domain.TaxStandard,
		ReportingBox: "1",
	}, actor)
	s.Require().NoError(err)
}

func (s *LedgerFlowTestSuite) account(code, name string, typ domain.AccountType, level *int) string {
	acc, err := s.svc.Account.CreateAccount(s.ctx, tenant, dto.CreateAccountRequest{
		Code: code, Name: name, AccountType: typ, SecurityLevel: level,
	}, actor)
	s.Require().NoError(err)
	return acc.AccountID
}

func line(accountID, amount string, dir domain.Direction) dto.LineRequest {
	return dto.LineRequest{AccountID: accountID, Amount: decimal.RequireFromString(amount), Direction: dir}
}

func (s *LedgerFlowTestSuite) draft(typ domain.TransactionType, date string, lines ...dto.LineRequest) *domain.Transaction {
	t, err := s.svc.Transaction.CreateDraft(s.ctx, tenant, dto.CreateTransactionRequest{
		Type: typ, Date: date, Description: "test", Lines: lines,
	}, actor)
	s.Require().NoError(err)
	return t
}

func (s *LedgerFlowTestSuite) posted(typ domain.TransactionType, date string, lines ...dto.LineRequest) *domain.Transaction {
	t := s.draft(typ, date, lines...)
	p, err := s.svc.Posting.Post(s.ctx, tenant, t.TransactionID, actor)
	s.Require().NoError(err)
	return p
}

func (s *LedgerFlowTestSuite) entries(transactionID string) []domain.LedgerEntry {
	e, err := s.svc.Transaction.ListLedgerEntries(s.ctx, tenant, transactionID)
	s.Require().NoError(err)
	return e
}

func (s *LedgerFlowTestSuite) day(v string) time.Time {
	d, err := dto.ParseDate("date", v)
	s.Require().NoError(err)
	return d
}

func (s *LedgerFlowTestSuite) TestPost_Simple() {
	t := s.draft(domain.Journal, "2026-03-15",
		line(s.rent, "100", domain.Debit),
		line(s.bank, "100", domain.Credit))

	posted, err := s.svc.Posting.Post(s.ctx, tenant, t.TransactionID, actor)
	s.Require().NoError(err)
	s.Equal(domain.StatusPosted, posted.Status)
	s.Require().NotNil(posted.PostedBy)
	s.Equal(actor, *posted.PostedBy)

	entries := s.entries(t.TransactionID)
	s.Require().Len(entries, 2)
	s.Equal(s.rent, entries[0].AccountID)
	s.Equal("100.00", entries[0].AmountDr.StringFixed(2))
	s.True(entries[0].AmountCr.IsZero())
	s.Equal(s.bank, entries[1].AccountID)
	s.Equal("100.00", entries[1].AmountCr.StringFixed(2))
	s.Equal(s.day("2026-03-15"), entries[0].EntryDate)
}

func (s *LedgerFlowTestSuite) TestPost_Unbalanced() {
	t := s.draft(domain.Journal, "2026-03-15",
		line(s.rent, "100", domain.Debit),
		line(s.bank, "90", domain.Credit))

	_, err := s.svc.Posting.Post(s.ctx, tenant, t.TransactionID, actor)
	var unbalanced *apperrors.UnbalancedTransactionError
	s.Require().ErrorAs(err, &unbalanced)
	s.Contains(err.Error(), "debits=100.00, credits=90.00")
	s.ErrorIs(err, apperrors.ErrDomainInvariant)
	s.Empty(s.entries(t.TransactionID))

	still, err := s.svc.Transaction.GetTransaction(s.ctx, tenant, t.TransactionID)
	s.Require().NoError(err)
	s.Equal(domain.StatusDraft, still.Status)
}

func (s *LedgerFlowTestSuite) TestPost_LockedPeriod() {
	t := s.draft(domain.Journal, "2026-03-15",
		line(s.rent, "100", domain.Debit),
		line(s.bank, "100", domain.Credit))
	period, err := s.svc.Period.PeriodFor(s.ctx, tenant, s.day("2026-03-15"))
	s.Require().NoError(err)
	_, err = s.svc.Period.LockPeriod(s.ctx, tenant, period.PeriodID, actor)
	s.Require().NoError(err)

	_, err = s.svc.Posting.Post(s.ctx, tenant, t.TransactionID, actor)
	var locked *apperrors.LockedPeriodError
	s.Require().ErrorAs(err, &locked)
	s.Equal(period.PeriodID, locked.PeriodID)
	s.Empty(s.entries(t.TransactionID))

	_, err = s.svc.Period.UnlockPeriod(s.ctx, tenant, period.PeriodID, actor)
	s.Require().NoError(err)
	_, err = s.svc.Posting.Post(s.ctx, tenant, t.TransactionID, actor)
	s.NoError(err)
}

func (s *LedgerFlowTestSuite) TestReverse_NetsToZero() {
	orig := s.posted(domain.Journal, "2026-03-15",
		line(s.rent, "100", domain.Debit),
		line(s.bank, "100", domain.Credit))

	rev, err := s.svc.Reversal.Reverse(s.ctx, tenant, orig.TransactionID, actor, domain.ReversalOptions{})
	s.Require().NoError(err)
	s.Equal(domain.StatusDraft, rev.Status)
	s.Equal(orig.Date, rev.Date)
	s.Equal(domain.Journal, rev.Type)
	s.Require().Len(rev.Lines, 2)
	s.Equal(domain.Credit, rev.Lines[0].Direction)
	s.Require().NotNil(rev.Lines[0].ReversesLineID)
	s.Equal(orig.Lines[0].LineID, *rev.Lines[0].ReversesLineID)

	_, err = s.svc.Posting.Post(s.ctx, tenant, rev.TransactionID, actor)
	s.Require().NoError(err)

	tb, err := s.svc.Reporting.TrialBalance(s.ctx, tenant, s.day("2026-01-01"), s.day("2026-12-31"), 10, nil)
	s.Require().NoError(err)
	for _, row := range tb.Rows {
		s.True(row.Debit.IsZero(), row.Code)
		s.True(row.Credit.IsZero(), row.Code)
	}

	balances, err := s.svc.Reversal.RemainingBalance(s.ctx, tenant, orig.TransactionID)
	s.Require().NoError(err)
	for _, b := range balances {
		s.Equal("100.00", b.Reversed.StringFixed(2))
		s.True(b.Remaining.IsZero())
	}

	links, err := s.svc.Reversal.ListReversals(s.ctx, tenant, orig.TransactionID)
	s.Require().NoError(err)
	s.Require().Len(links, 1)
	s.Equal(rev.TransactionID, links[0].ReversingTransactionID)
	s.Equal(domain.ReversalFull, links[0].Kind)
}

func (s *LedgerFlowTestSuite) TestReverse_VoidOfReversalRestoresOriginal() {
	orig := s.posted(domain.Journal, "2026-03-15",
		line(s.rent, "100", domain.Debit),
		line(s.bank, "100", domain.Credit))

	rev, err := s.svc.Reversal.Reverse(s.ctx, tenant, orig.TransactionID, actor, domain.ReversalOptions{})
	s.Require().NoError(err)
	_, err = s.svc.Posting.Post(s.ctx, tenant, rev.TransactionID, actor)
	s.Require().NoError(err)

	void, err := s.svc.Reversal.Reverse(s.ctx, tenant, rev.TransactionID, actor, domain.ReversalOptions{})
	s.Require().NoError(err)
	s.Require().Len(void.Lines, 2)
	s.Equal(domain.Debit, void.Lines[0].Direction)
	s.Equal(rev.Lines[0].LineID, *void.Lines[0].ReversesLineID)
	_, err = s.svc.Posting.Post(s.ctx, tenant, void.TransactionID, actor)
	s.Require().NoError(err)

	tb, err := s.svc.Reporting.TrialBalance(s.ctx, tenant, s.day("2026-01-01"), s.day("2026-12-31"), 10, nil)
	s.Require().NoError(err)
	s.True(tb.IsBalanced())
	for _, row := range tb.Rows {
		switch row.AccountID {
		case s.rent:
			s.Equal("100.00", row.Debit.StringFixed(2))
			s.True(row.Credit.IsZero())
		case s.bank:
			s.Equal("100.00", row.Credit.StringFixed(2))
			s.True(row.Debit.IsZero())
		default:
			s.True(row.Debit.IsZero(), row.Code)
			s.True(row.Credit.IsZero(), row.Code)
		}
	}

	links, err := s.svc.Reversal.ListReversals(s.ctx, tenant, rev.TransactionID)
	s.Require().NoError(err)
	s.Require().Len(links, 1)
	s.Equal(void.TransactionID, links[0].ReversingTransactionID)

	_, err = s.svc.Reversal.Reverse(s.ctx, tenant, rev.TransactionID, actor, domain.ReversalOptions{})
	var exceeds *apperrors.AmountExceedsBalanceError
	s.ErrorAs(err, &exceeds)
}

func (s *LedgerFlowTestSuite) TestPost_Twice() {
	t := s.posted(domain.Journal, "2026-03-15",
		line(s.rent, "100", domain.Debit),
		line(s.bank, "100", domain.Credit))

	_, err := s.svc.Posting.Post(s.ctx, tenant, t.TransactionID, actor)
	var already *apperrors.AlreadyPostedError
	s.Require().ErrorAs(err, &already)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.Len(s.entries(t.TransactionID), 2)
}

func (s *LedgerFlowTestSuite) TestPost_Concurrent() {
	t := s.draft(domain.Journal, "2026-03-15",
		line(s.rent, "100", domain.Debit),
		line(s.bank, "100", domain.Credit))

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.svc.Posting.Post(s.ctx, tenant, t.TransactionID, actor)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var already *apperrors.AlreadyPostedError
		s.ErrorAs(err, &already)
	}
	s.Equal(1, succeeded)
	s.Len(s.entries(t.TransactionID), 2)
}

func (s *LedgerFlowTestSuite) TestPost_NoPeriod() {
	t := s.draft(domain.Journal, "2027-02-01",
		line(s.rent, "100", domain.Debit),
		line(s.bank, "100", domain.Credit))

	_, err := s.svc.Posting.Post(s.ctx, tenant, t.TransactionID, actor)
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.Empty(s.entries(t.TransactionID))
}

func (s *LedgerFlowTestSuite) TestPost_Empty() {
	t := s.draft(domain.Journal, "2026-03-15")

	_, err := s.svc.Posting.Post(s.ctx, tenant, t.TransactionID, actor)
	var empty *apperrors.EmptyTransactionError
	s.ErrorAs(err, &empty)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerFlowTestSuite) TestPost_InactiveAccount() {
	t := s.draft(domain.Journal, "2026-03-15",
		line(s.rent, "100", domain.Debit),
		line(s.bank, "100", domain.Credit))
	_, err := s.svc.Account.DeactivateAccount(s.ctx, tenant, s.rent, actor)
	s.Require().NoError(err)

	_, err = s.svc.Posting.Post(s.ctx, tenant, t.TransactionID, actor)
	var inactive *apperrors.InactiveAccountError
	s.Require().ErrorAs(err, &inactive)
	s.Equal("5000", inactive.Code)
	s.Empty(s.entries(t.TransactionID))
}

func (s *LedgerFlowTestSuite) TestPost_OtherTenantCannotSeeDraft() {
	t := s.draft(domain.Journal, "2026-03-15",
		line(s.rent, "100", domain.Debit),
		line(s.bank, "100", domain.Credit))

	_, err := s.svc.Posting.Post(s.ctx, "tenant-2", t.TransactionID, actor)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerFlowTestSuite) TestCreateDraft_UnknownAccount() {
	_, err := s.svc.Transaction.CreateDraft(s.ctx, tenant, dto.CreateTransactionRequest{
		Type: domain.Journal, Date: "2026-03-15",
		Lines: []dto.LineRequest{line("missing", "10", domain.Debit)},
	}, actor)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerFlowTestSuite) TestCreateDraft_RejectsBadAmounts() {
	for _, amount := range []string{"0", "-5", "1.005"} {
		_, err := s.svc.Transaction.CreateDraft(s.ctx, tenant, dto.CreateTransactionRequest{
			Type: domain.Journal, Date: "2026-03-15",
			Lines: []dto.LineRequest{line(s.bank, amount, domain.Debit)},
		}, actor)
		s.ErrorIs(err, apperrors.ErrValidation, amount)
	}
}

func (s *LedgerFlowTestSuite) TestEditDraft() {
	t := s.draft(domain.Journal, "2026-03-15", line(s.rent, "100", domain.Debit))
	s.Equal(1, t.Version)

	t, err := s.svc.Transaction.AddLine(s.ctx, tenant, t.TransactionID, line(s.bank, "90", domain.Credit), actor)
	s.Require().NoError(err)
	s.Equal(2, t.Version)
	s.Require().Len(t.Lines, 2)
	s.Equal(2, t.Lines[1].LineNo)

	t, err = s.svc.Transaction.UpdateLine(s.ctx, tenant, t.TransactionID, t.Lines[1].LineID, line(s.bank, "100", domain.Credit), actor)
	s.Require().NoError(err)
	s.True(t.IsBalanced())

	first := t.Lines[0].LineID
	t, err = s.svc.Transaction.RemoveLine(s.ctx, tenant, t.TransactionID, first, actor)
	s.Require().NoError(err)
	s.Require().Len(t.Lines, 1)
	s.Equal(1, t.Lines[0].LineNo)

	_, err = s.svc.Transaction.RemoveLine(s.ctx, tenant, t.TransactionID, first, actor)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerFlowTestSuite) TestEditPosted() {
	t := s.posted(domain.Journal, "2026-03-15",
		line(s.rent, "100", domain.Debit),
		line(s.bank, "100", domain.Credit))

	_, err := s.svc.Transaction.AddLine(s.ctx, tenant, t.TransactionID, line(s.bank, "1", domain.Credit), actor)
	var already *apperrors.AlreadyPostedError
	s.ErrorAs(err, &already)

	err = s.svc.Transaction.DeleteDraft(s.ctx, tenant, t.TransactionID, actor)
	s.ErrorAs(err, &already)
}

func (s *LedgerFlowTestSuite) TestDeleteDraft_DropsPendingReversal() {
	orig := s.posted(domain.Journal, "2026-03-15",
		line(s.rent, "100", domain.Debit),
		line(s.bank, "100", domain.Credit))
	rev, err := s.svc.Reversal.Reverse(s.ctx, tenant, orig.TransactionID, actor, domain.ReversalOptions{})
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Transaction.DeleteDraft(s.ctx, tenant, rev.TransactionID, actor))

	links, err := s.svc.Reversal.ListReversals(s.ctx, tenant, orig.TransactionID)
	s.Require().NoError(err)
	s.Empty(links)
	_, err = s.svc.Reversal.Reverse(s.ctx, tenant, orig.TransactionID, actor, domain.ReversalOptions{})
	s.NoError(err)
}

func (s *LedgerFlowTestSuite) TestReverse_Draft() {
	t := s.draft(domain.Journal, "2026-03-15", line(s.rent, "100", domain.Debit))
	_, err := s.svc.Reversal.Reverse(s.ctx, tenant, t.TransactionID, actor, domain.ReversalOptions{})
	var notPosted *apperrors.NotPostedError
	s.ErrorAs(err, &notPosted)
}

func (s *LedgerFlowTestSuite) TestReverse_Options() {
	orig := s.posted(domain.SalesInvoice, "2026-03-15",
		line(s.bank, "100", domain.Debit),
		line(s.sales, "100", domain.Credit))

	date := s.day("2026-04-02")
	rev, err := s.svc.Reversal.Reverse(s.ctx, tenant, orig.TransactionID, actor, domain.ReversalOptions{Date: &date})
	s.Require().NoError(err)
	s.Equal(domain.CreditNote, rev.Type)
	s.Equal(date, rev.Date)
	s.Equal("Reversal of "+orig.TransactionID, rev.Description)
}

func (s *LedgerFlowTestSuite) TestPartialReversal_Bounded() {
	orig := s.posted(domain.SalesInvoice, "2026-03-15",
		line(s.bank, "100", domain.Debit),
		line(s.sales, "100", domain.Credit))
	salesLine := orig.Lines[1].LineID
	bankLine := orig.Lines[0].LineID
	req := func(amount string) []domain.ReversalLineRequest {
		return []domain.ReversalLineRequest{
			{LineID: bankLine, Amount: decimal.RequireFromString(amount)},
			{LineID: salesLine, Amount: decimal.RequireFromString(amount)},
		}
	}

	first, err := s.svc.Reversal.ReversePartial(s.ctx, tenant, orig.TransactionID, actor, req("60"), domain.ReversalOptions{})
	s.Require().NoError(err)
	s.Equal(domain.CreditNote, first.Type)

	// 60 is pending on the first draft, so only 40 remains.
	_, err = s.svc.Reversal.ReversePartial(s.ctx, tenant, orig.TransactionID, actor, req("50"), domain.ReversalOptions{})
	var exceeds *apperrors.AmountExceedsBalanceError
	s.Require().ErrorAs(err, &exceeds)
	s.Equal("40.00", exceeds.Remaining.StringFixed(2))

	balances, err := s.svc.Reversal.RemainingBalance(s.ctx, tenant, orig.TransactionID)
	s.Require().NoError(err)
	s.Equal("60.00", balances[0].Pending.StringFixed(2))
	s.Equal("40.00", balances[0].Remaining.StringFixed(2))

	_, err = s.svc.Posting.Post(s.ctx, tenant, first.TransactionID, actor)
	s.Require().NoError(err)

	second, err := s.svc.Reversal.ReversePartial(s.ctx, tenant, orig.TransactionID, actor, req("40"), domain.ReversalOptions{})
	s.Require().NoError(err)
	_, err = s.svc.Posting.Post(s.ctx, tenant, second.TransactionID, actor)
	s.Require().NoError(err)

	_, err = s.svc.Reversal.ReversePartial(s.ctx, tenant, orig.TransactionID, actor, req("0.01"), domain.ReversalOptions{})
	s.ErrorAs(err, &exceeds)
	_, err = s.svc.Reversal.Reverse(s.ctx, tenant, orig.TransactionID, actor, domain.ReversalOptions{})
	s.ErrorAs(err, &exceeds)

	links, err := s.svc.Reversal.ListReversals(s.ctx, tenant, orig.TransactionID)
	s.Require().NoError(err)
	s.Len(links, 2)
}

func (s *LedgerFlowTestSuite) TestPartialReversal_InvalidAmount() {
	orig := s.posted(domain.Journal, "2026-03-15",
		line(s.rent, "100", domain.Debit),
		line(s.bank, "100", domain.Credit))
	_, err := s.svc.Reversal.ReversePartial(s.ctx, tenant, orig.TransactionID, actor,
		[]domain.ReversalLineRequest{{LineID: orig.Lines[0].LineID, Amount: decimal.Zero}}, domain.ReversalOptions{})
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.Reversal.ReversePartial(s.ctx, tenant, orig.TransactionID, actor,
		[]domain.ReversalLineRequest{{LineID: "nope", Amount: decimal.NewFromInt(1)}}, domain.ReversalOptions{})
	s.ErrorIs(err, apperrors.ErrNotFound)
}

// A reversal draft written past the service checks is still bounded when posted.
func (s *LedgerFlowTestSuite) TestPost_ReversalBoundCheckedAtPost() {
	orig := s.posted(domain.Journal, "2026-03-15",
		line(s.rent, "100", domain.Debit),
		line(s.bank, "100", domain.Credit))
	rentLine, bankLine := orig.Lines[0].LineID, orig.Lines[1].LineID
	now := time.Now().UTC()
	bad := domain.Transaction{
		TransactionID: "bad-reversal",
		TenantID:      tenant,
		Type:          domain.Journal,
		Date:          orig.Date,
		Status:        domain.StatusDraft,
		Version:       1,
		Lines: []domain.TransactionLine{
			{LineID: "l1", LineNo: 1, TransactionID: "bad-reversal", AccountID: s.rent, Amount: decimal.NewFromInt(150),
				Direction: domain.Credit, ReversesLineID: &rentLine, ReversedAmount: decimal.Zero},
			{LineID: "l2", LineNo: 2, TransactionID: "bad-reversal", AccountID: s.bank, Amount: decimal.NewFromInt(150),
				Direction: domain.Debit, ReversesLineID: &bankLine, ReversedAmount: decimal.Zero},
		},
		AuditFields: domain.NewAuditFields(actor, now),
	}
	s.Require().NoError(s.repos.TransactionRepo.SaveTransaction(s.ctx, bad))

	_, err := s.svc.Posting.Post(s.ctx, tenant, bad.TransactionID, actor)
	var exceeds *apperrors.AmountExceedsBalanceError
	s.Require().ErrorAs(err, &exceeds)
	s.Empty(s.entries(bad.TransactionID))

	reloaded, err := s.svc.Transaction.GetTransaction(s.ctx, tenant, orig.TransactionID)
	s.Require().NoError(err)
	s.True(reloaded.Lines[0].ReversedAmount.IsZero())
}

func (s *LedgerFlowTestSuite) TestAuditEvents() {
	t := s.posted(domain.Journal, "2026-03-15",
		line(s.rent, "100", domain.Debit),
		line(s.bank, "100", domain.Credit))
	_, err := s.svc.Reversal.Reverse(s.ctx, tenant, t.TransactionID, actor, domain.ReversalOptions{})
	s.Require().NoError(err)

	var kinds []string
	for _, e := range s.store.AuditEvents(tenant) {
		kinds = append(kinds, e.EventType)
	}
	s.Equal([]string{domain.AuditTransactionPosted, domain.AuditReversalCreated}, kinds)
}

func (s *LedgerFlowTestSuite) TestFailedPostLeavesNoTrace() {
	t := s.draft(domain.Journal, "2026-03-15",
		line(s.rent, "100", domain.Debit),
		line(s.bank, "50", domain.Credit))
	_, err := s.svc.Posting.Post(s.ctx, tenant, t.TransactionID, actor)
	s.Require().Error(err)

	s.Empty(s.store.AuditEvents(tenant))
	reloaded, err := s.svc.Transaction.GetTransaction(s.ctx, tenant, t.TransactionID)
	s.Require().NoError(err)
	s.Equal(t.Version, reloaded.Version)
	s.Nil(reloaded.PostedAt)
}

func (s *LedgerFlowTestSuite) TestCancelledContext() {
	t := s.draft(domain.Journal, "2026-03-15",
		line(s.rent, "100", domain.Debit),
		line(s.bank, "100", domain.Credit))
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := s.svc.Posting.Post(ctx, tenant, t.TransactionID, actor)
	s.True(errors.Is(err, context.Canceled))
	s.Empty(s.entries(t.TransactionID))
}

func (s *LedgerFlowTestSuite) TestListTransactions_Paging() {
	s.draft(domain.Journal, "2026-01-10", line(s.rent, "1", domain.Debit))
	s.draft(domain.Journal, "2026-02-10", line(s.rent, "2", domain.Debit))
	s.draft(domain.Payment, "2026-03-10", line(s.rent, "3", domain.Debit))

	page, next, err := s.svc.Transaction.ListTransactions(s.ctx, tenant, domain.TransactionFilter{}, 2, nil)
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Require().NotNil(next)
	s.Equal(s.day("2026-03-10"), page[0].Date)

	rest, next, err := s.svc.Transaction.ListTransactions(s.ctx, tenant, domain.TransactionFilter{}, 2, next)
	s.Require().NoError(err)
	s.Require().Len(rest, 1)
	s.Nil(next)
	s.Equal(s.day("2026-01-10"), rest[0].Date)

	payment := domain.Payment
	only, _, err := s.svc.Transaction.ListTransactions(s.ctx, tenant, domain.TransactionFilter{Type: &payment}, 10, nil)
	s.Require().NoError(err)
	s.Len(only, 1)

	bad := "%%%"
	_, _, err = s.svc.Transaction.ListTransactions(s.ctx, tenant, domain.TransactionFilter{}, 2, &bad)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerFlowTestSuite) seedBooks() {
	s.posted(domain.Journal, "2026-01-05",
		line(s.bank, "1000", domain.Debit),
		line(s.capital, "1000", domain.Credit))
	s.posted(domain.SalesInvoice, "2026-02-10",
		line(s.bank, "200", domain.Debit),
		line(s.sales, "200", domain.Credit))
	ops := "ops"
	rent := line(s.rent, "50", domain.Debit)
	rent.Department = &ops
	s.posted(domain.Payment, "2026-02-20", rent, line(s.bank, "50", domain.Credit))
	s.posted(domain.Payment, "2026-02-25",
		line(s.payroll, "300", domain.Debit),
		line(s.bank, "300", domain.Credit))
}

func (s *LedgerFlowTestSuite) TestTrialBalance() {
	s.seedBooks()

	tb, err := s.svc.Reporting.TrialBalance(s.ctx, tenant, s.day("2026-01-01"), s.day("2026-12-31"), 10, nil)
	s.Require().NoError(err)
	s.True(tb.IsBalanced())
	s.Equal("1200.00", tb.TotalDebits.StringFixed(2))
	s.Require().Len(tb.Rows, 6)
	s.Equal("1000", tb.Rows[0].Code)
	s.Equal("850.00", tb.Rows[0].Debit.StringFixed(2))
	s.True(tb.Rows[0].Credit.IsZero())

	hidden, err := s.svc.Reporting.TrialBalance(s.ctx, tenant, s.day("2026-01-01"), s.day("2026-12-31"), 0, nil)
	s.Require().NoError(err)
	s.Len(hidden.Rows, 5)
	for _, row := range hidden.Rows {
		s.NotEqual(s.payroll, row.AccountID)
	}

	january, err := s.svc.Reporting.TrialBalance(s.ctx, tenant, s.day("2026-01-01"), s.day("2026-01-31"), 10, nil)
	s.Require().NoError(err)
	s.Equal("1000.00", january.TotalDebits.StringFixed(2))

	ops := "ops"
	dept, err := s.svc.Reporting.TrialBalance(s.ctx, tenant, s.day("2026-01-01"), s.day("2026-12-31"), 10, &ops)
	s.Require().NoError(err)
	s.Equal("50.00", dept.TotalDebits.StringFixed(2))
	s.True(dept.TotalCredits.IsZero())

	_, err = s.svc.Reporting.TrialBalance(s.ctx, tenant, s.day("2026-02-01"), s.day("2026-01-01"), 10, nil)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerFlowTestSuite) TestReports_EmptyRange() {
	start, end := s.day("2026-07-01"), s.day("2026-07-31")

	assertEmpty := func() {
		tb, err := s.svc.Reporting.TrialBalance(s.ctx, tenant, start, end, 10, nil)
		s.Require().NoError(err)
		s.True(tb.IsBalanced())
		s.True(tb.TotalDebits.IsZero())
		s.True(tb.TotalCredits.IsZero())
		for _, row := range tb.Rows {
			s.True(row.Debit.IsZero(), row.Code)
			s.True(row.Credit.IsZero(), row.Code)
		}

		pl, err := s.svc.Reporting.ProfitAndLoss(s.ctx, tenant, start, end, 10, nil)
		s.Require().NoError(err)
		s.True(pl.TotalIncome.IsZero())
		s.True(pl.TotalExpense.IsZero())
		s.True(pl.NetProfit.IsZero())
	}

	assertEmpty()

	bs, err := s.svc.Reporting.BalanceSheet(s.ctx, tenant, end, 10, nil)
	s.Require().NoError(err)
	s.True(bs.IsBalanced())
	s.True(bs.TotalAssets.IsZero())
	s.True(bs.TotalLiabilities.IsZero())
	s.True(bs.TotalEquity.IsZero())
	s.True(bs.RetainedEarnings.IsZero())

	// entries outside the range leave it empty
	s.seedBooks()
	assertEmpty()
}

func (s *LedgerFlowTestSuite) TestProfitAndLoss() {
	s.seedBooks()

	pl, err := s.svc.Reporting.ProfitAndLoss(s.ctx, tenant, s.day("2026-01-01"), s.day("2026-12-31"), 10, nil)
	s.Require().NoError(err)
	s.Equal("200.00", pl.TotalIncome.StringFixed(2))
	s.Equal("350.00", pl.TotalExpense.StringFixed(2))
	s.Equal("-150.00", pl.NetProfit.StringFixed(2))

	pl, err = s.svc.Reporting.ProfitAndLoss(s.ctx, tenant, s.day("2026-01-01"), s.day("2026-12-31"), 0, nil)
	s.Require().NoError(err)
	s.Equal("150.00", pl.NetProfit.StringFixed(2))
}

func (s *LedgerFlowTestSuite) TestBalanceSheet() {
	s.seedBooks()

	bs, err := s.svc.Reporting.BalanceSheet(s.ctx, tenant, s.day("2026-12-31"), 10, nil)
	s.Require().NoError(err)
	s.True(bs.IsBalanced())
	s.Equal("850.00", bs.TotalAssets.StringFixed(2))
	s.Equal("-150.00", bs.RetainedEarnings.StringFixed(2))
	s.Equal("850.00", bs.TotalEquity.StringFixed(2))
	last := bs.Equity[len(bs.Equity)-1]
	s.Equal(domain.RetainedEarningsAccountID, last.AccountID)

	early, err := s.svc.Reporting.BalanceSheet(s.ctx, tenant, s.day("2026-01-31"), 10, nil)
	s.Require().NoError(err)
	s.True(early.IsBalanced())
	s.Equal("1000.00", early.TotalAssets.StringFixed(2))
	s.True(early.RetainedEarnings.IsZero())
}

func (s *LedgerFlowTestSuite) TestTaxedLineAndReturn() {
	inv := s.draft(domain.SalesInvoice, "2026-05-02", line(s.bank, "120", domain.Debit))
	code := "VAT20"
	taxed := dto.AddTaxedLineRequest{LineRequest: line(s.sales, "100", domain.Credit), TaxAccountID: s.vat}
	taxed.TaxCode = &code

	inv, err := s.svc.Transaction.AddTaxedLine(s.ctx, tenant, inv.TransactionID, taxed, actor)
	s.Require().NoError(err)
	s.Require().Len(inv.Lines, 3)
	taxLine := inv.Lines[2]
	s.True(taxLine.IsTaxLine)
	s.Equal(s.vat, taxLine.AccountID)
	s.Equal(domain.Credit, taxLine.Direction)
	s.Equal("20.00", taxLine.Amount.StringFixed(2))

	_, err = s.svc.Posting.Post(s.ctx, tenant, inv.TransactionID, actor)
	s.Require().NoError(err)

	tr, err := s.svc.Reporting.TaxReturn(s.ctx, tenant, s.day("2026-05-01"), s.day("2026-05-31"), 10)
	s.Require().NoError(err)
	s.Require().Len(tr.Lines, 1)
	s.Equal("VAT20", tr.Lines[0].TaxCode)
	s.Equal("1", tr.Lines[0].ReportingBox)
	s.Equal("100.00", tr.Lines[0].NetTaxable.StringFixed(2))
	s.Equal("20.00", tr.Lines[0].TaxPosted.StringFixed(2))
	s.Equal("20.00", tr.Lines[0].TaxComputed.StringFixed(2))
	s.Equal("20.00", tr.TotalTaxPosted.StringFixed(2))

	empty, err := s.svc.Reporting.TaxReturn(s.ctx, tenant, s.day("2026-06-01"), s.day("2026-06-30"), 10)
	s.Require().NoError(err)
	s.Empty(empty.Lines)
}

func (s *LedgerFlowTestSuite) TestAddTaxedLine_RequiresCode() {
	inv := s.draft(domain.SalesInvoice, "2026-05-02")
	_, err := s.svc.Transaction.AddTaxedLine(s.ctx, tenant, inv.TransactionID,
		dto.AddTaxedLineRequest{LineRequest: line(s.sales, "100", domain.Credit), TaxAccountID: s.vat}, actor)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerFlowTestSuite) TestFiscalYear_Overlap() {
	_, err := s.svc.Period.CreateFiscalYear(s.ctx, tenant, dto.CreateFiscalYearRequest{
		Name: "Overlap", StartDate: "2026-07-01", EndDate: "2027-06-30",
	}, actor)
	s.ErrorIs(err, apperrors.ErrConflict)

	periods, err := s.svc.Period.ListPeriods(s.ctx, tenant, nil)
	s.Require().NoError(err)
	s.Len(periods, 12)
	s.Equal("2026-01", periods[0].Name)
}

func (s *LedgerFlowTestSuite) TestFiscalYear_ConcurrentOverlapOneWins() {
	ranges := [][2]string{{"2027-01-01", "2027-12-31"}, {"2027-04-01", "2028-03-31"}}
	errs := make([]error, len(ranges))
	var wg sync.WaitGroup
	for i, r := range ranges {
		wg.Add(1)
		go func(i int, start, end string) {
			defer wg.Done()
			_, errs[i] = s.svc.Period.CreateFiscalYear(s.ctx, tenant, dto.CreateFiscalYearRequest{
				Name: "FY" + start[:4] + "-" + start[5:7], StartDate: start, EndDate: end,
			}, actor)
		}(i, r[0], r[1])
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, apperrors.ErrConflict):
			conflicts++
		}
	}
	s.Equal(1, ok)
	s.Equal(1, conflicts)

	p, err := s.svc.Period.PeriodFor(s.ctx, tenant, s.day("2027-06-15"))
	s.Require().NoError(err)
	s.NotEmpty(p.PeriodID)
}

func (s *LedgerFlowTestSuite) TestFiscalYear_CustomPeriodsMustCoverYear() {
	_, err := s.svc.Period.CreateFiscalYear(s.ctx, tenant, dto.CreateFiscalYearRequest{
		Name: "FY2027", StartDate: "2027-01-01", EndDate: "2027-12-31",
		Periods: []dto.PeriodInput{
			{Name: "H1", StartDate: "2027-01-01", EndDate: "2027-06-30"},
			{Name: "H2", StartDate: "2027-07-02", EndDate: "2027-12-31"},
		},
	}, actor)
	s.ErrorIs(err, apperrors.ErrValidation)

	fy, err := s.svc.Period.CreateFiscalYear(s.ctx, tenant, dto.CreateFiscalYearRequest{
		Name: "FY2027", StartDate: "2027-01-01", EndDate: "2027-12-31",
		Periods: []dto.PeriodInput{
			{Name: "H1", StartDate: "2027-01-01", EndDate: "2027-06-30"},
			{Name: "H2", StartDate: "2027-07-01", EndDate: "2027-12-31"},
		},
	}, actor)
	s.Require().NoError(err)
	s.Len(fy.Periods, 2)
}

func (s *LedgerFlowTestSuite) TestPeriodLockIsAudited() {
	period, err := s.svc.Period.PeriodFor(s.ctx, tenant, s.day("2026-06-15"))
	s.Require().NoError(err)
	_, err = s.svc.Period.LockPeriod(s.ctx, tenant, period.PeriodID, actor)
	s.Require().NoError(err)
	// locking again is a no-op
	again, err := s.svc.Period.LockPeriod(s.ctx, tenant, period.PeriodID, actor)
	s.Require().NoError(err)
	s.Equal(domain.PeriodLocked, again.Status)

	events := s.store.AuditEvents(tenant)
	s.Require().Len(events, 1)
	s.Equal(domain.AuditPeriodLocked, events[0].EventType)
	s.Equal(period.PeriodID, events[0].EntityID)
}

func (s *LedgerFlowTestSuite) TestCalculateTax() {
	tax, err := s.svc.Tax.CalculateTax(s.ctx, tenant, "VAT20", decimal.RequireFromString("19.99"))
	s.Require().NoError(err)
	s.Equal("4.00", tax.StringFixed(2))

	_, err = s.svc.Tax.CalculateTax(s.ctx, tenant, "NOPE", decimal.NewFromInt(1))
	s.ErrorIs(err, apperrors.ErrNotFound)

	_, err = s.svc.Tax.CreateTaxCode(s.ctx, tenant, dto.CreateTaxCodeRequest{
		Code: "EX", Name: "Exempt", Rate: decimal.RequireFromString("0.05"), TaxType: domain.TaxExempt,
	}, actor)
	s.ErrorIs(err, apperrors.ErrValidation)
}
