package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	accountRepo   portsrepo.AccountReader
	taxRepo       portsrepo.TaxCodeReader
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repo portsrepo.ReportingRepository, accountRepo portsrepo.AccountReader, taxRepo portsrepo.TaxCodeReader, opts ...BaseOption) portssvc.ReportingService {
	return &reportingService{
		BaseService:   newBaseService(opts...),
		reportingRepo: repo,
		accountRepo:   accountRepo,
		taxRepo:       taxRepo,
	}
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// visibleAccounts returns the tenant's accounts the caller may see, keyed by id.
func (s *reportingService) visibleAccounts(ctx context.Context, tenantID string, maxLevel int) (map[string]domain.Account, error) {
	all, err := s.accountRepo.ListAccounts(ctx, tenantID, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	visible := make(map[string]domain.Account, len(all))
	for _, acc := range all {
		if acc.VisibleTo(maxLevel) {
			visible[acc.AccountID] = acc
		}
	}
	return visible, nil
}

// balances loads visible accounts and their raw totals. Entries on accounts that are
// unknown or hidden contribute nothing.
func (s *reportingService) balances(ctx context.Context, filter domain.ReportFilter) ([]domain.Account, map[string]domain.AccountTotals, error) {
	visible, err := s.visibleAccounts(ctx, filter.TenantID, filter.MaxLevel)
	if err != nil {
		return nil, nil, err
	}
	totals, err := s.reportingRepo.SumEntriesByAccount(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to aggregate ledger entries: %w", err)
	}
	byAccount := make(map[string]domain.AccountTotals, len(totals))
	for _, t := range totals {
		if _, ok := visible[t.AccountID]; ok {
			byAccount[t.AccountID] = t
		}
	}
	accounts := make([]domain.Account, 0, len(visible))
	for _, acc := range visible {
		accounts = append(accounts, acc)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	return accounts, byAccount, nil
}

func validateRange(start, end time.Time) error {
	if domain.DateOnly(end).Before(domain.DateOnly(start)) {
		return apperrors.NewValidationError("endDate", "must not be before startDate")
	}
	return nil
}

func totalsOf(byAccount map[string]domain.AccountTotals, accountID string) (decimal.Decimal, decimal.Decimal) {
	t, ok := byAccount[accountID]
	if !ok {
		return decimal.Zero, decimal.Zero
	}
	return t.Debit, t.Credit
}

// TrialBalance generates a trial balance report for entries dated in [start, end]
func (s *reportingService) TrialBalance(ctx context.Context, tenantID string, start, end time.Time, maxLevel int, department *string) (*domain.TrialBalance, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	filter := domain.ReportFilter{TenantID: tenantID, StartDate: start, EndDate: end, MaxLevel: maxLevel, Department: department}
	accounts, byAccount, err := s.balances(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve trial balance data", slog.String("tenant_id", tenantID))
		return nil, err
	}

	tb := &domain.TrialBalance{
		StartDate:    domain.DateOnly(start),
		EndDate:      domain.DateOnly(end),
		Rows:         make([]domain.TrialBalanceRow, 0, len(accounts)),
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
	}
	for _, acc := range accounts {
		netDr, netCr := accounting.NetDebitCredit(totalsOf(byAccount, acc.AccountID))
		tb.Rows = append(tb.Rows, domain.TrialBalanceRow{
			AccountID:   acc.AccountID,
			Code:        acc.Code,
			AccountName: acc.Name,
			AccountType: acc.AccountType,
			Debit:       netDr,
			Credit:      netCr,
		})
		tb.TotalDebits = tb.TotalDebits.Add(netDr)
		tb.TotalCredits = tb.TotalCredits.Add(netCr)
	}

	s.LogInfo(ctx, "Trial balance report generated successfully",
		slog.String("tenant_id", tenantID),
		slog.Int("row_count", len(tb.Rows)),
		slog.Bool("balanced", tb.IsBalanced()))
	return tb, nil
}

// ProfitAndLoss generates a profit and loss report for entries dated in [start, end]
func (s *reportingService) ProfitAndLoss(ctx context.Context, tenantID string, start, end time.Time, maxLevel int, department *string) (*domain.ProfitAndLoss, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	filter := domain.ReportFilter{TenantID: tenantID, StartDate: start, EndDate: end, MaxLevel: maxLevel, Department: department}
	accounts, byAccount, err := s.balances(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve profit and loss data", slog.String("tenant_id", tenantID))
		return nil, err
	}

	pl := &domain.ProfitAndLoss{
		StartDate:    domain.DateOnly(start),
		EndDate:      domain.DateOnly(end),
		Income:       []domain.AccountAmount{},
		Expenses:     []domain.AccountAmount{},
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, acc := range accounts {
		switch acc.AccountType {
		case domain.Income:
			amt, err := normalAmount(acc, byAccount)
			if err != nil {
				return nil, err
			}
			pl.Income = append(pl.Income, amt)
			pl.TotalIncome = pl.TotalIncome.Add(amt.NetAmount)
		case domain.Expense:
			amt, err := normalAmount(acc, byAccount)
			if err != nil {
				return nil, err
			}
			pl.Expenses = append(pl.Expenses, amt)
			pl.TotalExpense = pl.TotalExpense.Add(amt.NetAmount)
		case domain.Asset, domain.Liability, domain.Equity:
		}
	}
	pl.NetProfit = pl.TotalIncome.Sub(pl.TotalExpense)

	s.LogInfo(ctx, "Profit and loss report generated successfully",
		slog.String("tenant_id", tenantID),
		slog.String("net_profit", pl.NetProfit.String()))
	return pl, nil
}

func normalAmount(acc domain.Account, byAccount map[string]domain.AccountTotals) (domain.AccountAmount, error) {
	dr, cr := totalsOf(byAccount, acc.AccountID)
	net, err := accounting.NormalBalance(acc.AccountType, dr, cr)
	if err != nil {
		return domain.AccountAmount{}, fmt.Errorf("account %s: %w", acc.Code, err)
	}
	return domain.AccountAmount{AccountID: acc.AccountID, Code: acc.Code, Name: acc.Name, NetAmount: net}, nil
}

// BalanceSheet generates a balance sheet as of asOf. Cumulative income minus expense
// is reported as a retained earnings row inside equity.
func (s *reportingService) BalanceSheet(ctx context.Context, tenantID string, asOf time.Time, maxLevel int, department *string) (*domain.BalanceSheet, error) {
	filter := domain.ReportFilter{TenantID: tenantID, EndDate: asOf, MaxLevel: maxLevel, Department: department}
	accounts, byAccount, err := s.balances(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve balance sheet data", slog.String("tenant_id", tenantID))
		return nil, err
	}

	bs := &domain.BalanceSheet{
		AsOf:             domain.DateOnly(asOf),
		Assets:           []domain.AccountAmount{},
		Liabilities:      []domain.AccountAmount{},
		Equity:           []domain.AccountAmount{},
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
		RetainedEarnings: decimal.Zero,
	}
	for _, acc := range accounts {
		amt, err := normalAmount(acc, byAccount)
		if err != nil {
			return nil, err
		}
		switch acc.AccountType {
		case domain.Asset:
			bs.Assets = append(bs.Assets, amt)
			bs.TotalAssets = bs.TotalAssets.Add(amt.NetAmount)
		case domain.Liability:
			bs.Liabilities = append(bs.Liabilities, amt)
			bs.TotalLiabilities = bs.TotalLiabilities.Add(amt.NetAmount)
		case domain.Equity:
			bs.Equity = append(bs.Equity, amt)
			bs.TotalEquity = bs.TotalEquity.Add(amt.NetAmount)
		case domain.Income:
			bs.RetainedEarnings = bs.RetainedEarnings.Add(amt.NetAmount)
		case domain.Expense:
			bs.RetainedEarnings = bs.RetainedEarnings.Sub(amt.NetAmount)
		}
	}
	bs.Equity = append(bs.Equity, domain.AccountAmount{
		AccountID: domain.RetainedEarningsAccountID,
		Name:      "Retained earnings",
		NetAmount: bs.RetainedEarnings,
	})
	bs.TotalEquity = bs.TotalEquity.Add(bs.RetainedEarnings)

	s.LogInfo(ctx, "Balance sheet report generated successfully",
		slog.String("tenant_id", tenantID),
		slog.String("as_of", bs.AsOf.Format("2006-01-02")),
		slog.Bool("balanced", bs.IsBalanced()))
	return bs, nil
}

// TaxReturn summarises tax-coded entries per code. Amounts are credit-positive so
// output tax on sales is positive and input tax on purchases negative.
func (s *reportingService) TaxReturn(ctx context.Context, tenantID string, start, end time.Time, maxLevel int) (*domain.TaxReturn, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	visible, err := s.visibleAccounts(ctx, tenantID, maxLevel)
	if err != nil {
		return nil, err
	}
	codes, err := s.taxRepo.ListTaxCodes(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tax codes: %w", err)
	}
	byCode := make(map[string]domain.TaxCode, len(codes))
	for _, c := range codes {
		byCode[c.Code] = c
	}
	filter := domain.ReportFilter{TenantID: tenantID, StartDate: start, EndDate: end, MaxLevel: maxLevel}
	totals, err := s.reportingRepo.SumTaxEntries(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve tax data", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to aggregate tax entries: %w", err)
	}

	lines := make(map[string]*domain.TaxReturnLine)
	for _, t := range totals {
		if _, ok := visible[t.AccountID]; !ok {
			continue
		}
		line, ok := lines[t.TaxCode]
		if !ok {
			tc := byCode[t.TaxCode]
			line = &domain.TaxReturnLine{
				TaxCode:      t.TaxCode,
				Name:         tc.Name,
				ReportingBox: tc.ReportingBox,
				TaxType:      tc.TaxType,
				Rate:         tc.Rate,
				NetTaxable:   decimal.Zero,
				TaxPosted:    decimal.Zero,
			}
			lines[t.TaxCode] = line
		}
		net := t.Credit.Sub(t.Debit)
		if t.IsTaxLine {
			line.TaxPosted = line.TaxPosted.Add(net)
		} else {
			line.NetTaxable = line.NetTaxable.Add(net)
		}
	}

	tr := &domain.TaxReturn{
		StartDate:        domain.DateOnly(start),
		EndDate:          domain.DateOnly(end),
		Lines:            make([]domain.TaxReturnLine, 0, len(lines)),
		TotalTaxPosted:   decimal.Zero,
		TotalTaxComputed: decimal.Zero,
	}
	for code, line := range lines {
		line.TaxComputed = accounting.ComputeTax(byCode[code], line.NetTaxable)
		tr.Lines = append(tr.Lines, *line)
		tr.TotalTaxPosted = tr.TotalTaxPosted.Add(line.TaxPosted)
		tr.TotalTaxComputed = tr.TotalTaxComputed.Add(line.TaxComputed)
	}
	sort.Slice(tr.Lines, func(i, j int) bool {
		if tr.Lines[i].ReportingBox != tr.Lines[j].ReportingBox {
			return tr.Lines[i].ReportingBox < tr.Lines[j].ReportingBox
		}
		return tr.Lines[i].TaxCode < tr.Lines[j].TaxCode
	})

	s.LogInfo(ctx, "Tax return generated successfully",
		slog.String("tenant_id", tenantID),
		slog.Int("codes", len(tr.Lines)))
	return tr, nil
}
