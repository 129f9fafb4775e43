package dto

import (
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportRangeParams are the query parameters of period reports.
type ReportRangeParams struct {
	StartDate  string  `form:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate    string  `form:"endDate" binding:"required,datetime=2006-01-02"`
	Department *string `form:"department" binding:"omitempty,max=64"`
}

// ReportAsOfParams are the query parameters of point-in-time reports.
type ReportAsOfParams struct {
	AsOf       string  `form:"asOf" binding:"required,datetime=2006-01-02"`
	Department *string `form:"department" binding:"omitempty,max=64"`
}

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	AccountName string          `json:"accountName"`
	AccountType string          `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	StartDate string                    `json:"startDate"`
	EndDate   string                    `json:"endDate"`
	Rows      []TrialBalanceRowResponse `json:"rows"`
	Totals    struct {
		Debit  decimal.Decimal `json:"debit"`
		Credit decimal.Decimal `json:"credit"`
	} `json:"totals"`
	IsBalanced bool `json:"isBalanced"`
}

// AccountAmountResponse represents an account with its amount in a financial report
type AccountAmountResponse struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

// ProfitAndLossResponse represents the profit and loss report response
type ProfitAndLossResponse struct {
	StartDate string                  `json:"startDate"`
	EndDate   string                  `json:"endDate"`
	Income    []AccountAmountResponse `json:"income"`
	Expenses  []AccountAmountResponse `json:"expenses"`
	Summary   struct {
		TotalIncome  decimal.Decimal `json:"totalIncome"`
		TotalExpense decimal.Decimal `json:"totalExpense"`
		NetProfit    decimal.Decimal `json:"netProfit"`
	} `json:"summary"`
}

// BalanceSheetResponse represents the balance sheet report response
type BalanceSheetResponse struct {
	AsOf        string                  `json:"asOf"`
	Assets      []AccountAmountResponse `json:"assets"`
	Liabilities []AccountAmountResponse `json:"liabilities"`
	Equity      []AccountAmountResponse `json:"equity"`
	Summary     struct {
		TotalAssets      decimal.Decimal `json:"totalAssets"`
		TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
		TotalEquity      decimal.Decimal `json:"totalEquity"`
		RetainedEarnings decimal.Decimal `json:"retainedEarnings"`
	} `json:"summary"`
	IsBalanced bool `json:"isBalanced"`
}

type TaxReturnResponse struct {
	StartDate        string                 `json:"startDate"`
	EndDate          string                 `json:"endDate"`
	Lines            []domain.TaxReturnLine `json:"lines"`
	TotalTaxPosted   decimal.Decimal        `json:"totalTaxPosted"`
	TotalTaxComputed decimal.Decimal        `json:"totalTaxComputed"`
}

func toAccountAmountResponses(rows []domain.AccountAmount) []AccountAmountResponse {
	res := make([]AccountAmountResponse, len(rows))
	for i, r := range rows {
		res[i] = AccountAmountResponse{AccountID: r.AccountID, Code: r.Code, Name: r.Name, Amount: r.NetAmount}
	}
	return res
}

func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	var res TrialBalanceResponse
	res.StartDate = formatReportDate(tb.StartDate)
	res.EndDate = tb.EndDate.Format(DateLayout)
	res.Rows = make([]TrialBalanceRowResponse, len(tb.Rows))
	for i, r := range tb.Rows {
		res.Rows[i] = TrialBalanceRowResponse{
			AccountID:   r.AccountID,
			Code:        r.Code,
			AccountName: r.AccountName,
			AccountType: string(r.AccountType),
			Debit:       r.Debit,
			Credit:      r.Credit,
		}
	}
	res.Totals.Debit = tb.TotalDebits
	res.Totals.Credit = tb.TotalCredits
	res.IsBalanced = tb.IsBalanced()
	return res
}

func ToProfitAndLossResponse(pl *domain.ProfitAndLoss) ProfitAndLossResponse {
	var res ProfitAndLossResponse
	res.StartDate = formatReportDate(pl.StartDate)
	res.EndDate = pl.EndDate.Format(DateLayout)
	res.Income = toAccountAmountResponses(pl.Income)
	res.Expenses = toAccountAmountResponses(pl.Expenses)
	res.Summary.TotalIncome = pl.TotalIncome
	res.Summary.TotalExpense = pl.TotalExpense
	res.Summary.NetProfit = pl.NetProfit
	return res
}

func ToBalanceSheetResponse(bs *domain.BalanceSheet) BalanceSheetResponse {
	var res BalanceSheetResponse
	res.AsOf = bs.AsOf.Format(DateLayout)
	res.Assets = toAccountAmountResponses(bs.Assets)
	res.Liabilities = toAccountAmountResponses(bs.Liabilities)
	res.Equity = toAccountAmountResponses(bs.Equity)
	res.Summary.TotalAssets = bs.TotalAssets
	res.Summary.TotalLiabilities = bs.TotalLiabilities
	res.Summary.TotalEquity = bs.TotalEquity
	res.Summary.RetainedEarnings = bs.RetainedEarnings
	res.IsBalanced = bs.IsBalanced()
	return res
}

func ToTaxReturnResponse(tr *domain.TaxReturn) TaxReturnResponse {
	return TaxReturnResponse{
		StartDate:        formatReportDate(tr.StartDate),
		EndDate:          tr.EndDate.Format(DateLayout),
		Lines:            tr.Lines,
		TotalTaxPosted:   tr.TotalTaxPosted,
		TotalTaxComputed: tr.TotalTaxComputed,
	}
}

func formatReportDate(d time.Time) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}
