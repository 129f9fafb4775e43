package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportFilter scopes a report to a tenant, an inclusive date range, a visibility level and an optional department.
type ReportFilter struct {
	TenantID   string
	StartDate  time.Time // zero value means from the beginning
	EndDate    time.Time
	MaxLevel   int
	Department *string
}

// AccountTotals is the raw debit and credit sum of one account's entries.
type AccountTotals struct {
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// TrialBalanceRow represents a single row in a trial balance report
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

type TrialBalance struct {
	StartDate    time.Time         `json:"startDate"`
	EndDate      time.Time         `json:"endDate"`
	Rows         []TrialBalanceRow `json:"rows"`
	TotalDebits  decimal.Decimal   `json:"totalDebits"`
	TotalCredits decimal.Decimal   `json:"totalCredits"`
}

func (tb TrialBalance) IsBalanced() bool {
	return tb.TotalDebits.Equal(tb.TotalCredits)
}

// AccountAmount represents an account with its net amount for financial reports
type AccountAmount struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	NetAmount decimal.Decimal `json:"netAmount"`
}

// ProfitAndLoss represents a profit and loss report
type ProfitAndLoss struct {
	StartDate    time.Time       `json:"startDate"`
	EndDate      time.Time       `json:"endDate"`
	Income       []AccountAmount `json:"income"`
	Expenses     []AccountAmount `json:"expenses"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	NetProfit    decimal.Decimal `json:"netProfit"` // TotalIncome - TotalExpense
}

// RetainedEarningsAccountID identifies the computed equity row of a balance sheet.
const RetainedEarningsAccountID = "retained-earnings"

// BalanceSheet represents a balance sheet report
type BalanceSheet struct {
	AsOf             time.Time       `json:"asOf"`
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"` // includes retained earnings
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	RetainedEarnings decimal.Decimal `json:"retainedEarnings"`
}

func (bs BalanceSheet) IsBalanced() bool {
	return bs.TotalAssets.Equal(bs.TotalLiabilities.Add(bs.TotalEquity))
}

// TaxAccountTotals is the raw entry sum for one tax code, account and line kind.
type TaxAccountTotals struct {
	TaxCode   string          `json:"taxCode"`
	AccountID string          `json:"accountID"`
	IsTaxLine bool            `json:"isTaxLine"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// TaxReturnLine summarises one tax code. Amounts are credit-positive: output tax positive, input tax negative.
type TaxReturnLine struct {
	TaxCode      string          `json:"taxCode"`
	Name         string          `json:"name"`
	ReportingBox string          `json:"reportingBox"`
	TaxType      TaxType         `json:"taxType"`
	Rate         decimal.Decimal `json:"rate"`
	NetTaxable   decimal.Decimal `json:"netTaxable"`
	TaxPosted    decimal.Decimal `json:"taxPosted"`
	TaxComputed  decimal.Decimal `json:"taxComputed"`
}

type TaxReturn struct {
	StartDate        time.Time       `json:"startDate"`
	EndDate          time.Time       `json:"endDate"`
	Lines            []TaxReturnLine `json:"lines"`
	TotalTaxPosted   decimal.Decimal `json:"totalTaxPosted"`
	TotalTaxComputed decimal.Decimal `json:"totalTaxComputed"`
}
