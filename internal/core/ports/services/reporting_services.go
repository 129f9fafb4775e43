package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// ReportingService defines operations for generating financial reports.
// Only accounts whose security level is at most maxLevel are included.
type ReportingService interface {
	// TrialBalance generates a trial balance for entries dated in [start, end]
	TrialBalance(ctx context.Context, tenantID string, start, end time.Time, maxLevel int, department *string) (*domain.TrialBalance, error)

	// ProfitAndLoss generates a profit and loss report for entries dated in [start, end]
	ProfitAndLoss(ctx context.Context, tenantID string, start, end time.Time, maxLevel int, department *string) (*domain.ProfitAndLoss, error)

	// BalanceSheet generates a balance sheet report as of a specific date
	BalanceSheet(ctx context.Context, tenantID string, asOf time.Time, maxLevel int, department *string) (*domain.BalanceSheet, error)

	// TaxReturn summarises tax-coded entries per code and recomputes the tax due
	TaxReturn(ctx context.Context, tenantID string, start, end time.Time, maxLevel int) (*domain.TaxReturn, error)
}
