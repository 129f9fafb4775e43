package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
)

// PeriodReaderSvc resolves dates to periods
type PeriodReaderSvc interface {
	// PeriodFor returns the period covering date. A missing period is apperrors.ErrNotFound.
	PeriodFor(ctx context.Context, tenantID string, date time.Time) (*domain.Period, error)
	ListFiscalYears(ctx context.Context, tenantID string) ([]domain.FiscalYear, error)
	ListPeriods(ctx context.Context, tenantID string, fiscalYearID *string) ([]domain.Period, error)
}

// PeriodAdminSvc maintains the fiscal calendar
type PeriodAdminSvc interface {
	CreateFiscalYear(ctx context.Context, tenantID string, req dto.CreateFiscalYearRequest, userID string) (*domain.FiscalYear, error)
	LockPeriod(ctx context.Context, tenantID string, periodID string, userID string) (*domain.Period, error)
	UnlockPeriod(ctx context.Context, tenantID string, periodID string, userID string) (*domain.Period, error)
}

type PeriodSvcFacade interface {
	PeriodReaderSvc
	PeriodAdminSvc
}
