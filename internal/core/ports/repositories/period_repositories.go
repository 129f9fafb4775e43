package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// PeriodReader defines read operations for the fiscal calendar
type PeriodReader interface {
	// FindPeriodForDate returns the single period of the tenant containing date.
	FindPeriodForDate(ctx context.Context, tenantID string, date time.Time) (*domain.Period, error)

	// FindPeriodByID retrieves a period by id.
	FindPeriodByID(ctx context.Context, tenantID, periodID string) (*domain.Period, error)

	// ListPeriods lists periods ordered by start date, optionally restricted to one fiscal year.
	ListPeriods(ctx context.Context, tenantID string, fiscalYearID *string) ([]domain.Period, error)

	// ListFiscalYears lists fiscal years ordered by start date, without their periods.
	ListFiscalYears(ctx context.Context, tenantID string) ([]domain.FiscalYear, error)

	// FindOverlappingFiscalYears returns the tenant's fiscal years sharing a day with [start, end].
	FindOverlappingFiscalYears(ctx context.Context, tenantID string, start, end time.Time) ([]domain.FiscalYear, error)
}

// PeriodWriter defines write operations for the fiscal calendar
type PeriodWriter interface {
	// SaveFiscalYear persists a fiscal year together with its periods.
	SaveFiscalYear(ctx context.Context, fiscalYear domain.FiscalYear) error

	// UpdatePeriodStatus opens or locks a period.
	UpdatePeriodStatus(ctx context.Context, tenantID, periodID string, status domain.PeriodStatus, userID string, now time.Time) error
}

// PeriodTransactionSupport defines locking reads used inside a unit of work
type PeriodTransactionSupport interface {
	// FindPeriodForDateForShare returns the period containing date and holds a shared lock on it
	// so it cannot be locked until the unit of work ends.
	FindPeriodForDateForShare(ctx context.Context, tenantID string, date time.Time) (*domain.Period, error)
}

// PeriodRepositoryFacade combines all period-related repository interfaces
type PeriodRepositoryFacade interface {
	PeriodReader
	PeriodWriter
	PeriodTransactionSupport
}
