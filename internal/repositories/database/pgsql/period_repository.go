package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/models"
	"github.com/SscSPs/ledger_core/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

type PgxPeriodRepository struct {
	BaseRepository
}

var _ portsrepo.PeriodRepositoryFacade = (*PgxPeriodRepository)(nil)

const (
	periodColumns     = `period_id, fiscal_year_id, tenant_id, name, start_date, end_date, status, created_at, created_by, last_updated_at, last_updated_by`
	fiscalYearColumns = `fiscal_year_id, tenant_id, name, start_date, end_date, created_at, created_by, last_updated_at, last_updated_by`
)

func (r *PgxPeriodRepository) FindPeriodForDate(ctx context.Context, tenantID string, date time.Time) (*domain.Period, error) {
	return r.periodForDate(ctx, tenantID, date, "")
}

// FindPeriodForDateForShare holds a FOR SHARE lock so a concurrent lock request waits for this unit of work.
func (r *PgxPeriodRepository) FindPeriodForDateForShare(ctx context.Context, tenantID string, date time.Time) (*domain.Period, error) {
	return r.periodForDate(ctx, tenantID, date, "FOR SHARE")
}

func (r *PgxPeriodRepository) periodForDate(ctx context.Context, tenantID string, date time.Time, lock string) (*domain.Period, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM periods
		WHERE tenant_id = $1 AND start_date <= $2 AND end_date >= $2
		` + lock + `;`
	what := fmt.Sprintf("period covering %s", date.Format("2006-01-02"))
	rows, err := r.db.Query(ctx, query, tenantID, domain.DateOnly(date))
	if err != nil {
		return nil, wrapErr(err, what)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Period])
	if err != nil {
		return nil, wrapErr(err, what)
	}
	p := mapping.ToDomainPeriod(m)
	return &p, nil
}

func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, tenantID, periodID string) (*domain.Period, error) {
	query := `SELECT ` + periodColumns + ` FROM periods WHERE tenant_id = $1 AND period_id = $2;`
	what := fmt.Sprintf("period %s", periodID)
	rows, err := r.db.Query(ctx, query, tenantID, periodID)
	if err != nil {
		return nil, wrapErr(err, what)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Period])
	if err != nil {
		return nil, wrapErr(err, what)
	}
	p := mapping.ToDomainPeriod(m)
	return &p, nil
}

func (r *PgxPeriodRepository) ListPeriods(ctx context.Context, tenantID string, fiscalYearID *string) ([]domain.Period, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM periods
		WHERE tenant_id = $1 AND ($2::varchar IS NULL OR fiscal_year_id = $2)
		ORDER BY start_date;
	`
	rows, err := r.db.Query(ctx, query, tenantID, fiscalYearID)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Period])
	if err != nil {
		return nil, fmt.Errorf("failed to scan periods: %w", err)
	}
	return mapping.ToDomainPeriodSlice(ms), nil
}

func (r *PgxPeriodRepository) ListFiscalYears(ctx context.Context, tenantID string) ([]domain.FiscalYear, error) {
	query := `SELECT ` + fiscalYearColumns + ` FROM fiscal_years WHERE tenant_id = $1 ORDER BY start_date;`
	return r.fiscalYears(ctx, query, tenantID)
}

// FindOverlappingFiscalYears first takes the tenant's calendar advisory lock, so two units
// of work creating overlapping years run one after the other. FOR UPDATE alone cannot see
// a year another transaction has not committed yet.
func (r *PgxPeriodRepository) FindOverlappingFiscalYears(ctx context.Context, tenantID string, start, end time.Time) ([]domain.FiscalYear, error) {
	if _, err := r.db.Exec(ctx, lockCalendarSQL, tenantID); err != nil {
		return nil, wrapErr(err, "fiscal calendar of tenant "+tenantID)
	}
	query := `
		SELECT ` + fiscalYearColumns + `
		FROM fiscal_years
		WHERE tenant_id = $1 AND start_date <= $3 AND end_date >= $2
		ORDER BY start_date
		FOR UPDATE;
	`
	return r.fiscalYears(ctx, query, tenantID, domain.DateOnly(start), domain.DateOnly(end))
}

// lockCalendarSQL holds until the surrounding transaction ends.
const lockCalendarSQL = `SELECT pg_advisory_xact_lock(hashtext('fiscal_calendar:' || $1::text));`

func (r *PgxPeriodRepository) fiscalYears(ctx context.Context, query string, args ...any) ([]domain.FiscalYear, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query fiscal years: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.FiscalYear])
	if err != nil {
		return nil, fmt.Errorf("failed to scan fiscal years: %w", err)
	}
	out := make([]domain.FiscalYear, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainFiscalYear(m)
	}
	return out, nil
}

// SaveFiscalYear inserts the year and all of its periods in one batch.
func (r *PgxPeriodRepository) SaveFiscalYear(ctx context.Context, fiscalYear domain.FiscalYear) error {
	fy := mapping.ToModelFiscalYear(fiscalYear)
	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO fiscal_years (`+fiscalYearColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`,
		fy.FiscalYearID, fy.TenantID, fy.Name, fy.StartDate, fy.EndDate,
		fy.CreatedAt, fy.CreatedBy, fy.LastUpdatedAt, fy.LastUpdatedBy)
	for _, p := range fiscalYear.Periods {
		m := mapping.ToModelPeriod(p)
		batch.Queue(`
			INSERT INTO periods (`+periodColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`,
			m.PeriodID, m.FiscalYearID, m.TenantID, m.Name, m.StartDate, m.EndDate, m.Status,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	}
	return r.execBatch(ctx, batch, "fiscal year "+fy.Name)
}

func (r *PgxPeriodRepository) UpdatePeriodStatus(ctx context.Context, tenantID, periodID string, status domain.PeriodStatus, userID string, now time.Time) error {
	query := `
		UPDATE periods
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE tenant_id = $1 AND period_id = $2;
	`
	ct, err := r.db.Exec(ctx, query, tenantID, periodID, string(status), now, userID)
	if err != nil {
		return wrapErr(err, "period "+periodID)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("period %s not found", periodID))
	}
	return nil
}
