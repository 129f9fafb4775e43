package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
)

func (r *repo) FindPeriodForDate(_ context.Context, tenantID string, date time.Time) (*domain.Period, error) {
	defer r.rlock()()
	return r.periodForDate(tenantID, date)
}

// FindPeriodForDateForShare needs no extra locking here: the unit of work already holds the store lock.
func (r *repo) FindPeriodForDateForShare(_ context.Context, tenantID string, date time.Time) (*domain.Period, error) {
	defer r.rlock()()
	return r.periodForDate(tenantID, date)
}

func (r *repo) periodForDate(tenantID string, date time.Time) (*domain.Period, error) {
	for _, p := range r.s.st.periods {
		if p.TenantID == tenantID && p.Contains(date) {
			return &p, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("no period covers %s", date.Format("2006-01-02")))
}

func (r *repo) FindPeriodByID(_ context.Context, tenantID, periodID string) (*domain.Period, error) {
	defer r.rlock()()
	p, ok := r.s.st.periods[periodID]
	if !ok || p.TenantID != tenantID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("period %s not found", periodID))
	}
	return &p, nil
}

func (r *repo) ListPeriods(_ context.Context, tenantID string, fiscalYearID *string) ([]domain.Period, error) {
	defer r.rlock()()
	out := []domain.Period{}
	for _, p := range r.s.st.periods {
		if p.TenantID != tenantID || (fiscalYearID != nil && p.FiscalYearID != *fiscalYearID) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (r *repo) ListFiscalYears(_ context.Context, tenantID string) ([]domain.FiscalYear, error) {
	defer r.rlock()()
	out := []domain.FiscalYear{}
	for _, fy := range r.s.st.fiscalYears {
		if fy.TenantID == tenantID {
			out = append(out, fy)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (r *repo) FindOverlappingFiscalYears(_ context.Context, tenantID string, start, end time.Time) ([]domain.FiscalYear, error) {
	defer r.rlock()()
	var out []domain.FiscalYear
	for _, fy := range r.s.st.fiscalYears {
		if fy.TenantID == tenantID && domain.Overlaps(fy.StartDate, fy.EndDate, start, end) {
			out = append(out, fy)
		}
	}
	return out, nil
}

func (r *repo) SaveFiscalYear(_ context.Context, fiscalYear domain.FiscalYear) error {
	defer r.lock()()
	periods := fiscalYear.Periods
	fiscalYear.Periods = nil
	r.s.st.fiscalYears[fiscalYear.FiscalYearID] = fiscalYear
	for _, p := range periods {
		r.s.st.periods[p.PeriodID] = p
	}
	return nil
}

func (r *repo) UpdatePeriodStatus(_ context.Context, tenantID, periodID string, status domain.PeriodStatus, userID string, now time.Time) error {
	defer r.lock()()
	p, ok := r.s.st.periods[periodID]
	if !ok || p.TenantID != tenantID {
		return apperrors.NewNotFoundError(fmt.Sprintf("period %s not found", periodID))
	}
	p.Status = status
	p.Touch(userID, now)
	r.s.st.periods[periodID] = p
	return nil
}
