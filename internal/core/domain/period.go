package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
)

// PeriodStatus is the posting status of an accounting period.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodLocked PeriodStatus = "LOCKED"
)

// Valid reports whether s is a known period status.
func (s PeriodStatus) Valid() bool {
	switch s {
	case PeriodOpen, PeriodLocked:
		return true
	}
	return false
}

// FiscalYear groups the ordered, contiguous periods of a tenant's financial year.
type FiscalYear struct {
	FiscalYearID string    `json:"fiscalYearID"`
	TenantID     string    `json:"tenantID"`
	Name         string    `json:"name"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"` // inclusive
	Periods      []Period  `json:"periods,omitempty"`
	AuditFields
}

// Period is a date range inside a fiscal year that is either open or locked for posting.
type Period struct {
	PeriodID     string       `json:"periodID"`
	FiscalYearID string       `json:"fiscalYearID"`
	TenantID     string       `json:"tenantID"`
	Name         string       `json:"name"`
	StartDate    time.Time    `json:"startDate"`
	EndDate      time.Time    `json:"endDate"` // inclusive
	Status       PeriodStatus `json:"status"`
	AuditFields
}

// IsOpen reports whether entries may be posted into the period.
func (p Period) IsOpen() bool {
	return p.Status == PeriodOpen
}

// Contains reports whether date falls inside the period, comparing calendar dates.
func (p Period) Contains(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(p.StartDate)) && !d.After(DateOnly(p.EndDate))
}

// Overlaps reports whether the two inclusive date ranges share at least one day.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !DateOnly(aEnd).Before(DateOnly(bStart)) && !DateOnly(bEnd).Before(DateOnly(aStart))
}

// ValidateCalendar checks that the periods are ordered, contiguous and non-overlapping
// and that together they cover the fiscal year exactly.
func (fy FiscalYear) ValidateCalendar() error {
	start, end := DateOnly(fy.StartDate), DateOnly(fy.EndDate)
	if end.Before(start) {
		return apperrors.NewValidationError("endDate", "must not be before startDate")
	}
	if len(fy.Periods) == 0 {
		return apperrors.NewValidationError("periods", "at least one period is required")
	}
	expected := start
	for i, p := range fy.Periods {
		ps, pe := DateOnly(p.StartDate), DateOnly(p.EndDate)
		if pe.Before(ps) {
			return apperrors.NewValidationError(fmt.Sprintf("periods[%d]", i), "ends before it starts")
		}
		if !ps.Equal(expected) {
			return apperrors.NewValidationError(fmt.Sprintf("periods[%d]", i),
				fmt.Sprintf("must start on %s", expected.Format("2006-01-02")))
		}
		expected = pe.AddDate(0, 0, 1)
	}
	if !expected.Equal(end.AddDate(0, 0, 1)) {
		return apperrors.NewValidationError("periods", fmt.Sprintf("must end on %s", end.Format("2006-01-02")))
	}
	return nil
}

// MonthlyPeriods splits [start, end] into month-long periods starting on start's day.
// In months shorter than that day the boundary falls on the month's last day. The last
// period is cut short at end.
func MonthlyPeriods(start, end time.Time) []Period {
	start, end = DateOnly(start), DateOnly(end)
	var periods []Period
	for i, ps := 0, start; !ps.After(end); i++ {
		next := addMonthsClamped(start, i+1)
		pe := next.AddDate(0, 0, -1)
		if pe.After(end) {
			pe = end
		}
		periods = append(periods, Period{
			Name:      ps.Format("2006-01"),
			StartDate: ps,
			EndDate:   pe,
			Status:    PeriodOpen,
		})
		ps = next
	}
	return periods
}

// addMonthsClamped moves t by n calendar months without overflowing into the following month.
func addMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, t.Location())
}
