package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthlyPeriods_CalendarYear(t *testing.T) {
	periods := MonthlyPeriods(day(2024, 1, 1), day(2024, 12, 31))

	require.Len(t, periods, 12)
	assert.Equal(t, "2024-01", periods[0].Name)
	assert.Equal(t, day(2024, 2, 29), periods[1].EndDate)
	assert.Equal(t, day(2024, 12, 31), periods[11].EndDate)
	for _, p := range periods {
		assert.Equal(t, PeriodOpen, p.Status)
	}

	fy := FiscalYear{StartDate: day(2024, 1, 1), EndDate: day(2024, 12, 31), Periods: periods}
	assert.NoError(t, fy.ValidateCalendar())
}

func TestMonthlyPeriods_ShortYearCutsLastPeriod(t *testing.T) {
	periods := MonthlyPeriods(day(2024, 4, 15), day(2024, 6, 30))

	require.Len(t, periods, 3)
	assert.Equal(t, day(2024, 5, 14), periods[0].EndDate)
	assert.Equal(t, day(2024, 6, 15), periods[2].StartDate)
	assert.Equal(t, day(2024, 6, 30), periods[2].EndDate)
}

func TestMonthlyPeriods_MonthEndStartDoesNotDrift(t *testing.T) {
	periods := MonthlyPeriods(day(2026, 1, 31), day(2026, 6, 30))

	require.Len(t, periods, 6)
	wantStarts := []time.Time{
		day(2026, 1, 31), day(2026, 2, 28), day(2026, 3, 31),
		day(2026, 4, 30), day(2026, 5, 31), day(2026, 6, 30),
	}
	names := make(map[string]bool)
	for i, p := range periods {
		assert.Equal(t, wantStarts[i], p.StartDate, "period %d", i)
		assert.False(t, names[p.Name], "duplicate period name %s", p.Name)
		names[p.Name] = true
	}
	assert.Equal(t, day(2026, 2, 27), periods[0].EndDate)
	assert.Equal(t, "2026-02", periods[1].Name)
	assert.Equal(t, day(2026, 6, 30), periods[5].EndDate)

	fy := FiscalYear{StartDate: day(2026, 1, 31), EndDate: day(2026, 6, 30), Periods: periods}
	assert.NoError(t, fy.ValidateCalendar())
}

func TestMonthlyPeriods_LeapDayStart(t *testing.T) {
	periods := MonthlyPeriods(day(2024, 2, 29), day(2025, 2, 27))

	require.Len(t, periods, 12)
	assert.Equal(t, day(2024, 3, 28), periods[0].EndDate)
	assert.Equal(t, day(2024, 3, 29), periods[1].StartDate)
	assert.Equal(t, day(2025, 1, 29), periods[11].StartDate)
	assert.Equal(t, day(2025, 2, 27), periods[11].EndDate)
}

func TestValidateCalendar_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		periods []Period
	}{
		{"no periods", nil},
		{"gap", []Period{
			{StartDate: day(2024, 1, 1), EndDate: day(2024, 6, 29)},
			{StartDate: day(2024, 7, 1), EndDate: day(2024, 12, 31)},
		}},
		{"overlap", []Period{
			{StartDate: day(2024, 1, 1), EndDate: day(2024, 7, 1)},
			{StartDate: day(2024, 7, 1), EndDate: day(2024, 12, 31)},
		}},
		{"short of year end", []Period{
			{StartDate: day(2024, 1, 1), EndDate: day(2024, 11, 30)},
		}},
		{"inverted period", []Period{
			{StartDate: day(2024, 12, 31), EndDate: day(2024, 1, 1)},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fy := FiscalYear{StartDate: day(2024, 1, 1), EndDate: day(2024, 12, 31), Periods: tt.periods}
			err := fy.ValidateCalendar()
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrValidation))
		})
	}
}

func TestPeriodContains_IgnoresTimeOfDay(t *testing.T) {
	p := Period{StartDate: day(2024, 3, 1), EndDate: day(2024, 3, 31), Status: PeriodOpen}

	assert.True(t, p.Contains(time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC)))
	assert.True(t, p.Contains(day(2024, 3, 1)))
	assert.False(t, p.Contains(day(2024, 4, 1)))
	assert.False(t, p.Contains(day(2024, 2, 29)))
}

func TestOverlaps(t *testing.T) {
	assert.True(t, Overlaps(day(2024, 1, 1), day(2024, 12, 31), day(2024, 12, 31), day(2025, 12, 30)))
	assert.False(t, Overlaps(day(2024, 1, 1), day(2024, 12, 31), day(2025, 1, 1), day(2025, 12, 31)))
}
