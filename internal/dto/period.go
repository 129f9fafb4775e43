package dto

import (
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// DateLayout is the calendar-date format used on the wire.
const DateLayout = "2006-01-02"

// ParseDate parses a wire date, reporting failures as validation errors on field.
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError(field, "must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

// PeriodInput is one period of a fiscal year creation request.
type PeriodInput struct {
	Name      string `json:"name" binding:"required,max=64"`
	StartDate string `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" binding:"required,datetime=2006-01-02"`
}

// CreateFiscalYearRequest creates a fiscal year. When Periods is empty, one period per calendar month is generated.
type CreateFiscalYearRequest struct {
	Name      string        `json:"name" binding:"required,max=64"`
	StartDate string        `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate   string        `json:"endDate" binding:"required,datetime=2006-01-02"`
	Periods   []PeriodInput `json:"periods" binding:"omitempty,dive"`
}

type PeriodResponse struct {
	PeriodID     string              `json:"periodID"`
	FiscalYearID string              `json:"fiscalYearID"`
	Name         string              `json:"name"`
	StartDate    string              `json:"startDate"`
	EndDate      string              `json:"endDate"`
	Status       domain.PeriodStatus `json:"status"`
}

type FiscalYearResponse struct {
	FiscalYearID string           `json:"fiscalYearID"`
	Name         string           `json:"name"`
	StartDate    string           `json:"startDate"`
	EndDate      string           `json:"endDate"`
	Periods      []PeriodResponse `json:"periods,omitempty"`
}

func ToPeriodResponse(p *domain.Period) PeriodResponse {
	return PeriodResponse{
		PeriodID:     p.PeriodID,
		FiscalYearID: p.FiscalYearID,
		Name:         p.Name,
		StartDate:    p.StartDate.Format(DateLayout),
		EndDate:      p.EndDate.Format(DateLayout),
		Status:       p.Status,
	}
}

func ToPeriodResponses(periods []domain.Period) []PeriodResponse {
	res := make([]PeriodResponse, len(periods))
	for i := range periods {
		res[i] = ToPeriodResponse(&periods[i])
	}
	return res
}

func ToFiscalYearResponse(fy *domain.FiscalYear) FiscalYearResponse {
	res := FiscalYearResponse{
		FiscalYearID: fy.FiscalYearID,
		Name:         fy.Name,
		StartDate:    fy.StartDate.Format(DateLayout),
		EndDate:      fy.EndDate.Format(DateLayout),
	}
	if len(fy.Periods) > 0 {
		res.Periods = ToPeriodResponses(fy.Periods)
	}
	return res
}

// ListPeriodsParams filters the period listing.
type ListPeriodsParams struct {
	FiscalYearID *string `form:"fiscalYearID" binding:"omitempty,uuid"`
}
