package models

import "time"

type FiscalYear struct {
	FiscalYearID string    `db:"fiscal_year_id"`
	TenantID     string    `db:"tenant_id"`
	Name         string    `db:"name"`
	StartDate    time.Time `db:"start_date"`
	EndDate      time.Time `db:"end_date"`
	AuditFields
}

// Period is a row of the periods table. Dates are inclusive.
type Period struct {
	PeriodID     string    `db:"period_id"`
	FiscalYearID string    `db:"fiscal_year_id"`
	TenantID     string    `db:"tenant_id"`
	Name         string    `db:"name"`
	StartDate    time.Time `db:"start_date"`
	EndDate      time.Time `db:"end_date"`
	Status       string    `db:"status"`
	AuditFields
}
