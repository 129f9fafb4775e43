package mapping

import (
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/models"
)

func ToModelFiscalYear(d domain.FiscalYear) models.FiscalYear {
	return models.FiscalYear{
		FiscalYearID: d.FiscalYearID,
		TenantID:     d.TenantID,
		Name:         d.Name,
		StartDate:    d.StartDate,
		EndDate:      d.EndDate,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFiscalYear converts a model FiscalYear without its periods.
func ToDomainFiscalYear(m models.FiscalYear) domain.FiscalYear {
	return domain.FiscalYear{
		FiscalYearID: m.FiscalYearID,
		TenantID:     m.TenantID,
		Name:         m.Name,
		StartDate:    domain.DateOnly(m.StartDate),
		EndDate:      domain.DateOnly(m.EndDate),
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

func ToModelPeriod(d domain.Period) models.Period {
	return models.Period{
		PeriodID:     d.PeriodID,
		FiscalYearID: d.FiscalYearID,
		TenantID:     d.TenantID,
		Name:         d.Name,
		StartDate:    d.StartDate,
		EndDate:      d.EndDate,
		Status:       string(d.Status),
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainPeriod(m models.Period) domain.Period {
	return domain.Period{
		PeriodID:     m.PeriodID,
		FiscalYearID: m.FiscalYearID,
		TenantID:     m.TenantID,
		Name:         m.Name,
		StartDate:    domain.DateOnly(m.StartDate),
		EndDate:      domain.DateOnly(m.EndDate),
		Status:       domain.PeriodStatus(m.Status),
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

func ToDomainPeriodSlice(ms []models.Period) []domain.Period {
	ds := make([]domain.Period, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPeriod(m)
	}
	return ds
}
