package mapping

import (
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/models"
)

func ToModelTaxCode(d domain.TaxCode) models.TaxCode {
	return models.TaxCode{
		TenantID:     d.TenantID,
		Code:         d.Code,
		Name:         d.Name,
		Rate:         d.Rate,
		TaxType:      string(d.TaxType),
		ReportingBox: d.ReportingBox,
		IsActive:     d.IsActive,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainTaxCode(m models.TaxCode) domain.TaxCode {
	return domain.TaxCode{
		TenantID:     m.TenantID,
		Code:         m.Code,
		Name:         m.Name,
		Rate:         m.Rate,
		TaxType:      domain.TaxType(m.TaxType),
		ReportingBox: m.ReportingBox,
		IsActive:     m.IsActive,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
