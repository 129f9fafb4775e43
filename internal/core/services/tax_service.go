package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

type taxService struct {
	BaseService
	taxRepo portsrepo.TaxCodeRepositoryFacade
}

func NewTaxService(repo portsrepo.TaxCodeRepositoryFacade, opts ...BaseOption) portssvc.TaxSvcFacade {
	return &taxService{
		BaseService: newBaseService(opts...),
		taxRepo:     repo,
	}
}

var _ portssvc.TaxSvcFacade = (*taxService)(nil)

// ValidateTaxCode checks type, rate bounds and scale of a tax code.
func ValidateTaxCode(tc domain.TaxCode) error {
	if strings.TrimSpace(tc.Code) == "" {
		return apperrors.NewValidationError("code", "is required")
	}
	if !tc.TaxType.Valid() {
		return apperrors.NewValidationError("taxType", "must be one of STANDARD, ZERO_RATED, EXEMPT, OUT_OF_SCOPE")
	}
	if tc.Rate.IsNegative() || tc.Rate.GreaterThan(decimal.NewFromInt(1)) {
		return apperrors.NewValidationError("rate", "must be between 0 and 1")
	}
	if !accounting.NormalizeRate(tc.Rate).Equal(tc.Rate) {
		return apperrors.NewValidationError("rate", "must have at most 4 decimal places")
	}
	if tc.TaxType != domain.TaxStandard && !tc.Rate.IsZero() {
		return apperrors.NewValidationError("rate", "must be 0 for non-STANDARD tax types")
	}
	return nil
}

func (s *taxService) CreateTaxCode(ctx context.Context, tenantID string, req dto.CreateTaxCodeRequest, userID string) (*domain.TaxCode, error) {
	tc := domain.TaxCode{
		TenantID:     tenantID,
		Code:         strings.TrimSpace(req.Code),
		Name:         req.Name,
		Rate:         req.Rate,
		TaxType:      req.TaxType,
		ReportingBox: req.ReportingBox,
		IsActive:     true,
		AuditFields:  domain.NewAuditFields(userID, s.now()),
	}
	if err := ValidateTaxCode(tc); err != nil {
		return nil, err
	}
	if err := s.taxRepo.SaveTaxCode(ctx, tc); err != nil {
		s.LogError(ctx, err, "Failed to save tax code", slog.String("code", tc.Code))
		return nil, err
	}
	s.LogInfo(ctx, "Tax code created",
		slog.String("code", tc.Code),
		slog.String("rate", tc.Rate.String()))
	return &tc, nil
}

func (s *taxService) GetTaxCode(ctx context.Context, tenantID string, code string) (*domain.TaxCode, error) {
	return s.taxRepo.FindTaxCode(ctx, tenantID, code)
}

func (s *taxService) ListTaxCodes(ctx context.Context, tenantID string) ([]domain.TaxCode, error) {
	return s.taxRepo.ListTaxCodes(ctx, tenantID)
}

func (s *taxService) CalculateTax(ctx context.Context, tenantID string, code string, amount decimal.Decimal) (decimal.Decimal, error) {
	tc, err := s.taxRepo.FindTaxCode(ctx, tenantID, code)
	if err != nil {
		return decimal.Zero, err
	}
	return accounting.ComputeTax(*tc, amount), nil
}
