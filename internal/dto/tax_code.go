package dto

import (
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTaxCodeRequest defines a new tax code. Rate is a fraction (0.2 for 20%).
type CreateTaxCodeRequest struct {
	Code         string          `json:"code" binding:"required,max=16"`
	Name         string          `json:"name" binding:"required,max=255"`
	Rate         decimal.Decimal `json:"rate"`
	TaxType      domain.TaxType  `json:"taxType" binding:"required,oneof=STANDARD ZERO_RATED EXEMPT OUT_OF_SCOPE"`
	ReportingBox string          `json:"reportingBox" binding:"max=32"`
}

type TaxCodeResponse struct {
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Rate         decimal.Decimal `json:"rate"`
	TaxType      domain.TaxType  `json:"taxType"`
	ReportingBox string          `json:"reportingBox"`
	IsActive     bool            `json:"isActive"`
}

func ToTaxCodeResponse(tc *domain.TaxCode) TaxCodeResponse {
	return TaxCodeResponse{
		Code:         tc.Code,
		Name:         tc.Name,
		Rate:         tc.Rate.Round(domain.TaxRateScale),
		TaxType:      tc.TaxType,
		ReportingBox: tc.ReportingBox,
		IsActive:     tc.IsActive,
	}
}

func ToTaxCodeResponses(codes []domain.TaxCode) []TaxCodeResponse {
	res := make([]TaxCodeResponse, len(codes))
	for i := range codes {
		res[i] = ToTaxCodeResponse(&codes[i])
	}
	return res
}

// CalculateTaxRequest asks for the tax on a taxable amount.
type CalculateTaxRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type CalculateTaxResponse struct {
	Code    string          `json:"code"`
	Taxable decimal.Decimal `json:"taxable"`
	Tax     decimal.Decimal `json:"tax"`
}
