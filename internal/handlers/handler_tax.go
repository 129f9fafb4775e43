package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

type taxHandler struct {
	taxService portssvc.TaxSvcFacade
}

func registerTaxRoutes(rg *gin.RouterGroup, taxService portssvc.TaxSvcFacade) {
	h := &taxHandler{taxService: taxService}

	codes := rg.Group("/tax-codes")
	{
		codes.POST("", h.createTaxCode)
		codes.GET("", h.listTaxCodes)
		codes.GET("/:code", h.getTaxCode)
		codes.POST("/:code/calculate", h.calculateTax)
	}
}

// createTaxCode godoc
// @Summary Create a tax code
// @Tags tax
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   taxCode body dto.CreateTaxCodeRequest true "Tax code"
// @Success 201 {object} dto.TaxCodeResponse
// @Failure 400 {object} map[string]string "Invalid rate for the tax type"
// @Failure 409 {object} map[string]string "Code already exists"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/tax-codes [post]
func (h *taxHandler) createTaxCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTaxCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "request format")
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	tc, err := h.taxService.CreateTaxCode(c.Request.Context(), c.Param("tenant_id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create tax code")
		return
	}
	logger.Info("Tax code created", slog.String("code", tc.Code))
	c.JSON(http.StatusCreated, dto.ToTaxCodeResponse(tc))
}

// listTaxCodes godoc
// @Summary List tax codes
// @Tags tax
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Success 200 {array} dto.TaxCodeResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/tax-codes [get]
func (h *taxHandler) listTaxCodes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	codes, err := h.taxService.ListTaxCodes(c.Request.Context(), c.Param("tenant_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to list tax codes")
		return
	}
	c.JSON(http.StatusOK, dto.ToTaxCodeResponses(codes))
}

// getTaxCode godoc
// @Summary Get a tax code
// @Tags tax
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   code path string true "Tax code"
// @Success 200 {object} dto.TaxCodeResponse
// @Failure 404 {object} map[string]string "Tax code not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/tax-codes/{code} [get]
func (h *taxHandler) getTaxCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tc, err := h.taxService.GetTaxCode(c.Request.Context(), c.Param("tenant_id"), c.Param("code"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve tax code")
		return
	}
	c.JSON(http.StatusOK, dto.ToTaxCodeResponse(tc))
}

// calculateTax godoc
// @Summary Calculate tax on an amount
// @Description Returns the tax due on a taxable amount, rounded half-up to 2 decimal places
// @Tags tax
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   code path string true "Tax code"
// @Param   request body dto.CalculateTaxRequest true "Taxable amount"
// @Success 200 {object} dto.CalculateTaxResponse
// @Failure 404 {object} map[string]string "Tax code not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/tax-codes/{code}/calculate [post]
func (h *taxHandler) calculateTax(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Param("code")

	var req dto.CalculateTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "request format")
		return
	}

	tax, err := h.taxService.CalculateTax(c.Request.Context(), c.Param("tenant_id"), code, req.Amount)
	if err != nil {
		respondError(c, logger, err, "Failed to calculate tax")
		return
	}
	c.JSON(http.StatusOK, dto.CalculateTaxResponse{Code: code, Taxable: req.Amount, Tax: tax})
}
