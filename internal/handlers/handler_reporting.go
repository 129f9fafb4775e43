package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/trial-balance", h.getTrialBalance)
		reportingGroup.GET("/profit-and-loss", h.getProfitAndLoss)
		reportingGroup.GET("/balance-sheet", h.getBalanceSheet)
		reportingGroup.GET("/tax-return", h.getTaxReturn)
	}
}

// bindRange reads and parses a start/end report range. It writes the error response itself.
func bindRange(c *gin.Context, logger *slog.Logger) (dto.ReportRangeParams, time.Time, time.Time, bool) {
	var params dto.ReportRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err, "query parameters")
		return params, time.Time{}, time.Time{}, false
	}
	start, err := dto.ParseDate("startDate", params.StartDate)
	if err != nil {
		respondError(c, logger, err, "Invalid report range")
		return params, time.Time{}, time.Time{}, false
	}
	end, err := dto.ParseDate("endDate", params.EndDate)
	if err != nil {
		respondError(c, logger, err, "Invalid report range")
		return params, time.Time{}, time.Time{}, false
	}
	return params, start, end, true
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Net debit or credit per visible account over a date range. Accounts above the caller's clearance are omitted.
// @Tags reports
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param startDate query string true "From date (YYYY-MM-DD)"
// @Param endDate query string true "To date (YYYY-MM-DD)"
// @Param department query string false "Restrict to one department"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	params, start, end, ok := bindRange(c, logger)
	if !ok {
		return
	}

	tb, err := h.reportingService.TrialBalance(c.Request.Context(), c.Param("tenant_id"), start, end, middleware.GetMaxSecurityLevel(c), params.Department)
	if err != nil {
		respondError(c, logger, err, "Failed to generate trial balance")
		return
	}

	logger.Info("Trial balance generated", slog.Int("rows", len(tb.Rows)), slog.Bool("balanced", tb.IsBalanced()))
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb))
}

// getProfitAndLoss godoc
// @Summary Generate profit and loss report
// @Description Income and expenses over a date range with net profit
// @Tags reports
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param startDate query string true "From date (YYYY-MM-DD)"
// @Param endDate query string true "To date (YYYY-MM-DD)"
// @Param department query string false "Restrict to one department"
// @Success 200 {object} dto.ProfitAndLossResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/reports/profit-and-loss [get]
func (h *reportingHandler) getProfitAndLoss(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	params, start, end, ok := bindRange(c, logger)
	if !ok {
		return
	}

	pl, err := h.reportingService.ProfitAndLoss(c.Request.Context(), c.Param("tenant_id"), start, end, middleware.GetMaxSecurityLevel(c), params.Department)
	if err != nil {
		respondError(c, logger, err, "Failed to generate profit and loss")
		return
	}
	c.JSON(http.StatusOK, dto.ToProfitAndLossResponse(pl))
}

// getBalanceSheet godoc
// @Summary Generate balance sheet report
// @Description Assets, liabilities and equity as of a date, with retained earnings folded into equity
// @Tags reports
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param asOf query string true "Report date (YYYY-MM-DD)"
// @Param department query string false "Restrict to one department"
// @Success 200 {object} dto.BalanceSheetResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ReportAsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err, "query parameters")
		return
	}
	asOf, err := dto.ParseDate("asOf", params.AsOf)
	if err != nil {
		respondError(c, logger, err, "Invalid report date")
		return
	}

	bs, err := h.reportingService.BalanceSheet(c.Request.Context(), c.Param("tenant_id"), asOf, middleware.GetMaxSecurityLevel(c), params.Department)
	if err != nil {
		respondError(c, logger, err, "Failed to generate balance sheet")
		return
	}

	logger.Info("Balance sheet generated", slog.Bool("balanced", bs.IsBalanced()))
	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(bs))
}

// getTaxReturn godoc
// @Summary Generate tax return
// @Description Taxable base, posted tax and recomputed tax per tax code over a date range
// @Tags reports
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param startDate query string true "From date (YYYY-MM-DD)"
// @Param endDate query string true "To date (YYYY-MM-DD)"
// @Success 200 {object} dto.TaxReturnResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/reports/tax-return [get]
func (h *reportingHandler) getTaxReturn(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	_, start, end, ok := bindRange(c, logger)
	if !ok {
		return
	}

	tr, err := h.reportingService.TaxReturn(c.Request.Context(), c.Param("tenant_id"), start, end, middleware.GetMaxSecurityLevel(c))
	if err != nil {
		respondError(c, logger, err, "Failed to generate tax return")
		return
	}
	c.JSON(http.StatusOK, dto.ToTaxReturnResponse(tr))
}
