package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

type periodHandler struct {
	periodService portssvc.PeriodSvcFacade
}

func registerPeriodRoutes(rg *gin.RouterGroup, periodService portssvc.PeriodSvcFacade) {
	h := &periodHandler{periodService: periodService}

	rg.POST("/fiscal-years", h.createFiscalYear)
	rg.GET("/fiscal-years", h.listFiscalYears)

	periods := rg.Group("/periods")
	{
		periods.GET("", h.listPeriods)
		periods.POST("/:period_id/lock", h.lockPeriod)
		periods.POST("/:period_id/unlock", h.unlockPeriod)
	}
}

// createFiscalYear godoc
// @Summary Create a fiscal year
// @Description Creates a fiscal year with its periods. Without explicit periods, one period per calendar month is generated.
// @Tags periods
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   fiscalYear body dto.CreateFiscalYearRequest true "Fiscal year"
// @Success 201 {object} dto.FiscalYearResponse
// @Failure 400 {object} map[string]string "Periods do not tile the year"
// @Failure 409 {object} map[string]string "Overlaps an existing fiscal year"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/fiscal-years [post]
func (h *periodHandler) createFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateFiscalYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "request format")
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	fy, err := h.periodService.CreateFiscalYear(c.Request.Context(), c.Param("tenant_id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create fiscal year")
		return
	}

	logger.Info("Fiscal year created", slog.String("fiscal_year_id", fy.FiscalYearID), slog.Int("periods", len(fy.Periods)))
	c.JSON(http.StatusCreated, dto.ToFiscalYearResponse(fy))
}

// listFiscalYears godoc
// @Summary List fiscal years
// @Tags periods
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Success 200 {array} dto.FiscalYearResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/fiscal-years [get]
func (h *periodHandler) listFiscalYears(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	years, err := h.periodService.ListFiscalYears(c.Request.Context(), c.Param("tenant_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to list fiscal years")
		return
	}
	res := make([]dto.FiscalYearResponse, len(years))
	for i := range years {
		res[i] = dto.ToFiscalYearResponse(&years[i])
	}
	c.JSON(http.StatusOK, res)
}

// listPeriods godoc
// @Summary List periods
// @Tags periods
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   fiscalYearID query string false "Restrict to one fiscal year"
// @Success 200 {array} dto.PeriodResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/periods [get]
func (h *periodHandler) listPeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListPeriodsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err, "query parameters")
		return
	}

	periods, err := h.periodService.ListPeriods(c.Request.Context(), c.Param("tenant_id"), params.FiscalYearID)
	if err != nil {
		respondError(c, logger, err, "Failed to list periods")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponses(periods))
}

// lockPeriod godoc
// @Summary Lock a period
// @Description Once locked, nothing dated inside the period can be posted. Locking a locked period is a no-op.
// @Tags periods
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   period_id path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} map[string]string "Period not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/periods/{period_id}/lock [post]
func (h *periodHandler) lockPeriod(c *gin.Context) {
	h.setLocked(c, true)
}

// unlockPeriod godoc
// @Summary Unlock a period
// @Tags periods
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   period_id path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} map[string]string "Period not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/periods/{period_id}/unlock [post]
func (h *periodHandler) unlockPeriod(c *gin.Context) {
	h.setLocked(c, false)
}

func (h *periodHandler) setLocked(c *gin.Context, locked bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, periodID := c.Param("tenant_id"), c.Param("period_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	setStatus := h.periodService.UnlockPeriod
	if locked {
		setStatus = h.periodService.LockPeriod
	}
	period, err := setStatus(c.Request.Context(), tenantID, periodID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to change period status")
		return
	}

	logger.Info("Period status changed", slog.String("period_id", periodID), slog.String("status", string(period.Status)))
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}
