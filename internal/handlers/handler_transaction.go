package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler serves drafts, posting and reversals.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
	postingService     portssvc.PostingSvc
	reversalService    portssvc.ReversalSvc
}

func registerTransactionRoutes(rg *gin.RouterGroup, ts portssvc.TransactionSvcFacade, ps portssvc.PostingSvc, rs portssvc.ReversalSvc) {
	h := &transactionHandler{transactionService: ts, postingService: ps, reversalService: rs}

	txns := rg.Group("/transactions")
	{
		txns.POST("", h.createTransaction)
		txns.GET("", h.listTransactions)
		txns.GET("/:transaction_id", h.getTransaction)
		txns.DELETE("/:transaction_id", h.deleteTransaction)

		txns.POST("/:transaction_id/lines", h.addLine)
		txns.POST("/:transaction_id/taxed-lines", h.addTaxedLine)
		txns.PUT("/:transaction_id/lines/:line_id", h.updateLine)
		txns.DELETE("/:transaction_id/lines/:line_id", h.removeLine)

		txns.POST("/:transaction_id/post", h.postTransaction)
		txns.POST("/:transaction_id/reverse", h.reverseTransaction)
		txns.POST("/:transaction_id/reverse-partial", h.reversePartial)
		txns.GET("/:transaction_id/reversals", h.listReversals)
		txns.GET("/:transaction_id/ledger-entries", h.listLedgerEntries)
	}
}

// createTransaction godoc
// @Summary Create a draft transaction
// @Description Creates a DRAFT. Drafts may be unbalanced; balance is checked when posting.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   transaction body dto.CreateTransactionRequest true "Draft"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "request format")
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	t, err := h.transactionService.CreateDraft(c.Request.Context(), c.Param("tenant_id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create transaction")
		return
	}
	logger.Info("Draft created", slog.String("transaction_id", t.TransactionID), slog.Int("lines", len(t.Lines)))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(t))
}

// listTransactions godoc
// @Summary List transactions
// @Description Newest first. Pass nextToken from the previous page to continue.
// @Tags transactions
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Continuation token"
// @Param   status query string false "DRAFT or POSTED"
// @Param   type query string false "Transaction type"
// @Param   startDate query string false "From date (YYYY-MM-DD)"
// @Param   endDate query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err, "query parameters")
		return
	}
	filter, err := toTransactionFilter(params)
	if err != nil {
		respondError(c, logger, err, "Invalid query parameters")
		return
	}

	txns, next, err := h.transactionService.ListTransactions(c.Request.Context(), c.Param("tenant_id"), filter, params.Limit, params.NextToken)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ListTransactionsResponse{Transactions: dto.ToTransactionResponses(txns), NextToken: next})
}

func toTransactionFilter(p dto.ListTransactionsParams) (domain.TransactionFilter, error) {
	var f domain.TransactionFilter
	if p.Status != nil {
		s := domain.TransactionStatus(*p.Status)
		f.Status = &s
	}
	if p.Type != nil {
		t := domain.TransactionType(*p.Type)
		f.Type = &t
	}
	if p.StartDate != nil {
		d, err := dto.ParseDate("startDate", *p.StartDate)
		if err != nil {
			return f, err
		}
		f.StartDate = &d
	}
	if p.EndDate != nil {
		d, err := dto.ParseDate("endDate", *p.EndDate)
		if err != nil {
			return f, err
		}
		f.EndDate = &d
	}
	return f, nil
}

// getTransaction godoc
// @Summary Get a transaction with its lines
// @Tags transactions
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   transaction_id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/transactions/{transaction_id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	t, err := h.transactionService.GetTransaction(c.Request.Context(), c.Param("tenant_id"), c.Param("transaction_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(t))
}

// deleteTransaction godoc
// @Summary Delete a draft
// @Description Posted transactions cannot be deleted; reverse them instead.
// @Tags transactions
// @Param   tenant_id path string true "Tenant ID"
// @Param   transaction_id path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction is posted"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/transactions/{transaction_id} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if err := h.transactionService.DeleteDraft(c.Request.Context(), c.Param("tenant_id"), c.Param("transaction_id"), userID); err != nil {
		respondError(c, logger, err, "Failed to delete transaction")
		return
	}
	c.Status(http.StatusNoContent)
}

// addLine godoc
// @Summary Append a line to a draft
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   transaction_id path string true "Transaction ID"
// @Param   line body dto.LineRequest true "Line"
// @Success 200 {object} dto.TransactionResponse
// @Failure 409 {object} map[string]string "Transaction is posted"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/transactions/{transaction_id}/lines [post]
func (h *transactionHandler) addLine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "request format")
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	t, err := h.transactionService.AddLine(c.Request.Context(), c.Param("tenant_id"), c.Param("transaction_id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to add line")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(t))
}

// addTaxedLine godoc
// @Summary Append a taxed line and its tax line
// @Description Adds the net line and a second line on taxAccountID for the tax, same direction
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   transaction_id path string true "Transaction ID"
// @Param   line body dto.AddTaxedLineRequest true "Taxed line"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Missing tax code"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/transactions/{transaction_id}/taxed-lines [post]
func (h *transactionHandler) addTaxedLine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AddTaxedLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "request format")
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	t, err := h.transactionService.AddTaxedLine(c.Request.Context(), c.Param("tenant_id"), c.Param("transaction_id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to add taxed line")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(t))
}

// updateLine godoc
// @Summary Replace a draft line
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   transaction_id path string true "Transaction ID"
// @Param   line_id path string true "Line ID"
// @Param   line body dto.LineRequest true "Line"
// @Success 200 {object} dto.TransactionResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/transactions/{transaction_id}/lines/{line_id} [put]
func (h *transactionHandler) updateLine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "request format")
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	t, err := h.transactionService.UpdateLine(c.Request.Context(), c.Param("tenant_id"), c.Param("transaction_id"), c.Param("line_id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update line")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(t))
}

// removeLine godoc
// @Summary Remove a draft line
// @Tags transactions
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   transaction_id path string true "Transaction ID"
// @Param   line_id path string true "Line ID"
// @Success 200 {object} dto.TransactionResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/transactions/{transaction_id}/lines/{line_id} [delete]
func (h *transactionHandler) removeLine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	t, err := h.transactionService.RemoveLine(c.Request.Context(), c.Param("tenant_id"), c.Param("transaction_id"), c.Param("line_id"), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to remove line")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(t))
}

// postTransaction godoc
// @Summary Post a draft to the ledger
// @Description Validates and writes one ledger entry per line atomically. Posting twice returns 409.
// @Tags transactions
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   transaction_id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Empty or malformed transaction"
// @Failure 409 {object} map[string]string "Already posted"
// @Failure 422 {object} map[string]string "Unbalanced, locked period, inactive account or reversal bound exceeded"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/transactions/{transaction_id}/post [post]
func (h *transactionHandler) postTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transaction_id")
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	t, err := h.postingService.Post(c.Request.Context(), c.Param("tenant_id"), transactionID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to post transaction")
		return
	}
	logger.Info("Transaction posted", slog.String("transaction_id", transactionID))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(t))
}

func toReversalOptions(req dto.ReverseRequest) (domain.ReversalOptions, error) {
	opts := domain.ReversalOptions{Description: req.Description, Reference: req.Reference}
	if req.Date != nil {
		d, err := dto.ParseDate("date", *req.Date)
		if err != nil {
			return opts, err
		}
		opts.Date = &d
	}
	return opts, nil
}

// reverseTransaction godoc
// @Summary Reverse a posted transaction in full
// @Description Creates a DRAFT with every line's direction inverted. Post it to take effect.
// @Tags reversals
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   transaction_id path string true "Transaction ID"
// @Param   request body dto.ReverseRequest false "Overrides"
// @Success 201 {object} dto.TransactionResponse
// @Failure 409 {object} map[string]string "Original is not posted"
// @Failure 422 {object} map[string]string "Already (partly) reversed"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/transactions/{transaction_id}/reverse [post]
func (h *transactionHandler) reverseTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ReverseRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, logger, err, "request format")
			return
		}
	}
	opts, err := toReversalOptions(req)
	if err != nil {
		respondError(c, logger, err, "Invalid reversal options")
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	t, err := h.reversalService.Reverse(c.Request.Context(), c.Param("tenant_id"), c.Param("transaction_id"), userID, opts)
	if err != nil {
		respondError(c, logger, err, "Failed to reverse transaction")
		return
	}
	logger.Info("Reversal draft created", slog.String("reversal_id", t.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(t))
}

// reversePartial godoc
// @Summary Partially reverse a posted transaction
// @Description Creates a credit or debit note draft for chosen lines and amounts
// @Tags reversals
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   transaction_id path string true "Transaction ID"
// @Param   request body dto.ReversePartialRequest true "Lines and amounts"
// @Success 201 {object} dto.TransactionResponse
// @Failure 422 {object} map[string]string "Amount exceeds remaining balance"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/transactions/{transaction_id}/reverse-partial [post]
func (h *transactionHandler) reversePartial(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ReversePartialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "request format")
		return
	}
	opts, err := toReversalOptions(req.ReverseRequest)
	if err != nil {
		respondError(c, logger, err, "Invalid reversal options")
		return
	}
	opts.Type = req.Type
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	lines := make([]domain.ReversalLineRequest, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = domain.ReversalLineRequest{LineID: l.LineID, Amount: l.Amount}
	}

	t, err := h.reversalService.ReversePartial(c.Request.Context(), c.Param("tenant_id"), c.Param("transaction_id"), userID, lines, opts)
	if err != nil {
		respondError(c, logger, err, "Failed to create partial reversal")
		return
	}
	logger.Info("Partial reversal draft created", slog.String("reversal_id", t.TransactionID), slog.Int("lines", len(lines)))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(t))
}

// listReversals godoc
// @Summary List reversals of a transaction
// @Description Returns reversal links and the remaining reversible amount of every line
// @Tags reversals
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   transaction_id path string true "Transaction ID"
// @Success 200 {object} dto.ReversalsResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/transactions/{transaction_id}/reversals [get]
func (h *transactionHandler) listReversals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, transactionID := c.Param("tenant_id"), c.Param("transaction_id")

	links, err := h.reversalService.ListReversals(c.Request.Context(), tenantID, transactionID)
	if err != nil {
		respondError(c, logger, err, "Failed to list reversals")
		return
	}
	balances, err := h.reversalService.RemainingBalance(c.Request.Context(), tenantID, transactionID)
	if err != nil {
		respondError(c, logger, err, "Failed to compute remaining balances")
		return
	}
	c.JSON(http.StatusOK, dto.ReversalsResponse{Reversals: dto.ToReversalLinkResponses(links), Lines: balances})
}

// listLedgerEntries godoc
// @Summary List the ledger entries of a posted transaction
// @Tags transactions
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   transaction_id path string true "Transaction ID"
// @Success 200 {array} dto.LedgerEntryResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/transactions/{transaction_id}/ledger-entries [get]
func (h *transactionHandler) listLedgerEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entries, err := h.transactionService.ListLedgerEntries(c.Request.Context(), c.Param("tenant_id"), c.Param("transaction_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to list ledger entries")
		return
	}
	c.JSON(http.StatusOK, dto.ToLedgerEntryResponses(entries))
}
