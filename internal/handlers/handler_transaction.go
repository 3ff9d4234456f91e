package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/finbooks/books_backend/internal/core/domain"
	portssvc "github.com/finbooks/books_backend/internal/core/ports/services"
	"github.com/finbooks/books_backend/internal/dto"
	"github.com/finbooks/books_backend/internal/middleware"
)

// transactionHandler handles HTTP requests for transaction documents.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

func newTransactionHandler(transactionService portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{transactionService: transactionService}
}

func RegisterTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService)
	txns := rg.Group("/transactions")
	{
		txns.POST("", h.createTransaction)
		txns.GET("", h.listTransactions)
		txns.GET("/:transactionID", h.getTransaction)
		txns.PUT("/:transactionID", h.updateTransaction)
		txns.DELETE("/:transactionID", h.deleteTransaction)
		txns.POST("/:transactionID/transition", h.transitionStatus)
		txns.POST("/:transactionID/payments", h.applyPayment)
		txns.GET("/:transactionID/ledger", h.getLedgerEntries)
		txns.GET("/:transactionID/history", h.getApprovalHistory)
	}
}

// createTransaction godoc
// @Summary Create a transaction document
// @Description Creates a new draft document, or a posted journal entry when journalLines are given
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, companyID, ok := identity(c)
	if !ok {
		return
	}

	txn, err := h.transactionService.CreateTransaction(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create transaction")
		return
	}

	logger.Info("Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("transaction_number", txn.TransactionNumber))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List transactions
// @Description Retrieves a paginated list of transactions with optional filters
// @Tags transactions
// @Produce  json
// @Param   limit query int false "Page size (default 20, max 100)"
// @Param   nextToken query string false "Pagination token"
// @Param   type query string false "Transaction type filter"
// @Param   status query string false "Status filter"
// @Param   contactID query string false "Contact filter"
// @Param   fromDate query string false "Earliest document date (RFC 3339)"
// @Param   toDate query string false "Latest document date (RFC 3339)"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	_, companyID, ok := identity(c)
	if !ok {
		return
	}

	params := dto.ListTransactionsParams{}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		params.Limit = limit
	}
	if token := c.Query("nextToken"); token != "" {
		params.NextToken = &token
	}
	if t := c.Query("type"); t != "" {
		txnType := domain.TransactionType(t)
		if !txnType.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid type parameter"})
			return
		}
		params.TransactionType = &txnType
	}
	if s := c.Query("status"); s != "" {
		status := domain.TransactionStatus(s)
		params.Status = &status
	}
	if contactID := c.Query("contactID"); contactID != "" {
		params.ContactID = &contactID
	}
	if from := c.Query("fromDate"); from != "" {
		parsed, err := time.Parse(time.DateOnly, from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fromDate parameter, expected YYYY-MM-DD"})
			return
		}
		params.FromDate = &parsed
	}
	if to := c.Query("toDate"); to != "" {
		parsed, err := time.Parse(time.DateOnly, to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid toDate parameter, expected YYYY-MM-DD"})
			return
		}
		params.ToDate = &parsed
	}

	txns, nextToken, err := h.transactionService.ListTransactions(c.Request.Context(), companyID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	})
}

// getTransaction godoc
// @Summary Get a transaction
// @Description Retrieves a transaction with its line items
// @Tags transactions
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Router /transactions/{transactionID} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	transactionID := c.Param("transactionID")

	_, companyID, ok := identity(c)
	if !ok {
		return
	}

	txn, err := h.transactionService.GetTransactionByID(c.Request.Context(), companyID, transactionID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// updateTransaction godoc
// @Summary Update a transaction
// @Description Edits a modifiable (DRAFT or REJECTED) transaction
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Param   transaction body dto.UpdateTransactionRequest true "Fields to update"
// @Success 200 {object} dto.TransactionResponse
// @Failure 409 {object} map[string]string "Transaction no longer modifiable"
// @Router /transactions/{transactionID} [put]
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	transactionID := c.Param("transactionID")

	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, companyID, ok := identity(c)
	if !ok {
		return
	}

	txn, err := h.transactionService.UpdateTransaction(c.Request.Context(), companyID, transactionID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update transaction")
		return
	}

	logger.Info("Transaction updated", slog.String("transaction_id", transactionID))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Description Removes a modifiable or cancelled transaction that never posted
// @Tags transactions
// @Param   transactionID path string true "Transaction ID"
// @Success 204 "Deleted"
// @Failure 409 {object} map[string]string "Transaction not deletable"
// @Router /transactions/{transactionID} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	transactionID := c.Param("transactionID")

	userID, companyID, ok := identity(c)
	if !ok {
		return
	}

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), companyID, transactionID, userID); err != nil {
		respondError(c, logger, err, "Failed to delete transaction")
		return
	}

	logger.Info("Transaction deleted", slog.String("transaction_id", transactionID))
	c.Status(http.StatusNoContent)
}

// transitionStatus godoc
// @Summary Transition a transaction's status
// @Description Moves a transaction along its lifecycle, posting to the ledger when it settles
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Param   transition body dto.TransitionStatusRequest true "Target status"
// @Success 200 {object} dto.TransactionResponse
// @Failure 409 {object} map[string]string "Transition not permitted"
// @Router /transactions/{transactionID}/transition [post]
func (h *transactionHandler) transitionStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	transactionID := c.Param("transactionID")

	var req dto.TransitionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for transitionStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, companyID, ok := identity(c)
	if !ok {
		return
	}

	txn, err := h.transactionService.TransitionStatus(c.Request.Context(), companyID, transactionID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to transition transaction")
		return
	}

	logger.Info("Transaction transitioned",
		slog.String("transaction_id", transactionID),
		slog.String("status", string(txn.Status)))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// applyPayment godoc
// @Summary Apply a payment to an invoice or bill
// @Description Records a payment document against the target and advances it toward PAID
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transactionID path string true "Target transaction ID"
// @Param   payment body dto.ApplyPaymentRequest true "Payment details"
// @Success 201 {object} dto.ApplyPaymentResponse
// @Failure 409 {object} map[string]string "Payment exceeds outstanding balance"
// @Router /transactions/{transactionID}/payments [post]
func (h *transactionHandler) applyPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	targetID := c.Param("transactionID")

	var req dto.ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for applyPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, companyID, ok := identity(c)
	if !ok {
		return
	}

	payment, target, err := h.transactionService.ApplyPayment(c.Request.Context(), companyID, targetID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to apply payment")
		return
	}

	logger.Info("Payment applied",
		slog.String("payment_id", payment.TransactionID),
		slog.String("target_id", targetID),
		slog.String("target_status", string(target.Status)))
	c.JSON(http.StatusCreated, dto.ApplyPaymentResponse{
		Payment: dto.ToTransactionResponse(payment),
		Target:  dto.ToTransactionResponse(target),
	})
}

// getLedgerEntries godoc
// @Summary Get a transaction's ledger entries
// @Tags transactions
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} map[string][]domain.LedgerEntry
// @Router /transactions/{transactionID}/ledger [get]
func (h *transactionHandler) getLedgerEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	transactionID := c.Param("transactionID")

	_, companyID, ok := identity(c)
	if !ok {
		return
	}

	entries, err := h.transactionService.GetLedgerEntries(c.Request.Context(), companyID, transactionID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve ledger entries")
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// getApprovalHistory godoc
// @Summary Get a transaction's status history
// @Tags transactions
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} map[string][]domain.ApprovalHistory
// @Router /transactions/{transactionID}/history [get]
func (h *transactionHandler) getApprovalHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	transactionID := c.Param("transactionID")

	_, companyID, ok := identity(c)
	if !ok {
		return
	}

	history, err := h.transactionService.GetApprovalHistory(c.Request.Context(), companyID, transactionID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve approval history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}
