package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	progressService    services.ProgressServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, progressService services.ProgressServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		progressService:    progressService,
		auditService:       auditService,
	}
}

// CreateTransactionRequest represents the payload for an income or expense
type CreateTransactionRequest struct {
	Description string `json:"description" binding:"required,min=1,max=200"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Type        string `json:"type" binding:"required,oneof=income expense"`
	AccountID   string `json:"account_id" binding:"required,uuid"`
	CategoryID  string `json:"category_id" binding:"required,uuid"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"omitempty,clock_time"`
}

// CreateTransferRequest represents the payload for a transfer between accounts
type CreateTransferRequest struct {
	Description          string `json:"description" binding:"required,min=1,max=200"`
	Amount               int64  `json:"amount" binding:"required,gt=0"`
	AccountID            string `json:"account_id" binding:"required,uuid"`
	DestinationAccountID string `json:"destination_account_id" binding:"required,uuid"`
	Date                 string `json:"date" binding:"required"`
	Time                 string `json:"time" binding:"omitempty,clock_time"`
}

// UpdateTransactionRequest represents the payload for a partial update
type UpdateTransactionRequest struct {
	Description *string `json:"description" binding:"omitempty,min=1,max=200"`
	Amount      *int64  `json:"amount" binding:"omitempty,gt=0"`
	Date        *string `json:"date"`
	Time        *string `json:"time" binding:"omitempty,clock_time"`
	AccountID   *string `json:"account_id" binding:"omitempty,uuid"`
	CategoryID  *string `json:"category_id" binding:"omitempty,uuid"`
}

// ListTransactionsQuery represents the query parameters for listing transactions
type ListTransactionsQuery struct {
	pagination.PageRequest
	From       string `form:"from"`
	To         string `form:"to"`
	Type       string `form:"type" binding:"omitempty,transaction_type"`
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	AccountID  string `form:"account_id" binding:"omitempty,uuid"`
	MinAmount  *int64 `form:"min_amount"`
	MaxAmount  *int64 `form:"max_amount"`
}

// defaultClockTime fills the time of day when the client omits it.
func defaultClockTime(value string) string {
	if value == "" {
		return time.Now().Format("15:04")
	}
	return value
}

// CreateTransaction records an income or expense
// @Summary     Create a transaction
// @Description Record an income or expense with an amount in cents
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Account or category not found"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	existing, err := h.transactionService.CountTransactions()
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.CreateTransaction(
		models.TransactionType(req.Type),
		req.Amount,
		req.Description,
		req.AccountID,
		req.CategoryID,
		date,
		defaultClockTime(req.Time),
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.progressService.OnTransactionCreated(existing)
	h.auditService.Log("CREATE_TRANSACTION", "transaction", transaction.ID, c.ClientIP(),
		map[string]interface{}{"type": req.Type, "amount": req.Amount})

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// CreateTransfer records a transfer between two accounts
// @Summary     Create a transfer
// @Description Move money between two owned accounts; the system total is unchanged
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransferRequest true "Transfer details"
// @Success     201 {object} models.Transaction "Transfer created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /transactions/transfer [post]
func (h *TransactionHandler) CreateTransfer(c *gin.Context) {
	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	existing, err := h.transactionService.CountTransactions()
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.CreateTransfer(
		req.Amount,
		req.Description,
		req.AccountID,
		req.DestinationAccountID,
		date,
		defaultClockTime(req.Time),
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.progressService.OnTransactionCreated(existing)
	h.auditService.Log("CREATE_TRANSFER", "transaction", transaction.ID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount})

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// ListTransactions returns transactions with pagination and filters
// @Summary     List transactions
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Param       from query string false "Start date (YYYY-MM-DD)"
// @Param       to query string false "End date (YYYY-MM-DD)"
// @Param       type query string false "Filter by type"
// @Param       category_id query string false "Filter by category"
// @Param       account_id query string false "Filter by account"
// @Param       min_amount query int false "Minimum amount in cents"
// @Param       max_amount query int false "Maximum amount in cents"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	var query ListTransactionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.TransactionFilter
	if query.From != "" {
		from, err := parseDate(query.From)
		if err != nil {
			respondWithError(c, err)
			return
		}
		filter.FromDate = &from
	}
	if query.To != "" {
		to, err := parseDate(query.To)
		if err != nil {
			respondWithError(c, err)
			return
		}
		filter.ToDate = &to
	}
	if query.Type != "" {
		txType := models.TransactionType(query.Type)
		filter.Type = &txType
	}
	if query.CategoryID != "" {
		filter.CategoryID = &query.CategoryID
	}
	if query.AccountID != "" {
		filter.AccountID = &query.AccountID
	}
	filter.MinAmount = query.MinAmount
	filter.MaxAmount = query.MaxAmount

	page, err := h.transactionService.GetTransactions(query.PageRequest, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetTransaction returns a single transaction
// @Summary     Get a transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// UpdateTransaction applies a partial update to a transaction
// @Summary     Update a transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Fields to update"
// @Success     200 {object} models.Transaction "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /transactions/{id} [patch]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fields := services.TransactionUpdateFields{
		Description: req.Description,
		Amount:      req.Amount,
		Time:        req.Time,
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			respondWithError(c, err)
			return
		}
		fields.Date = &date
	}

	transaction, err := h.transactionService.UpdateTransaction(id, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("UPDATE_TRANSACTION", "transaction", id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction removes a transaction
// @Summary     Delete a transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("DELETE_TRANSACTION", "transaction", id, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
