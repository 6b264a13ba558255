package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "santimsentry/internal/errors"
	"santimsentry/internal/money"
	"santimsentry/internal/services"
)

// TransactionHandler handles transaction CRUD and the summary view.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	summaryService     services.SummaryServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, summaryService services.SummaryServicer) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		summaryService:     summaryService,
	}
}

// TransactionRequest represents the payload for creating or updating a
// transaction. Amounts arrive as two-decimal JSON numbers and are converted
// to cents at this boundary.
type TransactionRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	CategoryID  uint    `json:"categoryId" binding:"required"`
	Description string  `json:"description" binding:"max=500"`
	IsTelebirr  bool    `json:"isTelebirr"`
	Date        *string `json:"date"`
}

func (r *TransactionRequest) toInput(c *gin.Context) (services.TransactionInput, bool) {
	in := services.TransactionInput{
		CategoryID:  r.CategoryID,
		Amount:      money.FromFloat(r.Amount),
		Description: r.Description,
		IsTelebirr:  r.IsTelebirr,
	}

	if r.Date != nil && *r.Date != "" {
		parsed, err := parseFlexibleTime(*r.Date)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid date, use RFC3339 or YYYY-MM-DD"))
			return in, false
		}
		in.Date = parsed
	}

	return in, true
}

// GetTransactions lists the user's transactions
// @Summary     List transactions
// @Description All transactions for the authenticated user, enriched with category name, type, and icon, newest first
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} services.TransactionView "Transactions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, err := h.transactionService.ListTransactions(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}

// GetCategories lists the fixed category catalog
// @Summary     List categories
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Category "Categories, alphabetical"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions/categories [get]
func (h *TransactionHandler) GetCategories(c *gin.Context) {
	categories, err := h.transactionService.ListCategories()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

// CreateTransaction creates a new transaction
// @Summary     Create a transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Created transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	in, ok := req.toInput(c)
	if !ok {
		return
	}

	transaction, err := h.transactionService.CreateTransaction(userID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, transaction)
}

// UpdateTransaction updates an existing transaction
// @Summary     Update a transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                true "Transaction ID"
// @Param       request body TransactionRequest true "Transaction details"
// @Success     200 {object} models.Transaction "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Transaction not found or not owned by caller"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	in, ok := req.toInput(c)
	if !ok {
		return
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, transactionID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, transaction)
}

// DeleteTransaction deletes a transaction
// @Summary     Delete a transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} map[string]interface{} "Deletion confirmation"
// @Failure     404 {object} ErrorResponse "Transaction not found or not owned by caller"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
}

// GetSummary returns the aggregated financial view
// @Summary     Financial summary
// @Description Totals, current balance, wallet balance, category breakdown, and the trailing six-month trend
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.Summary "Summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions/summary [get]
func (h *TransactionHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.summaryService.GetSummary(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
