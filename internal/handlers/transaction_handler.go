package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "bud/internal/errors"
	"bud/internal/pagination"
	"bud/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the request payload for posting a
// ledger entry.
type CreateTransactionRequest struct {
	ProjectID   string          `json:"project_id" binding:"required,uuid"`
	AccountID   string          `json:"account_id" binding:"required,uuid"`
	CategoryID  *string         `json:"category_id" binding:"omitempty,uuid"`
	Value       decimal.Decimal `json:"value" binding:"required"`
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Date        *time.Time      `json:"date"`
	Tags        []string        `json:"tags"`
}

// UpdateTransactionRequest represents the request payload for editing a
// ledger entry.
type UpdateTransactionRequest struct {
	Value       *decimal.Decimal `json:"value"`
	Description *string          `json:"description" binding:"omitempty,min=1,max=500"`
	Date        *time.Time       `json:"date"`
	AccountID   *string          `json:"account_id" binding:"omitempty,uuid"`
	CategoryID  *string          `json:"category_id" binding:"omitempty,uuid"`
	Tags        []string         `json:"tags"`
}

// CreateTransaction handles posting a new ledger entry.
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	in := services.CreateTransactionInput{
		ProjectID:   req.ProjectID,
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		Value:       req.Value,
		Description: req.Description,
		Tags:        req.Tags,
	}
	if req.Date != nil {
		in.Date = *req.Date
	}

	txn, err := h.transactionService.CreateTransaction(in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": txn})
}

// GetTransactions handles listing a project's transactions, optionally
// restricted to one month.
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	projectID := c.Query("project_id")
	if projectID == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "project_id is required"))
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var monthToken *string
	if v := c.Query("month"); v != "" {
		monthToken = &v
	}

	result, err := h.transactionService.ListTransactions(projectID, monthToken, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTransaction handles retrieving a specific transaction.
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	txn, err := h.transactionService.GetTransactionByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": txn})
}

// UpdateTransaction handles editing a ledger entry.
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

	txn, err := h.transactionService.UpdateTransaction(id, services.UpdateTransactionInput{
		Value:       req.Value,
		Description: req.Description,
		Date:        req.Date,
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		Tags:        req.Tags,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": txn})
}

// DeleteTransaction handles deleting a ledger entry.
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

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
}
