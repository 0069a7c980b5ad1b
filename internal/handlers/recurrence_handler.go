package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "bud/internal/errors"
	"bud/internal/models"
	"bud/internal/services"
)

// RecurrenceHandler handles recurrence-related requests.
type RecurrenceHandler struct {
	recurrenceService services.RecurrenceServicer
}

// NewRecurrenceHandler creates a new RecurrenceHandler.
func NewRecurrenceHandler(recurrenceService services.RecurrenceServicer) *RecurrenceHandler {
	return &RecurrenceHandler{recurrenceService: recurrenceService}
}

// UpdateRecurrenceRequest represents the request payload for editing a
// recurrence template.
type UpdateRecurrenceRequest struct {
	End             *string          `json:"end" binding:"omitempty,month_token"`
	Installments    *int             `json:"installments" binding:"omitempty,min=1"`
	BaseDescription *string          `json:"base_description" binding:"omitempty,max=500"`
	Value           *decimal.Decimal `json:"value"`
	CategoryID      *string          `json:"category_id" binding:"omitempty,uuid"`
	Tags            []string         `json:"tags"`
}

// GetRecurrences handles listing a project's recurrences. With the
// month query parameter, only recurrences applicable to that month are
// returned.
func (h *RecurrenceHandler) GetRecurrences(c *gin.Context) {
	projectID := c.Query("project_id")
	if projectID == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "project_id is required"))
		return
	}

	var (
		recurrences []models.Recurrence
		err         error
	)
	if monthToken := c.Query("month"); monthToken != "" {
		recurrences, err = h.recurrenceService.RecurrencesForMonth(projectID, monthToken)
	} else {
		recurrences, err = h.recurrenceService.ListRecurrences(projectID)
	}
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurrences": recurrences})
}

// GetRecurrence handles retrieving a specific recurrence.
func (h *RecurrenceHandler) GetRecurrence(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	rec, err := h.recurrenceService.GetRecurrenceByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurrence": rec})
}

// UpdateRecurrence handles editing a recurrence template. Existing
// forecasts are not touched; use Propagate to push the changes.
func (h *RecurrenceHandler) UpdateRecurrence(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateRecurrenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	rec, err := h.recurrenceService.UpdateRecurrence(id, services.UpdateRecurrenceInput{
		End:             req.End,
		Installments:    req.Installments,
		BaseDescription: req.BaseDescription,
		Value:           req.Value,
		CategoryID:      req.CategoryID,
		Tags:            req.Tags,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurrence": rec})
}

// PropagateRecurrence handles pushing the recurrence's template values
// onto every linked forecast.
func (h *RecurrenceHandler) PropagateRecurrence(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	updated, err := h.recurrenceService.Propagate(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// DeleteRecurrence handles deleting a recurrence. With cascade=true the
// linked forecasts are deleted too; otherwise they are detached.
func (h *RecurrenceHandler) DeleteRecurrence(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	cascade := c.Query("cascade") == "true"
	if err := h.recurrenceService.DeleteRecurrence(id, cascade); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recurrence deleted"})
}
