package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "bud/internal/errors"
	"bud/internal/services"
)

// ForecastHandler handles forecast-related requests.
type ForecastHandler struct {
	forecastService services.ForecastServicer
}

// NewForecastHandler creates a new ForecastHandler.
func NewForecastHandler(forecastService services.ForecastServicer) *ForecastHandler {
	return &ForecastHandler{forecastService: forecastService}
}

// CreateForecastRequest represents the request payload for authoring a
// forecast. The recurrence flags are optional: recurrent opens an
// unbounded recurrence, recurrence_end bounds it, installments creates a
// finite series and current_installment declares which index of that
// series this month is.
type CreateForecastRequest struct {
	ProjectID          string          `json:"project_id" binding:"required,uuid"`
	BudgetName         string          `json:"budget_name" binding:"required,month_token"`
	Description        *string         `json:"description" binding:"omitempty,max=500"`
	Value              decimal.Decimal `json:"value" binding:"required"`
	CategoryID         *string         `json:"category_id" binding:"omitempty,uuid"`
	Tags               []string        `json:"tags"`
	Recurrent          bool            `json:"recurrent"`
	RecurrenceEnd      *string         `json:"recurrence_end" binding:"omitempty,month_token"`
	Installments       *int            `json:"installments" binding:"omitempty,min=1"`
	CurrentInstallment *int            `json:"current_installment"`
}

// UpdateForecastRequest represents the request payload for editing a
// forecast.
type UpdateForecastRequest struct {
	Description *string          `json:"description" binding:"omitempty,max=500"`
	Value       *decimal.Decimal `json:"value"`
	CategoryID  *string          `json:"category_id" binding:"omitempty,uuid"`
	Tags        []string         `json:"tags"`
}

// MakeRecurrentRequest represents the request payload for turning an
// existing forecast into a recurring one.
type MakeRecurrentRequest struct {
	End *string `json:"end" binding:"omitempty,month_token"`
}

// CreateForecast handles authoring a forecast, together with any
// recurrence and sibling forecasts it implies.
func (h *ForecastHandler) CreateForecast(c *gin.Context) {
	var req CreateForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	forecast, err := h.forecastService.CreateForecast(services.CreateForecastInput{
		ProjectID:          req.ProjectID,
		BudgetName:         req.BudgetName,
		Description:        req.Description,
		Value:              req.Value,
		CategoryID:         req.CategoryID,
		Tags:               req.Tags,
		Recurrent:          req.Recurrent,
		RecurrenceEnd:      req.RecurrenceEnd,
		Installments:       req.Installments,
		CurrentInstallment: req.CurrentInstallment,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"forecast": forecast})
}

// GetForecasts handles listing a budget's forecasts.
func (h *ForecastHandler) GetForecasts(c *gin.Context) {
	budgetID := c.Query("budget_id")
	if budgetID == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget_id is required"))
		return
	}

	forecasts, err := h.forecastService.ListForecasts(budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"forecasts": forecasts})
}

// GetForecast handles retrieving a specific forecast.
func (h *ForecastHandler) GetForecast(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	forecast, err := h.forecastService.GetForecastByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"forecast": forecast})
}

// UpdateForecast handles editing a forecast.
func (h *ForecastHandler) UpdateForecast(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	forecast, err := h.forecastService.UpdateForecast(id, services.UpdateForecastInput{
		Description: req.Description,
		Value:       req.Value,
		CategoryID:  req.CategoryID,
		Tags:        req.Tags,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"forecast": forecast})
}

// MakeRecurrent handles retroactively turning a forecast into a
// recurring one.
func (h *ForecastHandler) MakeRecurrent(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	// The body is optional; without one the recurrence is open-ended.
	var req MakeRecurrentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}

	forecast, created, err := h.forecastService.MakeRecurrent(id, req.End)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"forecast": forecast, "created": created})
}

// DeleteForecast handles deleting a forecast.
func (h *ForecastHandler) DeleteForecast(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.forecastService.DeleteForecast(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Forecast deleted"})
}
