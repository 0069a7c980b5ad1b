package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bud/internal/services"
)

// ReportHandler handles report generation requests.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetReport handles generating the report for a budget.
func (h *ReportHandler) GetReport(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.GenerateReport(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}
