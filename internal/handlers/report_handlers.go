package handlers

import (
	"net/http"

	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/services"
	"github.com/guguinhass/AtlanticDivingCenterCRM/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReportHandler holds the reporting service.
type ReportHandler struct {
	reportService services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(rs services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: rs}
}

// GetRevenueReport aggregates invoice totals, expenses, and revenue across
// every client record.
func (h *ReportHandler) GetRevenueReport(c *gin.Context) {
	report, err := h.reportService.GetRevenueReport()
	if err != nil {
		utils.LogError(err, "GetRevenueReport: Error from reportService.GetRevenueReport")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build revenue report.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetDashboardSummary returns client and email counters for the dashboard.
func (h *ReportHandler) GetDashboardSummary(c *gin.Context) {
	summary, err := h.reportService.GetDashboardSummary()
	if err != nil {
		utils.LogError(err, "GetDashboardSummary: Error from reportService.GetDashboardSummary")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build dashboard summary.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, summary)
}
