package handlers

import (
	"net/http"

	portssvc "github.com/exptrac/exptrac_backend/internal/core/ports/services"
	"github.com/exptrac/exptrac_backend/internal/dto"
	"github.com/exptrac/exptrac_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests for aggregate views.
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers the dashboard and report routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	rg.GET("/dashboard", h.getDashboardSummary)
	rg.GET("/reports/blocks", h.getBlockReport)
}

// getDashboardSummary godoc
// @Summary Get the dashboard summary
// @Description Builds the landing-page aggregate: balances by payment method, income totals and sources, today's spend, the active block's day spends and goal statistics
// @Tags reports
// @Produce  json
// @Success 200 {object} dto.DashboardSummaryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to build dashboard summary"
// @Security BearerAuth
// @Router /dashboard [get]
func (h *reportingHandler) getDashboardSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	summary, err := h.reportingService.GetDashboardSummary(c.Request.Context(), ownerID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to build dashboard summary")
		return
	}

	c.JSON(http.StatusOK, dto.ToDashboardSummaryResponse(summary))
}

// getBlockReport godoc
// @Summary Get the per-block spending report
// @Description Returns every block of the logged-in user with per-day spending totals, newest first; expired blocks are closed on the way through
// @Tags reports
// @Produce  json
// @Success 200 {array} dto.BlockReportResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to build block report"
// @Security BearerAuth
// @Router /reports/blocks [get]
func (h *reportingHandler) getBlockReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reports, err := h.reportingService.GetBlockReport(c.Request.Context(), ownerID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to build block report")
		return
	}

	c.JSON(http.StatusOK, dto.ToBlockReportResponse(reports))
}
