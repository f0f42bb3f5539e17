package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/exptrac/exptrac_backend/internal/core/ports/services"
	"github.com/exptrac/exptrac_backend/internal/dto"
	"github.com/exptrac/exptrac_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// incomeHandler handles HTTP requests related to income records.
type incomeHandler struct {
	incomeService portssvc.IncomeSvcFacade
}

// newIncomeHandler creates a new incomeHandler.
func newIncomeHandler(is portssvc.IncomeSvcFacade) *incomeHandler {
	return &incomeHandler{incomeService: is}
}

// registerIncomeRoutes registers routes related to income records.
func registerIncomeRoutes(rg *gin.RouterGroup, incomeService portssvc.IncomeSvcFacade) {
	h := newIncomeHandler(incomeService)

	incomes := rg.Group("/incomes")
	{
		incomes.POST("", h.addIncome)
		incomes.GET("", h.listIncomes)
		incomes.GET("/:id", h.getIncome)
		incomes.PUT("/:id", h.editIncome)
		incomes.DELETE("/:id", h.deleteIncome)
	}
}

// addIncome godoc
// @Summary Record income
// @Description Records an income entry and credits the receiving account atomically
// @Tags incomes
// @Accept  json
// @Produce  json
// @Param   income body dto.CreateIncomeRequest true "Income details"
// @Success 201 {object} dto.IncomeResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Account suspended"
// @Failure 500 {object} map[string]string "Failed to record income"
// @Security BearerAuth
// @Router /incomes [post]
func (h *incomeHandler) addIncome(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for addIncome", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	record, err := h.incomeService.AddIncome(c.Request.Context(), ownerID, req)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to record income")
		return
	}

	c.JSON(http.StatusCreated, dto.ToIncomeResponse(record))
}

// listIncomes godoc
// @Summary List income records
// @Description Lists the logged-in user's income records, newest first
// @Tags incomes
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListIncomesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list income records"
// @Security BearerAuth
// @Router /incomes [get]
func (h *incomeHandler) listIncomes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListIncomesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for listIncomes", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	records, nextToken, err := h.incomeService.ListIncomes(c.Request.Context(), ownerID, params.Limit, params.NextToken)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to list income records")
		return
	}

	c.JSON(http.StatusOK, dto.ToListIncomesResponse(records, nextToken))
}

// getIncome godoc
// @Summary Get an income record
// @Description Retrieves a single income record by ID
// @Tags incomes
// @Produce  json
// @Param   id path string true "Income ID"
// @Success 200 {object} dto.IncomeResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Income record not found"
// @Failure 500 {object} map[string]string "Failed to retrieve income record"
// @Security BearerAuth
// @Router /incomes/{id} [get]
func (h *incomeHandler) getIncome(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	incomeID := c.Param("id")

	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	record, err := h.incomeService.GetIncome(c.Request.Context(), ownerID, incomeID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to retrieve income record")
		return
	}

	c.JSON(http.StatusOK, dto.ToIncomeResponse(record))
}

// editIncome godoc
// @Summary Edit an income record
// @Description Changes an income record's amount, account, source or notes; the old credit is reversed and the new one applied in the same transaction
// @Tags incomes
// @Accept  json
// @Produce  json
// @Param   id path string true "Income ID"
// @Param   income body dto.UpdateIncomeRequest true "Fields to update"
// @Success 200 {object} dto.IncomeResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Income record not found"
// @Failure 409 {object} map[string]string "Account suspended"
// @Failure 500 {object} map[string]string "Failed to update income record"
// @Security BearerAuth
// @Router /incomes/{id} [put]
func (h *incomeHandler) editIncome(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	incomeID := c.Param("id")

	var req dto.UpdateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for editIncome", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	record, err := h.incomeService.EditIncome(c.Request.Context(), ownerID, incomeID, req)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to update income record")
		return
	}

	c.JSON(http.StatusOK, dto.ToIncomeResponse(record))
}

// deleteIncome godoc
// @Summary Delete an income record
// @Description Removes an income record and reverses its credit; deleting a missing record succeeds silently
// @Tags incomes
// @Param   id path string true "Income ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to delete income record"
// @Security BearerAuth
// @Router /incomes/{id} [delete]
func (h *incomeHandler) deleteIncome(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	incomeID := c.Param("id")

	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.incomeService.DeleteIncome(c.Request.Context(), ownerID, incomeID); err != nil {
		handleServiceError(c, logger, err, "Failed to delete income record")
		return
	}

	c.Status(http.StatusNoContent)
}
