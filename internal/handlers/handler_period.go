package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/exptrac/exptrac_backend/internal/core/ports/services"
	"github.com/exptrac/exptrac_backend/internal/dto"
	"github.com/exptrac/exptrac_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// periodHandler handles HTTP requests related to period blocks.
type periodHandler struct {
	periodService portssvc.PeriodSvcFacade
}

// newPeriodHandler creates a new periodHandler.
func newPeriodHandler(ps portssvc.PeriodSvcFacade) *periodHandler {
	return &periodHandler{periodService: ps}
}

// registerPeriodRoutes registers routes related to period blocks.
func registerPeriodRoutes(rg *gin.RouterGroup, periodService portssvc.PeriodSvcFacade) {
	h := newPeriodHandler(periodService)

	blocks := rg.Group("/blocks")
	{
		blocks.POST("", h.createBlock)
		blocks.GET("", h.listBlocks)
		blocks.GET("/:id", h.getBlockDetail)
		blocks.PUT("/:id/title", h.updateBlockTitle)
		blocks.POST("/:id/close", h.closeIfExpired)
	}
}

// createBlock godoc
// @Summary Open a new period block
// @Description Opens a weekly or monthly block starting today; fails when an active block already covers today
// @Tags blocks
// @Accept  json
// @Produce  json
// @Param   block body dto.CreateBlockRequest true "Block details"
// @Success 201 {object} dto.BlockResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "An active block already covers today"
// @Failure 500 {object} map[string]string "Failed to create block"
// @Security BearerAuth
// @Router /blocks [post]
func (h *periodHandler) createBlock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createBlock", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	block, err := h.periodService.CreateBlock(c.Request.Context(), ownerID, req)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to create block")
		return
	}

	c.JSON(http.StatusCreated, dto.ToBlockResponse(block))
}

// listBlocks godoc
// @Summary List period blocks
// @Description Lists the logged-in user's blocks newest first, with active/closed counts
// @Tags blocks
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListBlocksResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list blocks"
// @Security BearerAuth
// @Router /blocks [get]
func (h *periodHandler) listBlocks(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListBlocksParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for listBlocks", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	blocks, nextToken, counts, err := h.periodService.ListBlocks(c.Request.Context(), ownerID, params.Limit, params.NextToken)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to list blocks")
		return
	}

	c.JSON(http.StatusOK, dto.ToListBlocksResponse(blocks, counts, nextToken))
}

// getBlockDetail godoc
// @Summary Get a block with per-day expense groups
// @Description Retrieves a block and its line items grouped by calendar day over the whole window
// @Tags blocks
// @Produce  json
// @Param   id path string true "Block ID"
// @Success 200 {object} dto.BlockDetailResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Block not found"
// @Failure 500 {object} map[string]string "Failed to retrieve block"
// @Security BearerAuth
// @Router /blocks/{id} [get]
func (h *periodHandler) getBlockDetail(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	blockID := c.Param("id")

	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	block, items, err := h.periodService.GetBlockDetail(c.Request.Context(), ownerID, blockID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to retrieve block")
		return
	}

	c.JSON(http.StatusOK, dto.ToBlockDetailResponse(block, items, time.Now().UTC()))
}

// updateBlockTitle godoc
// @Summary Rename a block
// @Description Updates a block's display title
// @Tags blocks
// @Accept  json
// @Produce  json
// @Param   id path string true "Block ID"
// @Param   title body dto.UpdateBlockTitleRequest true "New title"
// @Success 200 {object} dto.BlockResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Block not found"
// @Failure 500 {object} map[string]string "Failed to rename block"
// @Security BearerAuth
// @Router /blocks/{id}/title [put]
func (h *periodHandler) updateBlockTitle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	blockID := c.Param("id")

	var req dto.UpdateBlockTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateBlockTitle", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	block, err := h.periodService.UpdateBlockTitle(c.Request.Context(), ownerID, blockID, req)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to rename block")
		return
	}

	c.JSON(http.StatusOK, dto.ToBlockResponse(block))
}

// closeIfExpired godoc
// @Summary Close a block when its window has elapsed
// @Description Runs the expiry tick on a block; closed and still-running blocks pass through unchanged
// @Tags blocks
// @Produce  json
// @Param   id path string true "Block ID"
// @Success 200 {object} dto.BlockResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Block not found"
// @Failure 500 {object} map[string]string "Failed to close block"
// @Security BearerAuth
// @Router /blocks/{id}/close [post]
func (h *periodHandler) closeIfExpired(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	blockID := c.Param("id")

	ownerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	block, err := h.periodService.CloseIfExpired(c.Request.Context(), ownerID, blockID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to close block")
		return
	}

	c.JSON(http.StatusOK, dto.ToBlockResponse(block))
}
