package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/types"
)

// FoodLogHandler serves the caller's food diary.
type FoodLogHandler struct {
	logService service.IFoodLogService
}

func NewFoodLogHandler(logService service.IFoodLogService) *FoodLogHandler {
	return &FoodLogHandler{logService: logService}
}

func (h *FoodLogHandler) RegisterRoutes(router *gin.RouterGroup) {
	logs := router.Group("/food-logs")
	{
		logs.GET("", h.ListLogs)
		logs.POST("", h.CreateLog)
		logs.GET("/daily-totals", h.DailyTotals)
		logs.GET("/:id", h.GetLog)
		logs.PATCH("/:id", h.UpdateLog)
		logs.DELETE("/:id", h.DeleteLog)
	}
}

func (h *FoodLogHandler) CreateLog(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.CreateFoodLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.logService.CreateLog(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err, "failed to log food")
		return
	}
	c.JSON(http.StatusCreated, types.NewFoodLogResponse(entry))
}

// ListLogs returns the caller's entries, optionally for one ?date=.
func (h *FoodLogHandler) ListLogs(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	logs, err := h.logService.ListLogs(c.Request.Context(), userID, c.Query("date"))
	if err != nil {
		respondError(c, err, "failed to list food logs")
		return
	}

	resp := make([]types.FoodLogResponse, 0, len(logs))
	for i := range logs {
		resp = append(resp, types.NewFoodLogResponse(&logs[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FoodLogHandler) GetLog(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logID, ok := pathID(c, "id")
	if !ok {
		return
	}

	entry, err := h.logService.GetLog(c.Request.Context(), userID, logID)
	if err != nil {
		respondError(c, err, "failed to load food log")
		return
	}
	c.JSON(http.StatusOK, types.NewFoodLogResponse(entry))
}

func (h *FoodLogHandler) UpdateLog(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.UpdateFoodLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	entry, err := h.logService.UpdateLog(c.Request.Context(), userID, logID, &req)
	if err != nil {
		respondError(c, err, "failed to update food log")
		return
	}
	c.JSON(http.StatusOK, types.NewFoodLogResponse(entry))
}

func (h *FoodLogHandler) DeleteLog(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.logService.DeleteLog(c.Request.Context(), userID, logID); err != nil {
		respondError(c, err, "failed to delete food log")
		return
	}
	c.Status(http.StatusNoContent)
}

// DailyTotals sums ?date= (default today) overall and per meal type.
func (h *FoodLogHandler) DailyTotals(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	totals, err := h.logService.DailyTotals(c.Request.Context(), userID, c.Query("date"))
	if err != nil {
		respondError(c, err, "failed to compute daily totals")
		return
	}
	c.JSON(http.StatusOK, totals)
}
