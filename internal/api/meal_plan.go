package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/types"
)

// MealPlanHandler serves weekly plans and their slots.
type MealPlanHandler struct {
	planService service.IMealPlanService
	slotService service.IMealSlotService
}

func NewMealPlanHandler(planService service.IMealPlanService, slotService service.IMealSlotService) *MealPlanHandler {
	return &MealPlanHandler{
		planService: planService,
		slotService: slotService,
	}
}

func (h *MealPlanHandler) RegisterRoutes(router *gin.RouterGroup) {
	plans := router.Group("/meal-plans")
	{
		plans.GET("", h.ListPlans)
		plans.GET("/current", h.CurrentWeek)
		plans.GET("/by-date", h.WeekForDate)
		plans.GET("/meal-target", h.MealTarget)
		plans.GET("/:id", h.GetPlan)
		plans.DELETE("/:id", h.DeletePlan)
	}

	slots := router.Group("/meal-slots")
	{
		slots.GET("", h.ListSlots)
		slots.GET("/:id", h.GetSlot)
		slots.PATCH("/:id", h.UpdateSlot)
		slots.DELETE("/:id", h.DeleteSlot)
	}
}

// CurrentWeek returns this week's plan, creating it on first access.
func (h *MealPlanHandler) CurrentWeek(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	plan, created, err := h.planService.CurrentWeek(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to load meal plan")
		return
	}
	c.JSON(http.StatusOK, types.NewMealPlanResponse(plan, created))
}

// WeekForDate returns the plan for the week containing ?date=YYYY-MM-DD.
func (h *MealPlanHandler) WeekForDate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}

	plan, created, err := h.planService.WeekForDate(c.Request.Context(), userID, date)
	if err != nil {
		respondError(c, err, "failed to load meal plan")
		return
	}
	c.JSON(http.StatusOK, types.NewMealPlanResponse(plan, created))
}

func (h *MealPlanHandler) ListPlans(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	plans, err := h.planService.ListPlans(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to list meal plans")
		return
	}

	resp := make([]types.MealPlanSummary, 0, len(plans))
	for i := range plans {
		resp = append(resp, types.NewMealPlanSummary(&plans[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MealPlanHandler) GetPlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathID(c, "id")
	if !ok {
		return
	}

	plan, err := h.planService.GetPlan(c.Request.Context(), userID, planID)
	if err != nil {
		respondError(c, err, "failed to load meal plan")
		return
	}
	c.JSON(http.StatusOK, types.NewMealPlanResponse(plan, false))
}

func (h *MealPlanHandler) DeletePlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.planService.DeletePlan(c.Request.Context(), userID, planID); err != nil {
		respondError(c, err, "failed to delete meal plan")
		return
	}
	c.Status(http.StatusNoContent)
}

// MealTarget reports the calorie target for ?meal_number=n.
func (h *MealPlanHandler) MealTarget(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	mealNumber, err := strconv.Atoi(c.Query("meal_number"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "meal_number must be an integer"})
		return
	}

	target, err := h.planService.MealTarget(c.Request.Context(), userID, mealNumber)
	if err != nil {
		respondError(c, err, "failed to compute meal target")
		return
	}
	c.JSON(http.StatusOK, target)
}

// ListSlots returns the caller's slots, optionally for one ?meal_plan=<id>.
func (h *MealPlanHandler) ListSlots(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var planID *uuid.UUID
	if raw := c.Query("meal_plan"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meal_plan id"})
			return
		}
		planID = &id
	}

	slots, err := h.slotService.ListSlots(c.Request.Context(), userID, planID)
	if err != nil {
		respondError(c, err, "failed to list meal slots")
		return
	}
	c.JSON(http.StatusOK, slotResponses(slots))
}

func (h *MealPlanHandler) GetSlot(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	slotID, ok := pathID(c, "id")
	if !ok {
		return
	}

	slot, err := h.slotService.GetSlot(c.Request.Context(), userID, slotID)
	if err != nil {
		respondError(c, err, "failed to load meal slot")
		return
	}
	c.JSON(http.StatusOK, types.NewMealSlotResponse(slot))
}

// UpdateSlot assigns or clears the recipe, leftover link and notes.
func (h *MealPlanHandler) UpdateSlot(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	slotID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.UpdateMealSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	slot, err := h.slotService.UpdateSlot(c.Request.Context(), userID, slotID, &req)
	if err != nil {
		respondError(c, err, "failed to update meal slot")
		return
	}
	c.JSON(http.StatusOK, types.NewMealSlotResponse(slot))
}

func (h *MealPlanHandler) DeleteSlot(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	slotID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.slotService.DeleteSlot(c.Request.Context(), userID, slotID); err != nil {
		respondError(c, err, "failed to delete meal slot")
		return
	}
	c.Status(http.StatusNoContent)
}

func slotResponses(slots []models.MealSlot) []types.MealSlotResponse {
	resp := make([]types.MealSlotResponse, 0, len(slots))
	for i := range slots {
		resp = append(resp, types.NewMealSlotResponse(&slots[i]))
	}
	return resp
}
