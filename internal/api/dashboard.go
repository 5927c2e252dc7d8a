package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutriplan/backend/internal/nutrition"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/types"
)

// DashboardHandler handles dashboard-related requests
type DashboardHandler struct {
	profileService service.IProfileService
	logService     service.IFoodLogService
	slotService    service.IMealSlotService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(profileService service.IProfileService, logService service.IFoodLogService, slotService service.IMealSlotService) *DashboardHandler {
	return &DashboardHandler{
		profileService: profileService,
		logService:     logService,
		slotService:    slotService,
	}
}

// RegisterRoutes registers the dashboard routes
func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	dashboard := router.Group("/dashboard")
	{
		dashboard.GET("/today", h.Today)
	}
}

// Today compares today's intake with the profile's targets and lists
// today's planned meals.
func (h *DashboardHandler) Today(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	today := nutrition.Today()

	profile, err := h.profileService.GetProfile(ctx, userID)
	if err != nil {
		respondError(c, err, "failed to load profile")
		return
	}
	totals, err := h.logService.DailyTotals(ctx, userID, nutrition.FormatDate(today))
	if err != nil {
		respondError(c, err, "failed to compute daily totals")
		return
	}
	slots, err := h.slotService.SlotsForDate(ctx, userID, today)
	if err != nil {
		respondError(c, err, "failed to load today's meals")
		return
	}

	resp := types.DashboardResponse{
		DailyTotals: *totals,
		Targets: types.Targets{
			Calories: profile.DailyCalorieTarget,
			Protein:  profile.DailyProteinTarget,
			Carbs:    profile.DailyCarbsTarget,
			Fats:     profile.DailyFatsTarget,
		},
		Meals: slotResponses(slots),
	}
	if profile.DailyCalorieTarget != nil {
		remaining := *profile.DailyCalorieTarget - totals.Totals.Calories
		resp.Remaining = &remaining
	}
	c.JSON(http.StatusOK, resp)
}
