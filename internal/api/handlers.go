package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/nutriplan/backend/internal/middleware"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/types"
)

// HealthChecker reports whether a backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Dependencies are the services the HTTP layer is built from. Images, LLM and
// the limiters may be nil-backed; handlers degrade instead of failing to boot.
type Dependencies struct {
	Health    HealthChecker
	Auth      service.IAuthService
	Profiles  service.IProfileService
	MealPlans service.IMealPlanService
	MealSlots service.IMealSlotService
	Foods     service.IFoodService
	FoodLogs  service.IFoodLogService
	Recipes   service.IRecipeService
	LLM       service.ILLMService
	Images    service.IImageService

	GenerationLimiter *middleware.RateLimiter
	ImageLimiter      *middleware.RateLimiter
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	// Health check endpoint (no auth required)
	router.GET("/health", HealthCheck(deps.Health))

	v1 := router.Group("/api/v1")
	NewAuthHandler(deps.Auth).RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Auth))

	NewProfileHandler(deps.Profiles).RegisterRoutes(protected)
	NewMealPlanHandler(deps.MealPlans, deps.MealSlots).RegisterRoutes(protected)
	NewFoodHandler(deps.Foods).RegisterRoutes(protected)
	NewFoodLogHandler(deps.FoodLogs).RegisterRoutes(protected)
	NewRecipeHandler(deps.Recipes, deps.Images, deps.ImageLimiter).RegisterRoutes(protected)
	NewLLMHandler(deps.LLM, deps.Profiles, deps.GenerationLimiter).RegisterRoutes(protected)
	NewDashboardHandler(deps.Profiles, deps.FoodLogs, deps.MealSlots).RegisterRoutes(protected)
	RegisterRateLimitRoutes(protected, deps.GenerationLimiter)
}

// HealthCheck returns the health status of the API
func HealthCheck(checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if checker != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := checker.HealthCheck(ctx); err != nil {
				log.Printf("Health check failed: %v", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "database unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "NutriPlan API is running",
			"version": "v1.0.0",
		})
	}
}

// RegisterRateLimitRoutes registers endpoints for checking rate limit status
func RegisterRateLimitRoutes(router *gin.RouterGroup, generationLimiter *middleware.RateLimiter) {
	rateLimits := router.Group("/rate-limits")
	rateLimits.GET("/recipe-generation", func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		if generationLimiter == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "rate limiting is not configured"})
			return
		}

		remaining, resetTime, err := generationLimiter.GetRemainingRequests(c.Request.Context(), userID.String())
		if err != nil {
			log.Printf("Failed to check rate limit for %s: %v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check rate limit"})
			return
		}

		c.JSON(http.StatusOK, types.RateLimitStatus{
			Limit:     generationLimiter.Limit(),
			Remaining: remaining,
			ResetAt:   resetTime,
		})
	})
}

// currentUserID reads the id set by the auth middleware and answers 401 when
// it is missing.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDVal, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return uuid.Nil, false
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return uuid.Nil, false
	}
	return userID, true
}

// pathID parses a uuid path parameter. Malformed ids cannot name an existing
// row, so they answer 404 like any other unknown id.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return uuid.Nil, false
	}
	return id, true
}

var badRequestErrors = []error{
	service.ErrInvalidQuantity,
	service.ErrInvalidMealType,
	service.ErrInvalidDate,
	service.ErrInvalidRecipe,
	service.ErrInvalidFood,
	service.ErrInvalidOriginalSlot,
	service.ErrInvalidMealsPerDay,
	service.ErrInvalidMealKey,
	service.ErrInvalidMealName,
	service.ErrInvalidProfile,
	service.ErrQueryTooShort,
	service.ErrInvalidImage,
}

// respondError maps service errors onto status codes. Unknown errors are
// logged and reported with the generic message.
func respondError(c *gin.Context, err error, message string) {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrGenerationFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		log.Printf("%s %s: %s: %v", c.Request.Method, c.Request.URL.Path, message, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}
