package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutriplan/backend/internal/middleware"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/types"
)

// LLMHandler handles LLM-related requests
type LLMHandler struct {
	llmService     service.ILLMService
	profileService service.IProfileService
	rateLimiter    *middleware.RateLimiter
}

// NewLLMHandler creates a new LLMHandler instance
func NewLLMHandler(llmService service.ILLMService, profileService service.IProfileService, rateLimiter *middleware.RateLimiter) *LLMHandler {
	return &LLMHandler{
		llmService:     llmService,
		profileService: profileService,
		rateLimiter:    rateLimiter,
	}
}

// RegisterRoutes registers the LLM routes
func (h *LLMHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		generate := []gin.HandlerFunc{}
		if h.rateLimiter != nil {
			generate = append(generate, h.rateLimiter.RateLimitMiddleware())
		}
		recipes.POST("/generate", append(generate, h.GenerateRecipe)...)
		recipes.GET("/drafts/:draft_id", h.GetDraft)
	}
}

// GenerateRecipe asks the model for a recipe sized from the caller's profile.
func (h *LLMHandler) GenerateRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.GenerateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to load profile")
		return
	}

	prompt, err := service.BuildRecipePrompt(profile, &req)
	if err != nil {
		respondError(c, err, "failed to build recipe prompt")
		return
	}

	recipe, err := h.llmService.GenerateRecipe(c.Request.Context(), prompt)
	if err != nil {
		respondError(c, err, "failed to generate recipe")
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// GetDraft returns a generated recipe while it is still cached.
func (h *LLMHandler) GetDraft(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	draft, err := h.llmService.GetDraft(c.Request.Context(), c.Param("draft_id"))
	if err != nil {
		respondError(c, err, "failed to load draft")
		return
	}
	c.JSON(http.StatusOK, draft)
}
