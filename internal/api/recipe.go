package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutriplan/backend/internal/middleware"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/types"
)

const maxImageBytes = 5 << 20

type RecipeHandler struct {
	recipeService service.IRecipeService
	imageService  service.IImageService
	imageLimiter  *middleware.RateLimiter
}

func NewRecipeHandler(recipeService service.IRecipeService, imageService service.IImageService, imageLimiter *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		imageService:  imageService,
		imageLimiter:  imageLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.POST("", h.CreateRecipe)
		recipes.GET("/examples", h.ExampleRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.PATCH("/:id", h.UpdateRecipe)
		recipes.DELETE("/:id", h.DeleteRecipe)
		recipes.GET("/:id/similar", h.SimilarRecipes)
		recipes.GET("/:id/image-url", h.ImageURL)

		upload := []gin.HandlerFunc{}
		if h.imageLimiter != nil {
			upload = append(upload, h.imageLimiter.PerRecipeRateLimitMiddleware())
		}
		recipes.PUT("/:id/image", append(upload, h.UploadImage)...)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	recipes, err := h.recipeService.ListRecipes(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to list recipes")
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err, "failed to create recipe")
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err, "failed to load recipe")
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), userID, id, &req)
	if err != nil {
		respondError(c, err, "failed to update recipe")
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// DeleteRecipe removes the recipe, empties slots that used it and drops its
// stored image.
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err, "failed to delete recipe")
		return
	}
	if err := h.recipeService.DeleteRecipe(c.Request.Context(), userID, id); err != nil {
		respondError(c, err, "failed to delete recipe")
		return
	}
	if h.imageService != nil && recipe.ImageKey != "" {
		if err := h.imageService.DeleteImage(c.Request.Context(), recipe.ImageKey); err != nil {
			log.Printf("Failed to delete image for recipe %s: %v", id, err)
		}
	}
	c.Status(http.StatusNoContent)
}

// ExampleRecipes lists saved recipes near ?calories= within ?tolerance=
// percent.
func (h *RecipeHandler) ExampleRecipes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	calories, err := strconv.Atoi(c.Query("calories"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "calories must be an integer"})
		return
	}
	var tolerance float64
	if raw := c.Query("tolerance"); raw != "" {
		tolerance, err = strconv.ParseFloat(raw, 64)
		if err != nil || tolerance <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "tolerance must be a positive number"})
			return
		}
	}

	recipes, err := h.recipeService.ExampleRecipes(c.Request.Context(), userID, calories, tolerance)
	if err != nil {
		respondError(c, err, "failed to find example recipes")
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) SimilarRecipes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	recipes, err := h.recipeService.SimilarRecipes(c.Request.Context(), userID, id, limit)
	if err != nil {
		respondError(c, err, "failed to find similar recipes")
		return
	}
	c.JSON(http.StatusOK, recipes)
}

// UploadImage stores the raw request body as the recipe's image. The body's
// Content-Type selects the file extension.
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if h.imageService == nil {
		respondError(c, service.ErrStorageUnavailable, "failed to upload image")
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err, "failed to upload image")
		return
	}

	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes)
	key, err := h.imageService.UploadRecipeImage(c.Request.Context(), recipe.ID, c.ContentType(), body)
	if err != nil {
		respondError(c, err, "failed to upload image")
		return
	}

	previous := recipe.ImageKey
	recipe, err = h.recipeService.SetImageKey(c.Request.Context(), userID, id, key)
	if err != nil {
		respondError(c, err, "failed to upload image")
		return
	}
	if previous != "" && previous != key {
		if err := h.imageService.DeleteImage(c.Request.Context(), previous); err != nil {
			log.Printf("Failed to delete replaced image %s: %v", previous, err)
		}
	}

	url, err := h.imageService.ImageURL(c.Request.Context(), key)
	if err != nil {
		respondError(c, err, "failed to presign image url")
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": recipe, "image": url})
}

// ImageURL presigns a download link for the recipe's image.
func (h *RecipeHandler) ImageURL(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if h.imageService == nil {
		respondError(c, service.ErrStorageUnavailable, "failed to presign image url")
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err, "failed to presign image url")
		return
	}

	url, err := h.imageService.ImageURL(c.Request.Context(), recipe.ImageKey)
	if err != nil {
		respondError(c, err, "failed to presign image url")
		return
	}
	c.JSON(http.StatusOK, url)
}
