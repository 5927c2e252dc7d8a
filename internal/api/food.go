package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutriplan/backend/internal/service"
)

type FoodHandler struct {
	foodService service.IFoodService
}

func NewFoodHandler(foodService service.IFoodService) *FoodHandler {
	return &FoodHandler{foodService: foodService}
}

func (h *FoodHandler) RegisterRoutes(router *gin.RouterGroup) {
	foods := router.Group("/foods")
	{
		foods.GET("/search", h.SearchFoods)
		foods.GET("/:id", h.GetFood)
	}
}

// SearchFoods matches ?q= against description and brand owner.
func (h *FoodHandler) SearchFoods(c *gin.Context) {
	foods, err := h.foodService.SearchFoods(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err, "failed to search foods")
		return
	}
	c.JSON(http.StatusOK, foods)
}

func (h *FoodHandler) GetFood(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	food, err := h.foodService.GetFood(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "failed to load food")
		return
	}
	c.JSON(http.StatusOK, food)
}
