package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/nutriplan/backend/internal/api"
	"github.com/pageza/nutriplan/backend/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(allowedOrigins []string, deps api.Dependencies) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(allowedOrigins))

	api.RegisterRoutes(router, deps)
	return router
}
