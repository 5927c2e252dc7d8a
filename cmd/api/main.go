package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/nutriplan/backend/config"
	"github.com/pageza/nutriplan/backend/internal/api"
	"github.com/pageza/nutriplan/backend/internal/database"
	"github.com/pageza/nutriplan/backend/internal/middleware"
	"github.com/pageza/nutriplan/backend/internal/router"
	"github.com/pageza/nutriplan/backend/internal/server"
	"github.com/pageza/nutriplan/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.OpenGorm(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db, getMigrationsDir()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	healthDB, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to open health check pool: %v", err)
	}
	defer healthDB.Close()

	// Redis backs rate limits and generated drafts. Without it both degrade.
	var redisClient *redis.Client
	if cfg.RedisHost != "" || cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(cfg)
		if err != nil {
			log.Printf("Warning: Redis unavailable, rate limiting and drafts disabled: %v", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var store service.ObjectStore
	if cfg.S3BucketName != "" {
		s3Cfg, err := config.NewS3Config(context.Background(), cfg)
		if err != nil {
			log.Printf("Warning: S3 unavailable, recipe images disabled: %v", err)
		} else {
			store = s3Cfg
		}
	}

	deps := api.Dependencies{
		Health:    healthDB,
		Auth:      service.NewAuthService(db, cfg.JWTSecret),
		Profiles:  service.NewProfileService(db),
		MealPlans: service.NewMealPlanService(db),
		MealSlots: service.NewMealSlotService(db),
		Foods:     service.NewFoodService(db),
		FoodLogs:  service.NewFoodLogService(db),
		Recipes:   service.NewRecipeService(db, service.NewEmbeddingService()),
		LLM:       service.NewLLMService(cfg, redisClient),
		Images:    service.NewImageService(store),

		GenerationLimiter: middleware.NewRecipeGenerationRateLimiter(redisClient, cfg.RecipeGenerationLimit),
		ImageLimiter:      middleware.NewRecipeImageRateLimiter(redisClient),
	}

	srv := server.New(cfg.ServerHost, cfg.ServerPort, router.SetupRouter(cfg.CORSAllowedOrigins, deps))

	errChan := make(chan error, 1)
	go func() {
		log.Println("Starting server...")
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}

func getMigrationsDir() string {
	if dir := os.Getenv("MIGRATIONS_DIR"); dir != "" {
		return dir
	}
	return "migrations"
}
