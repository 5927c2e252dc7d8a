package middleware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// RateLimiter counts requests per user in fixed Redis windows. A limiter
// without a Redis client allows everything.
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
}

// NewRateLimiter creates a new rate limiter instance
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		config: config,
	}
}

// NewRecipeGenerationRateLimiter limits LLM recipe generation to limit
// requests per user per hour.
func NewRecipeGenerationRateLimiter(redisClient *redis.Client, limit int) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    time.Hour,
		Limit:     limit,
		KeyPrefix: "rate_limit:recipe_generation",
	})
}

// NewRecipeImageRateLimiter limits image uploads to 10 per recipe per hour.
func NewRecipeImageRateLimiter(redisClient *redis.Client) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    time.Hour,
		Limit:     10,
		KeyPrefix: "rate_limit:recipe_image",
	})
}

// Limit is the number of requests allowed per window.
func (rl *RateLimiter) Limit() int {
	return rl.config.Limit
}

// RateLimitMiddleware returns a Gin middleware that enforces rate limiting
func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get(ContextUserID)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}
		rl.enforce(c, fmt.Sprintf("%v", userID), "requests")
	}
}

// PerRecipeRateLimitMiddleware limits requests per user and recipe id.
func (rl *RateLimiter) PerRecipeRateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get(ContextUserID)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}

		recipeID := c.Param("id")
		if recipeID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "recipe ID is required"})
			c.Abort()
			return
		}
		rl.enforce(c, fmt.Sprintf("%v:%s", userID, recipeID), "requests per recipe")
	}
}

func (rl *RateLimiter) enforce(c *gin.Context, key, unit string) {
	allowed, remaining, resetTime, err := rl.IsAllowed(c.Request.Context(), key)
	if err != nil {
		// Log error but don't fail the request
		log.Printf("Rate limit check failed for %s: %v", key, err)
		c.Header("X-RateLimit-Error", "rate limit check failed")
		c.Next()
		return
	}

	c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

	if !allowed {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":                "rate limit exceeded",
			"message":              fmt.Sprintf("You have exceeded the rate limit of %d %s per %v", rl.config.Limit, unit, rl.config.Window),
			"rate_limit_remaining": remaining,
			"rate_limit_reset":     resetTime.Unix(),
			"retry_after":          int(time.Until(resetTime).Seconds()),
		})
		c.Abort()
		return
	}

	c.Next()
}

func (rl *RateLimiter) window(userID string) (string, time.Time) {
	windowStart := time.Now().Truncate(rl.config.Window)
	key := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, userID, windowStart.Unix())
	return key, windowStart.Add(rl.config.Window)
}

// IsAllowed counts a request from the given user and reports whether it fits
// in the current window.
// Returns: allowed, remaining requests, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, userID string) (bool, int, time.Time, error) {
	key, resetTime := rl.window(userID)
	if rl.redis == nil {
		return true, rl.config.Limit, resetTime, nil
	}

	// Use Redis pipeline for atomic operations
	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rl.config.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	return count <= rl.config.Limit, remainingFor(rl.config.Limit, count), resetTime, nil
}

// CheckOnly checks if a request would be allowed without incrementing the counter
func (rl *RateLimiter) CheckOnly(ctx context.Context, userID string) (bool, int, time.Time, error) {
	remaining, resetTime, err := rl.GetRemainingRequests(ctx, userID)
	if err != nil {
		return false, 0, time.Time{}, err
	}
	return remaining > 0, remaining, resetTime, nil
}

// IncrementUsage increments the usage counter for a user
func (rl *RateLimiter) IncrementUsage(ctx context.Context, userID string) error {
	_, _, _, err := rl.IsAllowed(ctx, userID)
	return err
}

// GetRemainingRequests returns the number of remaining requests for a user
func (rl *RateLimiter) GetRemainingRequests(ctx context.Context, userID string) (int, time.Time, error) {
	key, resetTime := rl.window(userID)
	if rl.redis == nil {
		return rl.config.Limit, resetTime, nil
	}

	count, err := rl.redis.Get(ctx, key).Int()
	if errors.Is(err, redis.Nil) {
		// No requests yet in this window
		return rl.config.Limit, resetTime, nil
	}
	if err != nil {
		return 0, time.Time{}, err
	}
	return remainingFor(rl.config.Limit, count), resetTime, nil
}

func remainingFor(limit, count int) int {
	if remaining := limit - count; remaining > 0 {
		return remaining
	}
	return 0
}
