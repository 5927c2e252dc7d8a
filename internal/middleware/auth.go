package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutriplan/backend/internal/types"
)

// Context keys set for authenticated requests.
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
)

const unauthenticated = "user not authenticated"

// TokenValidator checks a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

// AuthMiddleware rejects requests without a valid bearer token. Every failure
// answers the same 401 body.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthenticated(c)
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			log.Printf("Rejected token for %s %s: %v", c.Request.Method, c.FullPath(), err)
			abortUnauthenticated(c)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Name)
		c.Next()
	}
}

// bearerToken extracts the credentials from "Bearer <token>". The scheme is
// matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abortUnauthenticated(c *gin.Context) {
	c.Header("WWW-Authenticate", `Bearer realm="nutriplan"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": unauthenticated})
}
