package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newErrorRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	r.GET("/error", func(c *gin.Context) {
		c.Status(http.StatusBadGateway)
		c.Error(errors.New("upstream failed"))
	})
	r.GET("/unstatused", func(c *gin.Context) {
		c.Error(errors.New("Test error"))
	})
	r.GET("/written", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		c.Error(errors.New("ignored"))
	})
	return r
}

func TestErrorHandler(t *testing.T) {
	r := newErrorRouter()

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/panic", http.StatusInternalServerError, `{"error":"internal server error"}`},
		{"/error", http.StatusBadGateway, `{"error":"upstream failed"}`},
		{"/unstatused", http.StatusInternalServerError, `{"error":"Test error"}`},
		{"/written", http.StatusNotFound, `{"error":"not found"}`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, tt.path, nil)
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}
