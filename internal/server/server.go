package server

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New wraps router in an HTTP server listening on host:port.
func New(host, port string, router *gin.Engine) *Server {
	return &Server{
		router: router,
		http: &http.Server{
			Addr:              net.JoinHostPort(host, port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			// Generation waits on a 30 s LLM call plus one retry.
			WriteTimeout: 75 * time.Second,
			IdleTimeout:  2 * time.Minute,
		},
	}
}

// Addr is the configured listen address.
func (s *Server) Addr() string {
	return s.http.Addr
}

// Start serves until Stop is called. It returns nil after a graceful stop.
func (s *Server) Start() error {
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
