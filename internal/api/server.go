// Package api exposes the HTTP surface of the synchronization service:
// the sync trigger endpoint, the run history views, and the health check.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/LAMMedina/proyecto-sincronizacion/internal/config"
	"github.com/LAMMedina/proyecto-sincronizacion/internal/pkg/logger"
)

// Server is the API server.
type Server struct {
	config   config.ServerConfig
	handlers *Handlers
	server   *http.Server
}

// NewServer creates the API server.
func NewServer(cfg config.ServerConfig, handlers *Handlers) *Server {
	router := SetupRoutes(handlers, cfg.AllowedOrigins)

	return &Server{
		config:   cfg,
		handlers: handlers,
		server: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler: router,
			// Sync runs pace one second per item, so large boards take
			// minutes; the write timeout has to absorb a full run.
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Minute,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

// Start begins serving; it blocks until the server stops.
func (s *Server) Start() error {
	logger.Info("API server listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
