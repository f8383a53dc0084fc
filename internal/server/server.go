package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/lexquery/lexquery/internal/common"
)

// Server wraps the HTTP server and its routes
type Server struct {
	httpServer *http.Server
	config     *common.Config
	logger     arbor.ILogger
}

// New creates a configured HTTP server with all routes and middleware
func New(config *common.Config, deps RouteDeps, logger arbor.ILogger) *Server {
	mux := http.NewServeMux()
	registerRoutes(mux, config, deps, logger)

	handler := chainMiddleware(mux,
		recoveryMiddleware(logger),
		corsMiddleware(),
		rateLimitMiddleware(&config.RateLimit, logger),
		loggingMiddleware(logger),
	)

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		config: config,
		logger: logger,
	}
}

// Start begins serving HTTP requests. Blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("HTTP server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server, draining in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}
