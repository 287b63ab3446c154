// Package server exposes the search service over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Milesbeckerle/mercado-livre-api/pkg/logging"
)

// Server wraps the HTTP server with sane timeouts.
type Server struct {
	srv    *http.Server
	logger zerolog.Logger
}

// New creates a new server instance listening on the given port.
func New(handler http.Handler, port string) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         ":" + port,
			Handler:      handler,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		logger: logging.NewLogger("server"),
	}
}

// Start serves until Shutdown is called. A regular shutdown is not
// reported as an error.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.srv.Addr).Msg("Starting HTTP server")

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down HTTP server")
	return s.srv.Shutdown(ctx)
}
