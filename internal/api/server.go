package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"verbatim/internal/config"
	"verbatim/internal/logging"
	"verbatim/internal/registry"
)

const shutdownGrace = 10 * time.Second

// Server is the HTTP front of the transcript service.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer builds the router from configuration and binds it to the
// configured address. Start must be called to begin serving.
func NewServer(cfg *config.Config, reg *registry.Registry, logger *slog.Logger) *Server {
	handlers := NewHandlers(reg, cfg.Paths.StagingDir, cfg.MaxUploadBytes(), logger)
	router := NewRouter(handlers, cfg.Server.AllowedOrigins, logger)
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Paths.Bind,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logging.NewComponentLogger(logger, "server"),
	}
}

// Start serves until ctx is canceled, then drains in-flight requests before
// returning. A listener failure surfaces immediately.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", logging.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}
