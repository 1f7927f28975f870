package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/lodestone-app/lodestone-backend/internal/platform/logger"
)

const shutdownGrace = 10 * time.Second

// Server wraps the gin engine in an http.Server so callers stop it by
// cancelling the context passed to Run.
type Server struct {
	log  *logger.Logger
	http *http.Server
}

func NewServer(cfg RouterConfig) *Server {
	return &Server{
		log:  cfg.Log,
		http: &http.Server{Handler: NewRouter(cfg)},
	}
}

// Run serves on address until ctx is cancelled, then drains in-flight
// requests before returning.
func (s *Server) Run(ctx context.Context, address string) error {
	s.http.Addr = address

	errCh := make(chan error, 1)
	go func() { errCh <- s.http.ListenAndServe() }()
	if s.log != nil {
		s.log.Info("http server listening", "address", address)
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := s.http.Shutdown(drainCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
