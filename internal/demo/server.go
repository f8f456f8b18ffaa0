package demo

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Server serves a Backend over HTTP until its context is cancelled.
type Server struct {
	port      int
	backend   *Backend
	server    *http.Server
	startedAt time.Time
}

// NewServer creates a new demo server
func NewServer(port int, backend *Backend) *Server {
	return &Server{
		port:      port,
		backend:   backend,
		startedAt: time.Now(),
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf(":%d", s.port)
}

// Start blocks serving requests until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              s.Addr(),
		Handler:           s.backend.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}

// Stop stops the demo server
func (s *Server) Stop() error {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}
