// Package server exposes read-only container introspection over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/danpasecinic/kiln"
)

// Server is registered in the container like any other service: Initialize
// starts listening and Dispose shuts the listener down.
type Server struct {
	http   *http.Server
	logger *slog.Logger

	mu       sync.Mutex
	listener net.Listener
	done     chan struct{}
}

func New(addr string, c *kiln.Container, logger *slog.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(c, logger),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

func (s *Server) Initialize(_ context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = ln
	s.done = make(chan struct{})
	s.mu.Unlock()

	s.logger.Info("introspection server listening", "addr", ln.Addr().String())
	go func() {
		defer close(s.done)
		if err := s.http.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("introspection server error", "error", err)
		}
	}()
	return nil
}

func (s *Server) Dispose(ctx context.Context) error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	if done == nil {
		return nil
	}

	s.logger.Info("stopping introspection server")
	err := s.http.Shutdown(ctx)
	<-done
	return err
}

func (s *Server) HealthCheck(_ context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.listener != nil
}

// Addr is the bound address once the server is listening, else the
// configured one.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.http.Addr
}
