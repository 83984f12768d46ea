package feed

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Server serves a Hub at /feed.
type Server struct {
	hub    *Hub
	srv    *http.Server
	ln     net.Listener
	logger *zap.Logger
}

// Listen binds addr and returns a Server ready to Serve.
//
// Precondition: hub must be non-nil.
// Postcondition: Addr reports the bound address, including a port chosen by
// the kernel when addr ends in ":0".
func Listen(addr string, hub *Hub, logger *zap.Logger) (*Server, error) {
	if hub == nil {
		panic("feed.Listen: hub must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("feed.Listen %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/feed", hub)
	return &Server{
		hub:    hub,
		srv:    &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		ln:     ln,
		logger: logger,
	}, nil
}

// Addr returns the listening address.
func (s *Server) Addr() string { return s.ln.Addr().String() }

// Serve blocks until Shutdown is called.
//
// Postcondition: returns nil after a clean Shutdown.
func (s *Server) Serve() error {
	s.logger.Info("feed listening", zap.String("addr", s.Addr()))
	if err := s.srv.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("feed.Server.Serve: %w", err)
	}
	return nil
}

// Shutdown closes the hub's observers and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("feed.Server.Shutdown: %w", err)
	}
	return nil
}
