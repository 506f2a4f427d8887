// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package keyserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"
)

// Server is the HTTP key server.
type Server struct {
	cfg     ServerConfig
	handler *Handler
	limiter *ipLimiter
	logger  *slog.Logger

	// sweepInterval is how often idle limiter entries are evicted.
	sweepInterval time.Duration

	mu        sync.Mutex
	http      *http.Server
	listener  net.Listener
	done      chan struct{}
	stopSweep context.CancelFunc
	sweepDone chan struct{}
}

// NewServer validates cfg, applies defaults and returns a Server that has
// not yet started listening.
func NewServer(cfg *ServerConfig) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if cfg.Service == nil {
		return nil, fmt.Errorf("%w: service is required", ErrInvalidConfig)
	}

	c := cfg.withDefaults()

	var limiter *ipLimiter
	if c.RateLimit > 0 {
		limiter = newIPLimiter(c.RateLimit, c.RateBurst, limiterStaleAge)
	}

	return &Server{
		cfg:     c,
		handler: newHandler(c, limiter),
		limiter: limiter,
		logger:  c.Logger,

		sweepInterval: limiterSweepInterval,
	}, nil
}

// Handler returns the server's HTTP handler, for mounting elsewhere or
// testing with httptest.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start binds the listen address and serves in the background. Idle rate
// limiter entries are evicted while the server runs. A stopped server may
// be started again.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.http != nil {
		return ErrServerAlreadyStarted
	}

	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("keyserver: listen %s: %w", s.cfg.ListenAddr, err)
	}

	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
	done := make(chan struct{})

	go func() {
		defer close(done)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("serve failed", "error", err)
		}
	}()

	s.http = srv
	s.listener = ln
	s.done = done

	if s.limiter != nil {
		ctx, cancel := context.WithCancel(context.Background())
		sweepDone := make(chan struct{})
		go func() {
			defer close(sweepDone)
			s.limiter.run(ctx, s.sweepInterval)
		}()
		s.stopSweep = cancel
		s.sweepDone = sweepDone
	}

	s.logger.Info("key server started", "addr", ln.Addr().String(), "provider", s.cfg.Service.Provider())
	return nil
}

// Addr returns the bound address, or nil if the server is not running.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop gracefully shuts the server down, waiting for in-flight requests
// until ctx is done.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv, done := s.http, s.done
	stopSweep, sweepDone := s.stopSweep, s.sweepDone
	s.http, s.listener, s.done = nil, nil, nil
	s.stopSweep, s.sweepDone = nil, nil
	s.mu.Unlock()

	if srv == nil {
		return ErrServerNotStarted
	}

	if stopSweep != nil {
		stopSweep()
		<-sweepDone
	}

	err := srv.Shutdown(ctx)
	if err != nil {
		_ = srv.Close()
	}
	<-done

	s.logger.Info("key server stopped")
	return err
}
