// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package keyserver

import (
	"log/slog"
	"time"

	"github.com/jeremyhahn/go-realitykey/pkg/x25519key"
)

// Default configuration values for the key server.
const (
	// DefaultListenAddr is the default TCP address the server binds to.
	DefaultListenAddr = ":8080"

	// DefaultReadTimeout bounds reading a full request.
	DefaultReadTimeout = 10 * time.Second

	// DefaultWriteTimeout bounds writing a full response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultMaxBodyBytes caps the POST body size. A key request is a few
	// dozen bytes.
	DefaultMaxBodyBytes = 4096

	// DefaultRateLimit is the default token refill rate (requests per second per IP).
	DefaultRateLimit = 10.0

	// DefaultRateBurst is the default maximum burst size per IP.
	DefaultRateBurst = 20

	// limiterStaleAge is how long an idle client entry is retained.
	limiterStaleAge = 10 * time.Minute

	// limiterSweepInterval is how often idle client entries are evicted.
	limiterSweepInterval = time.Minute
)

// ServerConfig configures the HTTP key server.
type ServerConfig struct {
	// ListenAddr is the TCP address to bind (e.g., ":8080"). Empty selects
	// DefaultListenAddr.
	ListenAddr string

	// Service performs key generation and derivation. Required.
	Service *x25519key.Service

	// ReadTimeout is the deadline for reading a request. Zero selects
	// DefaultReadTimeout.
	ReadTimeout time.Duration

	// WriteTimeout is the deadline for writing a response. Zero selects
	// DefaultWriteTimeout.
	WriteTimeout time.Duration

	// MaxBodyBytes limits the POST body. Zero or negative selects
	// DefaultMaxBodyBytes.
	MaxBodyBytes int64

	// RateLimit is the per-IP token refill rate in requests per second.
	// Zero selects DefaultRateLimit; a negative value disables limiting.
	RateLimit float64

	// RateBurst is the per-IP burst size. Zero or negative selects
	// DefaultRateBurst.
	RateBurst int

	// ClientIPHeader names a request header set by a trusted reverse proxy
	// (e.g., "X-Forwarded-For" or "CF-Connecting-IP") whose first address
	// is rate limited instead of the connection's peer. Empty uses the
	// peer address. Only set it when every request passes through the proxy.
	ClientIPHeader string

	// Logger is the structured logger. If nil, logging is discarded.
	Logger *slog.Logger
}

// withDefaults returns a copy of cfg with zero values replaced.
func (cfg ServerConfig) withDefaults() ServerConfig {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = DefaultRateLimit
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = DefaultRateBurst
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return cfg
}
