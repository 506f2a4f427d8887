// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-realitykey/pkg/keyserver"
)

// shutdownTimeout bounds graceful shutdown after a signal.
const shutdownTimeout = 10 * time.Second

// Flag variables for the serve command.
var (
	serveListenAddr     string
	serveRateLimit      float64
	serveRateBurst      int
	serveMaxBody        int64
	serveClientIPHeader string
)

// serveCmd runs the HTTP key service.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP key service",
	Long: `Serve key generation and derivation over HTTP.

  GET  /                      generate a new key pair
  GET  /?privateKey=<key>     derive the public key for <key>
  POST / {"privateKey":"..."} same as GET, key taken from the JSON body
  GET  /healthz               liveness probe

Responses are indented JSON objects {"privateKey", "publicKey"}. Malformed
keys are rejected with 400, provider failures with 500, both as plain text.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListenAddr, "listen", keyserver.DefaultListenAddr, "TCP listen address")
	serveCmd.Flags().Float64Var(&serveRateLimit, "rate-limit", keyserver.DefaultRateLimit,
		"per-IP requests per second (negative disables)")
	serveCmd.Flags().IntVar(&serveRateBurst, "rate-burst", keyserver.DefaultRateBurst, "per-IP burst size")
	serveCmd.Flags().Int64Var(&serveMaxBody, "max-body", keyserver.DefaultMaxBodyBytes, "maximum POST body in bytes")
	serveCmd.Flags().StringVar(&serveClientIPHeader, "client-ip-header", "",
		"trusted proxy header carrying the client IP for rate limiting (e.g. X-Forwarded-For)")
}

// runServe starts the key server and waits for SIGINT or SIGTERM.
func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx)
}

// serve runs the server until ctx is done.
func serve(ctx context.Context) error {
	svc, err := newService()
	if err != nil {
		return err
	}

	server, err := keyserver.NewServer(&keyserver.ServerConfig{
		ListenAddr:     serveListenAddr,
		Service:        svc,
		RateLimit:      serveRateLimit,
		RateBurst:      serveRateBurst,
		MaxBodyBytes:   serveMaxBody,
		ClientIPHeader: serveClientIPHeader,
		Logger:         slog.Default(),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrServerStart, err)
	}

	if err := server.Start(); err != nil {
		return fmt.Errorf("%w: %w", ErrServerStart, err)
	}

	slog.Info("listening", "addr", server.Addr().String(), "provider", svc.Provider())

	<-ctx.Done()
	slog.Info("shutdown signal received")

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Stop(stopCtx); err != nil {
		return fmt.Errorf("%w: %w", ErrServerStart, err)
	}

	slog.Info("server stopped")
	return nil
}
