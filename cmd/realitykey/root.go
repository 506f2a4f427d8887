// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-realitykey/pkg/x25519key"
)

// Output formats for key pairs.
const (
	formatJSON = "json"
	formatText = "text"
)

var (
	quiet        bool
	debug        bool
	format       string
	outputFile   string
	logFormat    string
	providerName string
)

// logLevel controls the global slog level at runtime.
var logLevel = new(slog.LevelVar)

// exitFunc is the function called to exit the program.
// This can be overridden in tests to capture exit calls.
var exitFunc = os.Exit

var rootCmd = &cobra.Command{
	Use:   "realitykey",
	Short: "X25519 key tool for REALITY-style transports",
	Long: `realitykey generates X25519 key pairs and derives public keys from
existing private keys. Keys are raw 32-byte values encoded as URL-safe
base64 without padding, as expected by REALITY-style TLS transports.

Commands:
  generate - create a new key pair
  derive   - compute the public key for a private key
  serve    - expose generate/derive over HTTP
  record   - print a DNS TXT record publishing a public key
  verify   - check a published TXT record against a private key`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogging()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output (errors only)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&format, "format", formatJSON, "key pair output format (json|text)")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log output format (text|json)")
	rootCmd.PersistentFlags().StringVar(&providerName, "provider", x25519key.DefaultProvider,
		"curve provider ("+strings.Join(x25519key.Providers(), "|")+")")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(deriveCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(verifyCmd)
}

// initLogging configures the global slog logger based on CLI flags.
//
//	--debug: LevelDebug with source location
//	default: LevelInfo
//	--quiet: LevelError (only errors shown)
//
// --debug takes precedence over --quiet.
// --log-format selects the handler: "text" (default) or "json".
func initLogging() {
	switch {
	case debug:
		logLevel.Set(slog.LevelDebug)
	case quiet:
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{
		Level:     logLevel,
		AddSource: debug,
	}

	handlers := map[string]func(io.Writer, *slog.HandlerOptions) slog.Handler{
		"text": func(w io.Writer, o *slog.HandlerOptions) slog.Handler { return slog.NewTextHandler(w, o) },
		"json": func(w io.Writer, o *slog.HandlerOptions) slog.Handler { return slog.NewJSONHandler(w, o) },
	}

	factory, ok := handlers[logFormat]
	if !ok {
		factory = handlers["text"]
	}

	slog.SetDefault(slog.New(factory(os.Stderr, opts)))
}

// newService builds the key service for the --provider flag.
func newService() (*x25519key.Service, error) {
	provider, err := x25519key.ProviderByName(providerName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	slog.Debug("using provider", "provider", provider.Name())

	return x25519key.New(&x25519key.Config{
		Provider: provider,
		Logger:   slog.Default(),
	}), nil
}

// renderKeyPair formats a key pair per the --format flag. JSON output is
// indented by four spaces with privateKey first.
func renderKeyPair(kp *x25519key.EncodedKeyPair) ([]byte, error) {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(kp, "", "    ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case formatText:
		return fmt.Appendf(nil, "Private key: %s\nPublic key: %s\n", kp.PrivateKey, kp.PublicKey), nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidInput, format)
	}
}

// writeOutput writes data to the configured output file or stdout.
// It respects the --output flag; when empty, writes to stdout.
func writeOutput(data []byte) error {
	if outputFile != "" {
		if err := os.WriteFile(outputFile, data, 0600); err != nil {
			return fmt.Errorf("%w: %w", ErrFileOperation, err)
		}
		slog.Info("written to file", "path", outputFile, "bytes", len(data))
		return nil
	}
	_, err := os.Stdout.Write(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileOperation, err)
	}
	return nil
}
