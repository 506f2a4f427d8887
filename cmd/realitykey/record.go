// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-realitykey/pkg/b64url"
	"github.com/jeremyhahn/go-realitykey/pkg/keyrecord"
	"github.com/jeremyhahn/go-realitykey/pkg/x25519key"
)

// defaultLookupTimeout bounds the TXT lookup performed by verify.
const defaultLookupTimeout = 5 * time.Second

// recordCmd prints a TXT record publishing a public key.
var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Print a DNS TXT record for a public key",
	Long: `Print a zone file line publishing an X25519 public key as a TXT record:

  <name>. <ttl> IN TXT "v=reality1; pbk=<public key>"

The public key is given directly with --public-key or derived from
--private-key.`,
	Args: cobra.NoArgs,
	RunE: runRecord,
}

// verifyCmd checks a published TXT record against a private key.
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a published TXT record against a private key",
	Long: `Look up the key TXT record at --name and check that the published
public key matches the one derived from --private-key.`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

func init() {
	recordCmd.Flags().String("name", "", "DNS owner name (required)")
	recordCmd.Flags().Uint32("ttl", keyrecord.DefaultTTL, "record TTL in seconds")
	recordCmd.Flags().String("public-key", "", "base64url public key")
	recordCmd.Flags().String("private-key", "", "base64url private key to derive the public key from")

	verifyCmd.Flags().String("name", "", "DNS owner name (required)")
	verifyCmd.Flags().String("private-key", "", "base64url private key (required)")
	verifyCmd.Flags().String("dns-server", "", "DNS server address (default: system resolver)")
	verifyCmd.Flags().Duration("timeout", defaultLookupTimeout, "DNS query timeout")
}

func runRecord(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	ttl, _ := cmd.Flags().GetUint32("ttl")
	publicKey, _ := cmd.Flags().GetString("public-key")
	privateKey, _ := cmd.Flags().GetString("private-key")

	if name == "" {
		return fmt.Errorf("%w: --name is required", ErrInvalidInput)
	}

	var pub []byte
	switch {
	case publicKey != "" && privateKey != "":
		return fmt.Errorf("%w: use --public-key or --private-key, not both", ErrInvalidInput)
	case publicKey != "":
		key, err := b64url.DecodeKey(publicKey)
		if err != nil {
			return fmt.Errorf("%w: public key: %w", ErrInvalidInput, err)
		}
		pub = key
	case privateKey != "":
		key, err := derivePublicKey(privateKey)
		if err != nil {
			return err
		}
		pub = key
	default:
		return fmt.Errorf("%w: --public-key or --private-key is required", ErrInvalidInput)
	}

	line, err := keyrecord.FormatTXT(name, ttl, pub)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return writeOutput([]byte(line + "\n"))
}

func runVerify(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	privateKey, _ := cmd.Flags().GetString("private-key")
	server, _ := cmd.Flags().GetString("dns-server")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	if name == "" {
		return fmt.Errorf("%w: --name is required", ErrInvalidInput)
	}
	if privateKey == "" {
		return fmt.Errorf("%w: --private-key is required", ErrInvalidInput)
	}

	want, err := derivePublicKey(privateKey)
	if err != nil {
		return err
	}

	resolver, err := keyrecord.NewResolver(&keyrecord.ResolverConfig{
		Server:  server,
		Timeout: timeout,
		Logger:  slog.Default(),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	published, err := resolver.LookupPublicKey(ctx, name)
	if err != nil {
		return err
	}

	if !bytes.Equal(want, published) {
		return fmt.Errorf("%w: %s publishes %s, private key gives %s",
			ErrVerificationFailed, name, b64url.Encode(published), b64url.Encode(want))
	}

	slog.Info("published key matches", "name", name, "public_key", b64url.Encode(want))
	return writeOutput([]byte("OK " + b64url.Encode(want) + "\n"))
}

// derivePublicKey decodes a base64url private key and derives its public key.
func derivePublicKey(privateKey string) ([]byte, error) {
	svc, err := newService()
	if err != nil {
		return nil, err
	}

	priv, err := b64url.Decode(privateKey)
	if err != nil {
		return nil, wrapKeyError(err)
	}
	defer x25519key.WipeBytes(priv)

	pub, err := svc.Derive(priv)
	if err != nil {
		return nil, wrapKeyError(err)
	}
	return pub, nil
}
