// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-realitykey/pkg/b64url"
	"github.com/jeremyhahn/go-realitykey/pkg/x25519key"
)

// generateCmd prints a fresh key pair.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new X25519 key pair",
	Long: `Generate a new random X25519 key pair. Both keys are printed as
URL-safe base64 without padding.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

// deriveCmd prints the key pair for an existing private key.
var deriveCmd = &cobra.Command{
	Use:   "derive [private-key]",
	Short: "Derive the public key for a private key",
	Long: `Derive the X25519 public key for a base64url private key. The private
key is clamped per RFC 7748 before use, so keys differing only in the
clamped bits share a public key. The key may be given as the argument or
with --private-key. Keys beginning with '-' must follow "--" or be passed
as --private-key=<key>.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDerive,
}

func init() {
	deriveCmd.Flags().String("private-key", "", "base64url private key")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}

	kp, err := svc.GenerateEncoded()
	if err != nil {
		return fmt.Errorf("%w: generating keypair: %w", ErrKeyOperation, err)
	}

	slog.Debug("generated key pair", "public_key", kp.PublicKey)
	return printKeyPair(kp)
}

func runDerive(cmd *cobra.Command, args []string) error {
	privateKey, err := privateKeyArg(cmd, args)
	if err != nil {
		return err
	}

	svc, err := newService()
	if err != nil {
		return err
	}

	kp, err := svc.DeriveEncoded(privateKey)
	if err != nil {
		return wrapKeyError(err)
	}

	return printKeyPair(kp)
}

// privateKeyArg returns the private key from the positional argument or
// the --private-key flag. Exactly one must be set.
func privateKeyArg(cmd *cobra.Command, args []string) (string, error) {
	flagKey, _ := cmd.Flags().GetString("private-key")

	switch {
	case len(args) == 1 && flagKey != "":
		return "", fmt.Errorf("%w: give the private key as an argument or --private-key, not both", ErrInvalidInput)
	case len(args) == 1:
		return args[0], nil
	case flagKey != "":
		return flagKey, nil
	default:
		return "", fmt.Errorf("%w: private key is required", ErrInvalidInput)
	}
}

// wrapKeyError tags caller input errors with ErrInvalidInput and everything
// else with ErrKeyOperation.
func wrapKeyError(err error) error {
	if errors.Is(err, b64url.ErrInvalidFormat) || errors.Is(err, x25519key.ErrInvalidKeyLength) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return fmt.Errorf("%w: %w", ErrKeyOperation, err)
}

func printKeyPair(kp *x25519key.EncodedKeyPair) error {
	data, err := renderKeyPair(kp)
	if err != nil {
		return err
	}
	return writeOutput(data)
}
