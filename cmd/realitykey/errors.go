// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package main

import (
	"errors"

	"github.com/jeremyhahn/go-realitykey/pkg/b64url"
	"github.com/jeremyhahn/go-realitykey/pkg/keyrecord"
	"github.com/jeremyhahn/go-realitykey/pkg/x25519key"
)

// Exit codes for the CLI.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitFailure indicates a key, network or verification operation failed.
	ExitFailure = 1

	// ExitConfigError indicates a configuration or input validation error.
	ExitConfigError = 2
)

// Sentinel errors for CLI operations.
var (
	// ErrInvalidInput is returned when required input parameters are missing or invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrKeyOperation is returned when key generation or derivation fails.
	ErrKeyOperation = errors.New("key operation failed")

	// ErrVerificationFailed is returned when a published key does not match.
	ErrVerificationFailed = errors.New("verification failed")

	// ErrFileOperation is returned when a file read or write operation fails.
	ErrFileOperation = errors.New("file operation failed")

	// ErrServerStart is returned when the key server fails to start or stop.
	ErrServerStart = errors.New("serve: server start failed")
)

// inputErrors are mapped to ExitConfigError.
var inputErrors = []error{
	ErrInvalidInput,
	b64url.ErrInvalidFormat,
	b64url.ErrInvalidLength,
	x25519key.ErrInvalidKeyLength,
	x25519key.ErrUnknownProvider,
	keyrecord.ErrInvalidName,
	keyrecord.ErrResolverConfig,
}

// exitCode maps an error returned by a command to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	for _, target := range inputErrors {
		if errors.Is(err, target) {
			return ExitConfigError
		}
	}
	return ExitFailure
}
