// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

// Package keyserver exposes X25519 key generation and public key
// derivation over HTTP. A request without a private key receives a fresh
// key pair; a request carrying one receives it back with its public key.
package keyserver

import "errors"

// Sentinel errors for the keyserver package.
var (
	// ErrInvalidConfig indicates the server configuration is nil or missing
	// required fields.
	ErrInvalidConfig = errors.New("keyserver: invalid configuration")

	// ErrServerAlreadyStarted indicates Start was called on a running server.
	ErrServerAlreadyStarted = errors.New("keyserver: server already started")

	// ErrServerNotStarted indicates Stop was called before Start.
	ErrServerNotStarted = errors.New("keyserver: server not started")

	// ErrInvalidJSON indicates a POST body that is not a JSON object with an
	// optional string privateKey field.
	ErrInvalidJSON = errors.New("keyserver: invalid JSON body")
)
