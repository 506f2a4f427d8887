// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

// Package x25519key generates X25519 key pairs and derives public keys
// from caller-supplied private scalars. The scalar multiplication itself is
// delegated to a Provider so the curve implementation can be swapped.
package x25519key

import "errors"

// Sentinel errors for the x25519key package.
var (
	// ErrInvalidKeyLength indicates a private or public key that is not
	// exactly KeySize bytes.
	ErrInvalidKeyLength = errors.New("x25519key: invalid key length")

	// ErrProvider indicates the underlying curve provider failed. The
	// provider's own error is wrapped alongside it.
	ErrProvider = errors.New("x25519key: provider failure")

	// ErrUnknownProvider indicates a provider name that is not registered.
	ErrUnknownProvider = errors.New("x25519key: unknown provider")

	// ErrContainerLayout indicates the private key bytes could not be
	// located exactly once inside a PKCS#8 container.
	ErrContainerLayout = errors.New("x25519key: unexpected PKCS#8 container layout")
)
