// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

// Package keyrecord publishes and discovers X25519 public keys as DNS TXT
// records of the form "v=reality1; pbk=<base64url key>".
package keyrecord

import "errors"

var (
	// ErrInvalidName indicates an empty or malformed DNS owner name.
	ErrInvalidName = errors.New("keyrecord: invalid name")

	// ErrInvalidKey indicates a public key that is not 32 bytes.
	ErrInvalidKey = errors.New("keyrecord: invalid public key")

	// ErrInvalidRecord indicates TXT data that is not a key record.
	ErrInvalidRecord = errors.New("keyrecord: invalid key record")

	// ErrNoKeyRecord indicates the lookup returned no usable key record.
	ErrNoKeyRecord = errors.New("keyrecord: no key record found")

	// ErrDNSLookupFailed indicates the TXT query failed.
	ErrDNSLookupFailed = errors.New("keyrecord: DNS lookup failed")

	// ErrResolverConfig indicates the resolver configuration is invalid.
	ErrResolverConfig = errors.New("keyrecord: invalid resolver configuration")
)
