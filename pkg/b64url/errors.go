// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

// Package b64url converts between raw key bytes and the URL-safe,
// padding-free base64 text used on the wire by REALITY-style transports.
package b64url

import "errors"

// Sentinel errors for the b64url package.
var (
	// ErrInvalidFormat indicates the text is not valid URL-safe base64.
	ErrInvalidFormat = errors.New("b64url: invalid base64url encoding")

	// ErrInvalidLength indicates the decoded bytes do not have the
	// expected key length.
	ErrInvalidLength = errors.New("b64url: invalid decoded length")
)
