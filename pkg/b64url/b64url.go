// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package b64url

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// KeySize is the decoded length of an X25519 key.
const KeySize = 32

var (
	toStd = strings.NewReplacer("-", "+", "_", "/")
	toURL = strings.NewReplacer("+", "-", "/", "_")
)

// Encode returns the standard base64 encoding of b with '+' and '/'
// replaced by '-' and '_' and all trailing '=' removed.
func Encode(b []byte) string {
	s := toURL.Replace(base64.StdEncoding.EncodeToString(b))
	return strings.TrimRight(s, "=")
}

// Decode reverses Encode. Missing padding is restored before decoding, so
// both padded and unpadded input are accepted.
func Decode(text string) ([]byte, error) {
	s := toStd.Replace(text)
	if rem := len(s) % 4; rem != 0 {
		s += strings.Repeat("=", 4-rem)
	}

	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	return b, nil
}

// DecodeKey decodes text and requires the result to be exactly KeySize
// bytes.
func DecodeKey(text string) ([]byte, error) {
	b, err := Decode(text)
	if err != nil {
		return nil, err
	}
	if len(b) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidLength, len(b), KeySize)
	}
	return b, nil
}
