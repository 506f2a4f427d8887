// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package x25519key

import (
	"io"

	"github.com/cloudflare/circl/dh/x25519"
)

type circlProvider struct{}

func (circlProvider) Name() string { return ProviderCIRCL }

func (circlProvider) GenerateKey(rand io.Reader) ([]byte, []byte, error) {
	var secret, public x25519.Key
	defer WipeBytes(secret[:])

	if _, err := io.ReadFull(rand, secret[:]); err != nil {
		return nil, nil, err
	}
	secret = x25519.Key(Clamp([KeySize]byte(secret)))
	x25519.KeyGen(&public, &secret)

	priv := make([]byte, KeySize)
	copy(priv, secret[:])
	return priv, public[:], nil
}

func (circlProvider) ScalarBaseMult(scalar []byte) ([]byte, error) {
	if err := checkScalar(scalar); err != nil {
		return nil, err
	}

	var secret, public x25519.Key
	defer WipeBytes(secret[:])

	copy(secret[:], scalar)
	x25519.KeyGen(&public, &secret)
	return public[:], nil
}
