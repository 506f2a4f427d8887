// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package x25519key

import (
	"io"

	"github.com/flynn/noise"
	"golang.org/x/crypto/curve25519"
)

type noiseProvider struct{}

func (noiseProvider) Name() string { return ProviderNoise }

// GenerateKey uses DH25519.GenerateKeypair, which returns the raw random
// scalar. The scalar is clamped afterwards; the public key is unaffected
// because X25519 clamps internally.
func (noiseProvider) GenerateKey(rand io.Reader) ([]byte, []byte, error) {
	key, err := noise.DH25519.GenerateKeypair(rand)
	if err != nil {
		return nil, nil, err
	}

	k := clampSlice(key.Private)
	copy(key.Private, k[:])
	wipeArray(&k)

	return key.Private, key.Public, nil
}

func (noiseProvider) ScalarBaseMult(scalar []byte) ([]byte, error) {
	if err := checkScalar(scalar); err != nil {
		return nil, err
	}
	return noise.DH25519.DH(scalar, curve25519.Basepoint)
}
