// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package x25519key

import (
	"io"

	"golang.org/x/crypto/curve25519"
)

type curve25519Provider struct{}

func (curve25519Provider) Name() string { return ProviderCurve25519 }

func (p curve25519Provider) GenerateKey(rand io.Reader) ([]byte, []byte, error) {
	var k [KeySize]byte
	defer wipeArray(&k)

	if _, err := io.ReadFull(rand, k[:]); err != nil {
		return nil, nil, err
	}
	k = Clamp(k)

	pub, err := p.ScalarBaseMult(k[:])
	if err != nil {
		return nil, nil, err
	}

	priv := make([]byte, KeySize)
	copy(priv, k[:])
	return priv, pub, nil
}

func (curve25519Provider) ScalarBaseMult(scalar []byte) ([]byte, error) {
	if err := checkScalar(scalar); err != nil {
		return nil, err
	}
	return curve25519.X25519(scalar, curve25519.Basepoint)
}
