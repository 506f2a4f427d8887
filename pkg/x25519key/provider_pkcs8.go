// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package x25519key

import (
	"bytes"
	"crypto/ecdh"
	"crypto/rand"
	"crypto/x509"
	"fmt"
	"io"
)

// pkcs8Provider computes public keys without a direct scalar
// multiplication API. A temporary key is marshaled as PKCS#8, its raw
// scalar is replaced in place with the caller's scalar, and the mutated
// container is parsed back; the parsed key carries the matching public
// key. It relies on the scalar appearing verbatim, exactly once, in the
// DER encoding with no length or checksum depending on its value.
type pkcs8Provider struct {
	// rand is the source for the temporary template key. Nil selects
	// crypto/rand.
	rand io.Reader
}

func (pkcs8Provider) Name() string { return ProviderPKCS8 }

func (pkcs8Provider) GenerateKey(r io.Reader) ([]byte, []byte, error) {
	key, err := ecdh.X25519().GenerateKey(r)
	if err != nil {
		return nil, nil, err
	}

	// crypto/ecdh keeps the random bytes as-is; clamp for export.
	k := clampSlice(key.Bytes())
	defer wipeArray(&k)

	priv := make([]byte, KeySize)
	copy(priv, k[:])
	return priv, key.PublicKey().Bytes(), nil
}

func (p pkcs8Provider) ScalarBaseMult(scalar []byte) ([]byte, error) {
	if err := checkScalar(scalar); err != nil {
		return nil, err
	}

	template, err := ecdh.X25519().GenerateKey(p.random())
	if err != nil {
		return nil, fmt.Errorf("generate template key: %w", err)
	}

	container, err := x509.MarshalPKCS8PrivateKey(template)
	if err != nil {
		return nil, fmt.Errorf("export template key: %w", err)
	}
	defer WipeBytes(container)

	raw := template.Bytes()
	defer WipeBytes(raw)

	if err := spliceScalar(container, raw, scalar); err != nil {
		return nil, err
	}

	parsed, err := x509.ParsePKCS8PrivateKey(container)
	if err != nil {
		return nil, fmt.Errorf("import spliced key: %w", err)
	}

	key, ok := parsed.(*ecdh.PrivateKey)
	if !ok || key.Curve() != ecdh.X25519() {
		return nil, fmt.Errorf("%w: imported %T", ErrContainerLayout, parsed)
	}

	return key.PublicKey().Bytes(), nil
}

func (p pkcs8Provider) random() io.Reader {
	if p.rand != nil {
		return p.rand
	}
	return rand.Reader
}

// spliceScalar overwrites the single occurrence of old inside container
// with replacement. Both must be the same length.
func spliceScalar(container, old, replacement []byte) error {
	if len(old) != len(replacement) {
		return fmt.Errorf("%w: span is %d bytes, replacement is %d",
			ErrContainerLayout, len(old), len(replacement))
	}

	idx := bytes.Index(container, old)
	if idx < 0 {
		return fmt.Errorf("%w: private key bytes not found", ErrContainerLayout)
	}
	if bytes.Index(container[idx+1:], old) >= 0 {
		return fmt.Errorf("%w: private key bytes occur more than once", ErrContainerLayout)
	}

	copy(container[idx:idx+len(old)], replacement)
	return nil
}
