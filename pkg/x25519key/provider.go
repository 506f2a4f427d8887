// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package x25519key

import (
	"fmt"
	"io"
	"sort"
)

// Provider names accepted by ProviderByName.
const (
	// ProviderCurve25519 uses golang.org/x/crypto/curve25519.
	ProviderCurve25519 = "curve25519"

	// ProviderNoise uses the DH25519 function of github.com/flynn/noise.
	ProviderNoise = "noise"

	// ProviderCIRCL uses github.com/cloudflare/circl/dh/x25519.
	ProviderCIRCL = "circl"

	// ProviderPKCS8 derives public keys by splicing the scalar into a
	// PKCS#8 container and re-importing it through crypto/x509.
	ProviderPKCS8 = "pkcs8"

	// DefaultProvider is the provider used when none is configured.
	DefaultProvider = ProviderCurve25519
)

// Provider is the curve capability the key service is built on: random
// key generation and multiplication of a scalar by the X25519 base point.
//
// Implementations must be safe for concurrent use and must not retain or
// modify the slices they are given.
type Provider interface {
	// Name returns the registered provider name.
	Name() string

	// GenerateKey returns a fresh clamped private scalar and its public key,
	// reading randomness from rand.
	GenerateKey(rand io.Reader) (priv, pub []byte, err error)

	// ScalarBaseMult returns scalar x basepoint. The scalar must be
	// KeySize bytes; it is clamped by the caller.
	ScalarBaseMult(scalar []byte) ([]byte, error)
}

// providers maps provider names to constructors for O(1) lookup.
var providers = map[string]func() Provider{
	ProviderCurve25519: func() Provider { return curve25519Provider{} },
	ProviderNoise:      func() Provider { return noiseProvider{} },
	ProviderCIRCL:      func() Provider { return circlProvider{} },
	ProviderPKCS8:      func() Provider { return pkcs8Provider{} },
}

// ProviderByName returns the named provider. An empty name selects
// DefaultProvider.
func ProviderByName(name string) (Provider, error) {
	if name == "" {
		name = DefaultProvider
	}
	factory, ok := providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	return factory(), nil
}

// Providers returns the sorted names of all registered providers.
func Providers() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// checkScalar validates the scalar length shared by every provider.
func checkScalar(scalar []byte) error {
	if len(scalar) != KeySize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeyLength, len(scalar), KeySize)
	}
	return nil
}
