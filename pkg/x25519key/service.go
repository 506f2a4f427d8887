// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package x25519key

import (
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"

	"github.com/jeremyhahn/go-realitykey/pkg/b64url"
)

// Config configures a Service.
type Config struct {
	// Provider performs the curve operations. Nil selects DefaultProvider.
	Provider Provider

	// Rand is the randomness source for key generation. Nil selects
	// crypto/rand.Reader.
	Rand io.Reader

	// Logger is the structured logger. If nil, logging is discarded.
	Logger *slog.Logger
}

// Service generates key pairs and derives public keys. It holds no mutable
// state and is safe for concurrent use.
type Service struct {
	provider Provider
	rand     io.Reader
	logger   *slog.Logger
}

// New creates a Service from cfg. A nil cfg uses all defaults.
func New(cfg *Config) *Service {
	if cfg == nil {
		cfg = &Config{}
	}

	s := &Service{
		provider: cfg.Provider,
		rand:     cfg.Rand,
		logger:   cfg.Logger,
	}
	if s.provider == nil {
		s.provider = curve25519Provider{}
	}
	if s.rand == nil {
		s.rand = rand.Reader
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

// Provider returns the name of the configured provider.
func (s *Service) Provider() string {
	return s.provider.Name()
}

// Derive returns the public key for the given private scalar. The scalar is
// clamped before use; privateKey itself is not modified. Returns
// ErrInvalidKeyLength unless privateKey is exactly KeySize bytes and
// ErrProvider if the provider fails.
func (s *Service) Derive(privateKey []byte) ([]byte, error) {
	if len(privateKey) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeyLength, len(privateKey), KeySize)
	}

	scalar := clampSlice(privateKey)
	defer wipeArray(&scalar)

	pub, err := s.provider.ScalarBaseMult(scalar[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrProvider, s.provider.Name(), err)
	}
	if len(pub) != KeySize {
		return nil, fmt.Errorf("%w: %s returned %d-byte public key", ErrProvider, s.provider.Name(), len(pub))
	}

	s.logger.Debug("derived public key", "provider", s.provider.Name(), "public_key", b64url.Encode(pub))
	return pub, nil
}

// Generate returns a fresh random key pair as produced by the provider.
func (s *Service) Generate() (*KeyPair, error) {
	priv, pub, err := s.provider.GenerateKey(s.rand)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrProvider, s.provider.Name(), err)
	}
	if len(priv) != KeySize || len(pub) != KeySize {
		WipeBytes(priv)
		return nil, fmt.Errorf("%w: %s returned %d/%d-byte key pair",
			ErrProvider, s.provider.Name(), len(priv), len(pub))
	}

	s.logger.Debug("generated key pair", "provider", s.provider.Name(), "public_key", b64url.Encode(pub))
	return &KeyPair{PrivateKey: priv, PublicKey: pub}, nil
}

// DeriveEncoded decodes a base64url private key, derives its public key,
// and returns both in text form. The private key text is returned exactly
// as given. Decoding failures wrap b64url.ErrInvalidFormat.
func (s *Service) DeriveEncoded(privateKey string) (*EncodedKeyPair, error) {
	priv, err := b64url.Decode(privateKey)
	if err != nil {
		return nil, err
	}
	defer WipeBytes(priv)

	pub, err := s.Derive(priv)
	if err != nil {
		return nil, err
	}

	return &EncodedKeyPair{
		PrivateKey: privateKey,
		PublicKey:  b64url.Encode(pub),
	}, nil
}

// GenerateEncoded generates a key pair and returns it in text form.
func (s *Service) GenerateEncoded() (*EncodedKeyPair, error) {
	kp, err := s.Generate()
	if err != nil {
		return nil, err
	}
	defer kp.Wipe()

	return kp.Encode(), nil
}
