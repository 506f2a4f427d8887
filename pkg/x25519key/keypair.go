// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package x25519key

import "github.com/jeremyhahn/go-realitykey/pkg/b64url"

// KeyPair holds raw X25519 key material.
type KeyPair struct {
	// PrivateKey is the 32-byte private scalar.
	PrivateKey []byte

	// PublicKey is the 32-byte public key.
	PublicKey []byte
}

// Encode returns the base64url form of the key pair.
func (kp *KeyPair) Encode() *EncodedKeyPair {
	return &EncodedKeyPair{
		PrivateKey: b64url.Encode(kp.PrivateKey),
		PublicKey:  b64url.Encode(kp.PublicKey),
	}
}

// Wipe zeros both keys in-place.
func (kp *KeyPair) Wipe() {
	if kp == nil {
		return
	}
	WipeBytes(kp.PrivateKey)
	WipeBytes(kp.PublicKey)
}

// EncodedKeyPair is the text form of a key pair. Field order is fixed so
// JSON output is stable.
type EncodedKeyPair struct {
	PrivateKey string `json:"privateKey"`
	PublicKey  string `json:"publicKey"`
}
