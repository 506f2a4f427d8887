// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package x25519key

// KeySize is the size in bytes of X25519 private scalars and public keys.
const KeySize = 32

// Clamp applies RFC 7748 scalar clamping: the low three bits of the first
// byte are cleared, the top bit of the last byte is cleared and the
// second-highest bit of the last byte is set.
func Clamp(scalar [KeySize]byte) [KeySize]byte {
	scalar[0] &= 0b1111_1000
	scalar[31] &= 0b0111_1111
	scalar[31] |= 0b0100_0000
	return scalar
}

// IsClamped reports whether b is a KeySize scalar that Clamp would leave
// unchanged.
func IsClamped(b []byte) bool {
	if len(b) != KeySize {
		return false
	}
	return b[0]&0b0000_0111 == 0 && b[31]&0b1100_0000 == 0b0100_0000
}

// clampSlice copies b into a new array and clamps it. The caller must have
// checked the length.
func clampSlice(b []byte) [KeySize]byte {
	var k [KeySize]byte
	copy(k[:], b)
	return Clamp(k)
}
