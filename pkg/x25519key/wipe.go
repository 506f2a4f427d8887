// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package x25519key

// WipeBytes zeros the contents of a byte slice in-place. The garbage
// collector may already have copied the memory, so this narrows the
// exposure window rather than guaranteeing erasure.
func WipeBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// wipeArray zeros a fixed-size scalar.
func wipeArray(k *[KeySize]byte) {
	WipeBytes(k[:])
}
