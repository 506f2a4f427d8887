// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-realitykey/pkg/b64url"
	"github.com/jeremyhahn/go-realitykey/pkg/x25519key"
)

func decodeOutput(t *testing.T, out string) x25519key.EncodedKeyPair {
	t.Helper()
	var kp x25519key.EncodedKeyPair
	require.NoError(t, json.Unmarshal([]byte(out), &kp), out)
	return kp
}

func TestGenerateCmd(t *testing.T) {
	for _, provider := range x25519key.Providers() {
		t.Run(provider, func(t *testing.T) {
			out, err := runCLI(t, "generate", "--provider", provider)
			require.NoError(t, err)

			kp := decodeOutput(t, out)
			assert.NotEqual(t, kp.PrivateKey, kp.PublicKey)

			priv, err := b64url.DecodeKey(kp.PrivateKey)
			require.NoError(t, err)
			assert.True(t, x25519key.IsClamped(priv))

			pub, err := x25519key.New(nil).Derive(priv)
			require.NoError(t, err)
			assert.Equal(t, kp.PublicKey, b64url.Encode(pub))
		})
	}
}

func TestGenerateCmd_TextFormat(t *testing.T) {
	out, err := runCLI(t, "generate", "--format", "text")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Private key: "))
	assert.True(t, strings.HasPrefix(lines[1], "Public key: "))
}

func TestGenerateCmd_UnknownProvider(t *testing.T) {
	_, err := runCLI(t, "generate", "--provider", "bogus")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeriveCmd(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"positional", []string{"derive", alicePrivate}},
		{"flag", []string{"derive", "--private-key", alicePrivate}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, tt.args...)
			require.NoError(t, err)

			want := fmt.Sprintf("{\n    \"privateKey\": %q,\n    \"publicKey\": %q\n}\n", alicePrivate, alicePublic)
			assert.Equal(t, want, out)
		})
	}
}

func TestDeriveCmd_AllProvidersAgree(t *testing.T) {
	for _, provider := range x25519key.Providers() {
		out, err := runCLI(t, "derive", "--provider", provider, alicePrivate)
		require.NoError(t, err, provider)
		assert.Equal(t, alicePublic, decodeOutput(t, out).PublicKey, provider)
	}
}

func TestDeriveCmd_KeyWithLeadingDash(t *testing.T) {
	key := make([]byte, x25519key.KeySize)
	key[0] = 0xf8
	text := b64url.Encode(key)
	require.True(t, strings.HasPrefix(text, "-"))

	out, err := runCLI(t, "derive", "--", text)
	require.NoError(t, err)
	assert.Equal(t, text, decodeOutput(t, out).PrivateKey)
}

func TestDeriveCmd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing key", []string{"derive"}},
		{"both forms", []string{"derive", "--private-key", alicePrivate, alicePrivate}},
		{"invalid base64", []string{"derive", "not valid base64!!"}},
		{"31 bytes", []string{"derive", b64url.Encode(make([]byte, 31))}},
		{"33 bytes", []string{"derive", b64url.Encode(make([]byte, 33))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, ExitConfigError, exitCode(err))
		})
	}
}

func TestWrapKeyError(t *testing.T) {
	assert.ErrorIs(t, wrapKeyError(b64url.ErrInvalidFormat), ErrInvalidInput)
	assert.ErrorIs(t, wrapKeyError(x25519key.ErrInvalidKeyLength), ErrInvalidInput)

	err := wrapKeyError(x25519key.ErrProvider)
	assert.ErrorIs(t, err, ErrKeyOperation)
	assert.NotErrorIs(t, err, ErrInvalidInput)
}
