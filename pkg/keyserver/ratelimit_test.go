// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package keyserver

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPLimiter_AllowsBurst(t *testing.T) {
	l := newIPLimiter(10, 5, time.Minute)

	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow("192.0.2.1"), "request %d within burst", i)
	}
}

func TestIPLimiter_BlocksExcess(t *testing.T) {
	l := newIPLimiter(0.001, 3, time.Minute)

	for i := 0; i < 3; i++ {
		require.True(t, l.Allow("192.0.2.1"))
	}
	assert.False(t, l.Allow("192.0.2.1"))
}

func TestIPLimiter_IndependentClients(t *testing.T) {
	l := newIPLimiter(0.001, 1, time.Minute)

	require.True(t, l.Allow("192.0.2.1"))
	assert.False(t, l.Allow("192.0.2.1"))
	assert.True(t, l.Allow("192.0.2.2"))
	assert.Equal(t, 2, l.size())
}

func TestIPLimiter_EvictIdle(t *testing.T) {
	l := newIPLimiter(10, 5, time.Minute)
	l.Allow("192.0.2.1")
	l.Allow("192.0.2.2")

	assert.Equal(t, 0, l.evictIdle(time.Now()), "fresh clients are kept")
	assert.Equal(t, 2, l.evictIdle(time.Now().Add(2*time.Minute)))
	assert.Equal(t, 0, l.size())
}

func TestIPLimiter_RunEvictsUntilCancelled(t *testing.T) {
	interval := 10 * time.Millisecond
	l := newIPLimiter(10, 5, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		l.run(ctx, interval)
	}()

	l.Allow("192.0.2.1")
	assert.Eventually(t, func() bool { return l.size() == 0 },
		time.Second, interval, "idle client should be evicted")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("run did not return after cancellation")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		remote string
		header string
		value  string
		want   string
	}{
		{"peer address", "192.0.2.1:4321", "", "", "192.0.2.1"},
		{"ipv6 peer", "[2001:db8::1]:4321", "", "", "2001:db8::1"},
		{"no port", "192.0.2.1", "", "", "192.0.2.1"},
		{"header ignored when not configured", "192.0.2.1:4321", "", "198.51.100.7", "192.0.2.1"},
		{"forwarded single", "192.0.2.1:4321", "X-Forwarded-For", "198.51.100.7", "198.51.100.7"},
		{"forwarded chain", "192.0.2.1:4321", "X-Forwarded-For", "198.51.100.7, 203.0.113.9", "198.51.100.7"},
		{"cloudflare header", "192.0.2.1:4321", "CF-Connecting-IP", "2001:db8::7", "2001:db8::7"},
		{"garbage falls back", "192.0.2.1:4321", "X-Forwarded-For", "not-an-ip", "192.0.2.1"},
		{"missing header falls back", "192.0.2.1:4321", "X-Forwarded-For", "", "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			if tt.value != "" {
				name := tt.header
				if name == "" {
					name = "X-Forwarded-For"
				}
				r.Header.Set(name, tt.value)
			}
			assert.Equal(t, tt.want, clientIP(r, tt.header))
		})
	}
}
