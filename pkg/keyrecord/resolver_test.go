// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package keyrecord

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startMockDNS starts an in-process UDP DNS server that answers TXT
// queries with the given character-string sets. rcode overrides the
// response code when non-zero.
func startMockDNS(t *testing.T, records [][]string, rcode int) string {
	t.Helper()

	handler := dns.HandlerFunc(func(w dns.ResponseWriter, r *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(r)
		m.Authoritative = true
		if rcode != 0 {
			m.Rcode = rcode
		}

		for _, q := range r.Question {
			if q.Qtype != dns.TypeTXT || rcode != 0 {
				continue
			}
			for _, txt := range records {
				m.Answer = append(m.Answer, &dns.TXT{
					Hdr: dns.RR_Header{
						Name:   q.Name,
						Rrtype: dns.TypeTXT,
						Class:  dns.ClassINET,
						Ttl:    300,
					},
					Txt: txt,
				})
			}
		}
		if err := w.WriteMsg(m); err != nil {
			t.Logf("mock DNS: failed to write response: %v", err)
		}
	})

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	server := &dns.Server{
		PacketConn: pc,
		Handler:    handler,
	}

	started := make(chan struct{})
	server.NotifyStartedFunc = func() { close(started) }

	go func() {
		_ = server.ActivateAndServe()
	}()

	<-started
	t.Cleanup(func() {
		_ = server.Shutdown()
	})

	return pc.LocalAddr().String()
}

func newTestResolver(t *testing.T, server string) *Resolver {
	t.Helper()
	r, err := NewResolver(&ResolverConfig{Server: server, Timeout: 2 * time.Second})
	require.NoError(t, err)
	return r
}

func TestNewResolver_NilConfig(t *testing.T) {
	_, err := NewResolver(nil)
	assert.ErrorIs(t, err, ErrResolverConfig)
}

func TestNewResolver_DefaultPort(t *testing.T) {
	r := newTestResolver(t, "192.0.2.53")
	assert.Equal(t, "192.0.2.53:53", r.Server())

	r = newTestResolver(t, "192.0.2.53:5353")
	assert.Equal(t, "192.0.2.53:5353", r.Server())

	r = newTestResolver(t, "2001:db8::53")
	assert.Equal(t, "[2001:db8::53]:53", r.Server())
}

func TestLookupPublicKey(t *testing.T) {
	rr, err := NewTXT("reality.example.com", 0, testKey)
	require.NoError(t, err)

	addr := startMockDNS(t, [][]string{
		{"v=spf1 -all"},
		rr.Txt,
	}, 0)
	r := newTestResolver(t, addr)

	key, err := r.LookupPublicKey(context.Background(), "reality.example.com")
	require.NoError(t, err)
	assert.Equal(t, testKey, key)
}

func TestLookupPublicKey_NoKeyRecord(t *testing.T) {
	addr := startMockDNS(t, [][]string{{"v=spf1 -all"}}, 0)
	r := newTestResolver(t, addr)

	_, err := r.LookupPublicKey(context.Background(), "example.com")
	assert.ErrorIs(t, err, ErrNoKeyRecord)
}

func TestLookupPublicKey_NXDOMAIN(t *testing.T) {
	addr := startMockDNS(t, nil, dns.RcodeNameError)
	r := newTestResolver(t, addr)

	_, err := r.LookupPublicKey(context.Background(), "missing.example.com")
	assert.ErrorIs(t, err, ErrNoKeyRecord)
}

func TestLookupPublicKey_ServerFailure(t *testing.T) {
	addr := startMockDNS(t, nil, dns.RcodeServerFailure)
	r := newTestResolver(t, addr)

	_, err := r.LookupPublicKey(context.Background(), "example.com")
	assert.ErrorIs(t, err, ErrDNSLookupFailed)
}

func TestLookupPublicKey_InvalidName(t *testing.T) {
	r := newTestResolver(t, "127.0.0.1:1")

	_, err := r.LookupPublicKey(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = r.LookupPublicKey(context.Background(), "bad..name")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestLookupPublicKey_ContextCanceled(t *testing.T) {
	addr := startMockDNS(t, nil, 0)
	r := newTestResolver(t, addr)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.LookupPublicKey(ctx, "example.com")
	assert.ErrorIs(t, err, ErrDNSLookupFailed)
}
