// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package keyserver

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// client tracks the token bucket for one remote IP.
type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter is a per-IP token-bucket limiter. It owns no goroutine;
// idle entries are removed by run, which the Server starts and cancels
// with each Start/Stop cycle.
type ipLimiter struct {
	mu       sync.Mutex
	clients  map[string]*client
	rate     rate.Limit
	burst    int
	staleAge time.Duration
}

func newIPLimiter(r float64, burst int, staleAge time.Duration) *ipLimiter {
	return &ipLimiter{
		clients:  make(map[string]*client),
		rate:     rate.Limit(r),
		burst:    burst,
		staleAge: staleAge,
	}
}

// Allow reports whether a request from ip may proceed.
func (l *ipLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.clients[ip] = c
	}
	c.lastSeen = time.Now()
	return c.limiter.Allow()
}

// evictIdle drops clients not seen within staleAge of now and returns how
// many were removed.
func (l *ipLimiter) evictIdle(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for ip, c := range l.clients {
		if now.Sub(c.lastSeen) > l.staleAge {
			delete(l.clients, ip)
			n++
		}
	}
	return n
}

// run calls evictIdle every interval until ctx is done.
func (l *ipLimiter) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.evictIdle(now)
		}
	}
}

func (l *ipLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// clientIP returns the address requests are limited by. When header is set
// and carries a valid IP (the first entry of a comma-separated list), that
// IP is used; otherwise the host part of RemoteAddr.
func clientIP(r *http.Request, header string) string {
	if header != "" {
		if v := r.Header.Get(header); v != "" {
			first, _, _ := strings.Cut(v, ",")
			if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
				return ip.String()
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
