// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package keyrecord

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/miekg/dns"
)

const (
	// defaultTimeout is the default DNS query timeout.
	defaultTimeout = 5 * time.Second

	// defaultDNSPort is the standard DNS port.
	defaultDNSPort = "53"

	// resolvConf is the system resolver configuration.
	resolvConf = "/etc/resolv.conf"
)

// ResolverConfig configures TXT lookups.
type ResolverConfig struct {
	// Server is the DNS server address (e.g., "1.1.1.1:53"). A missing port
	// defaults to 53. Empty uses the first nameserver in /etc/resolv.conf.
	Server string

	// Timeout bounds a single query. Zero selects 5 seconds.
	Timeout time.Duration

	// Logger is the structured logger. If nil, logging is discarded.
	Logger *slog.Logger
}

// Resolver looks up key records over DNS.
type Resolver struct {
	client *dns.Client
	server string
	logger *slog.Logger
}

// NewResolver creates a Resolver from cfg.
func NewResolver(cfg *ResolverConfig) (*Resolver, error) {
	if cfg == nil {
		return nil, ErrResolverConfig
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	server := cfg.Server
	if server == "" {
		systemCfg, err := dns.ClientConfigFromFile(resolvConf)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrResolverConfig, err)
		}
		if len(systemCfg.Servers) == 0 {
			return nil, fmt.Errorf("%w: no nameservers in %s", ErrResolverConfig, resolvConf)
		}
		port := systemCfg.Port
		if port == "" {
			port = defaultDNSPort
		}
		server = net.JoinHostPort(systemCfg.Servers[0], port)
	} else if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(server, defaultDNSPort)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Resolver{
		client: &dns.Client{Net: "udp", Timeout: timeout},
		server: server,
		logger: logger,
	}, nil
}

// Server returns the address queries are sent to.
func (r *Resolver) Server() string {
	return r.server
}

// LookupPublicKey queries TXT records at name and returns the key from the
// first valid key record. Non-key TXT records are skipped.
func (r *Resolver) LookupPublicKey(ctx context.Context, name string) ([]byte, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	if _, ok := dns.IsDomainName(name); !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), dns.TypeTXT)
	msg.RecursionDesired = true

	resp, rtt, err := r.client.ExchangeContext(ctx, msg, r.server)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDNSLookupFailed, err)
	}
	if resp == nil {
		return nil, ErrDNSLookupFailed
	}
	if resp.Rcode == dns.RcodeNameError {
		return nil, fmt.Errorf("%w: %s does not exist", ErrNoKeyRecord, name)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("%w: rcode %s", ErrDNSLookupFailed, dns.RcodeToString[resp.Rcode])
	}

	r.logger.Debug("TXT lookup", "name", name, "server", r.server, "answers", len(resp.Answer), "rtt", rtt)

	for _, rr := range resp.Answer {
		txt, ok := rr.(*dns.TXT)
		if !ok {
			continue
		}
		key, err := ParseTXT(txt.Txt)
		if err != nil {
			r.logger.Debug("skipping TXT record", "name", name, "error", err)
			continue
		}
		return key, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNoKeyRecord, name)
}
