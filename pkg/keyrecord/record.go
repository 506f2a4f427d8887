// Copyright 2026 Jeremy Hahn
// SPDX-License-Identifier: MIT

package keyrecord

import (
	"fmt"
	"strings"

	"github.com/miekg/dns"

	"github.com/jeremyhahn/go-realitykey/pkg/b64url"
)

const (
	// Version is the value of the "v" tag identifying a key record.
	Version = "reality1"

	// DefaultTTL is the TTL used when none is given.
	DefaultTTL = 3600

	tagVersion   = "v"
	tagPublicKey = "pbk"
)

// NewTXT builds a TXT resource record publishing publicKey under name.
// A zero ttl selects DefaultTTL.
func NewTXT(name string, ttl uint32, publicKey []byte) (*dns.TXT, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	if _, ok := dns.IsDomainName(name); !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if len(publicKey) != b64url.KeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKey, len(publicKey), b64url.KeySize)
	}
	if ttl == 0 {
		ttl = DefaultTTL
	}

	return &dns.TXT{
		Hdr: dns.RR_Header{
			Name:   dns.Fqdn(name),
			Rrtype: dns.TypeTXT,
			Class:  dns.ClassINET,
			Ttl:    ttl,
		},
		Txt: []string{formatValue(publicKey)},
	}, nil
}

// FormatTXT returns the zone file line for NewTXT's record.
func FormatTXT(name string, ttl uint32, publicKey []byte) (string, error) {
	rr, err := NewTXT(name, ttl, publicKey)
	if err != nil {
		return "", err
	}
	return rr.String(), nil
}

func formatValue(publicKey []byte) string {
	return fmt.Sprintf("%s=%s; %s=%s", tagVersion, Version, tagPublicKey, b64url.Encode(publicKey))
}

// ParseTXT extracts the public key from the character strings of a TXT
// record. Strings are concatenated first, since long values may be split.
func ParseTXT(txt []string) ([]byte, error) {
	tags := make(map[string]string)
	for _, part := range strings.Split(strings.Join(txt, ""), ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("%w: malformed tag %q", ErrInvalidRecord, part)
		}
		tags[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}

	if tags[tagVersion] != Version {
		return nil, fmt.Errorf("%w: version %q", ErrInvalidRecord, tags[tagVersion])
	}

	pbk, ok := tags[tagPublicKey]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s tag", ErrInvalidRecord, tagPublicKey)
	}

	key, err := b64url.DecodeKey(pbk)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return key, nil
}
