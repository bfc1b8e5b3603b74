// Package targets implements the lazy, callback-driven target iterators
// scanners enumerate over: IP addresses (dotted, CIDR, or range tokens)
// and ports (single or range tokens). Both are constructed fallibly from
// raw string lists and expose a single ForEach operation, per spec.md §3/§4.3.
package targets

import (
	"encoding/binary"
	"fmt"
	"net"
	"strings"
)

// IPTargets is a cheaply-copyable handle over a list of IPv4 tokens. Tokens
// are expanded lazily inside ForEach so a /16 CIDR never materializes a
// slice of 65 thousand addresses up front.
type IPTargets struct {
	tokens []ipToken
}

type ipTokenKind int

const (
	ipTokenSingle ipTokenKind = iota
	ipTokenCIDR
	ipTokenRange
)

type ipToken struct {
	kind   ipTokenKind
	single net.IP
	cidr   *net.IPNet
	lo, hi net.IP
}

// NewIPTargets parses each raw token (dotted IPv4, CIDR, or "A-B" inclusive
// range) and returns a reusable iterator. Construction fails fast on the
// first malformed token, carrying the offending token and parse cause, per
// spec.md §4.3.
func NewIPTargets(raw []string) (*IPTargets, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("targets: empty IP target list")
	}
	tokens := make([]ipToken, 0, len(raw))
	for _, r := range raw {
		tok, err := parseIPToken(strings.TrimSpace(r))
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return &IPTargets{tokens: tokens}, nil
}

func parseIPToken(s string) (ipToken, error) {
	if s == "" {
		return ipToken{}, fmt.Errorf("targets: empty IP token")
	}

	if strings.Contains(s, "/") {
		_, ipnet, err := net.ParseCIDR(s)
		if err != nil {
			return ipToken{}, fmt.Errorf("targets: invalid CIDR %q: %w", s, err)
		}
		if ipnet.IP.To4() == nil {
			return ipToken{}, fmt.Errorf("targets: CIDR %q is not IPv4", s)
		}
		return ipToken{kind: ipTokenCIDR, cidr: ipnet}, nil
	}

	if strings.Contains(s, "-") {
		parts := strings.SplitN(s, "-", 2)
		if len(parts) != 2 {
			return ipToken{}, fmt.Errorf("targets: invalid IP range %q", s)
		}
		lo := net.ParseIP(strings.TrimSpace(parts[0])).To4()
		hi := net.ParseIP(strings.TrimSpace(parts[1])).To4()
		if lo == nil || hi == nil {
			return ipToken{}, fmt.Errorf("targets: invalid IP range %q: not valid IPv4 endpoints", s)
		}
		if ipToUint32(lo) > ipToUint32(hi) {
			return ipToken{}, fmt.Errorf("targets: invalid IP range %q: start after end", s)
		}
		return ipToken{kind: ipTokenRange, lo: lo, hi: hi}, nil
	}

	ip := net.ParseIP(s).To4()
	if ip == nil {
		return ipToken{}, fmt.Errorf("targets: invalid IPv4 address %q", s)
	}
	return ipToken{kind: ipTokenSingle, single: ip}, nil
}

// ForEach walks every address named by the target list, calling fn once
// per address in ascending order within each token. It stops and returns
// the first error fn produces, matching the lazy/back-pressured contract
// of spec.md §4.3.
func (t *IPTargets) ForEach(fn func(net.IP) error) error {
	for _, tok := range t.tokens {
		switch tok.kind {
		case ipTokenSingle:
			if err := fn(tok.single); err != nil {
				return err
			}
		case ipTokenCIDR:
			if err := forEachCIDRHost(tok.cidr, fn); err != nil {
				return err
			}
		case ipTokenRange:
			if err := forEachRange(tok.lo, tok.hi, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// forEachCIDRHost enumerates host addresses in ipnet. For prefixes of /30
// or shorter the network and broadcast addresses are excluded; /31 and
// /32 blocks include every address they contain (so a /32 yields exactly
// one host), the convention spec.md §8's boundary scenario assumes.
func forEachCIDRHost(ipnet *net.IPNet, fn func(net.IP) error) error {
	ones, bits := ipnet.Mask.Size()
	base := ipToUint32(ipnet.IP.To4())

	if ones >= bits-1 {
		count := uint32(1) << uint(bits-ones)
		for i := uint32(0); i < count; i++ {
			if err := fn(uint32ToIP(base + i)); err != nil {
				return err
			}
		}
		return nil
	}

	hostBits := uint(bits - ones)
	count := uint32(1) << hostBits
	for i := uint32(1); i < count-1; i++ {
		if err := fn(uint32ToIP(base + i)); err != nil {
			return err
		}
	}
	return nil
}

func forEachRange(lo, hi net.IP, fn func(net.IP) error) error {
	start := ipToUint32(lo)
	end := ipToUint32(hi)
	for v := start; v <= end; v++ {
		if err := fn(uint32ToIP(v)); err != nil {
			return err
		}
		if v == end {
			break
		}
	}
	return nil
}

func ipToUint32(ip net.IP) uint32 {
	return binary.BigEndian.Uint32(ip.To4())
}

func uint32ToIP(v uint32) net.IP {
	ip := make(net.IP, 4)
	binary.BigEndian.PutUint32(ip, v)
	return ip
}
