package scanner

import (
	"net"
	"time"

	"github.com/miekg/dns"
)

// dnsTimeout bounds a single PTR query, matching the 3-second budget the
// teacher pack's dnsproxy.UpstreamTracker gives its own exchanges
// (athena-dhcpd internal/dnsproxy/upstream.go).
const dnsTimeout = 3 * time.Second

// DefaultHostnameLookup performs a reverse-DNS (PTR) lookup against the
// resolvers configured in /etc/resolv.conf, using miekg/dns the same way
// dnsproxy.UpstreamTracker drives its health-check exchanges: a
// dns.Client with an explicit timeout, a hand-built dns.Msg, and a single
// Exchange call. This replaces the Rust original's dns_lookup crate
// (lib/src/scanners/arp_scanner.rs's dns_lookup::lookup_addr call).
//
// Returns "" on any failure — hostname enrichment is best-effort per
// spec.md §9 and §4.5.
func DefaultHostnameLookup(ip net.IP) string {
	cfg, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil || len(cfg.Servers) == 0 {
		return ""
	}

	arpa, err := dns.ReverseAddr(ip.String())
	if err != nil {
		return ""
	}

	msg := new(dns.Msg)
	msg.SetQuestion(arpa, dns.TypePTR)
	msg.RecursionDesired = true

	client := &dns.Client{Timeout: dnsTimeout}
	server := net.JoinHostPort(cfg.Servers[0], cfg.Port)

	reply, _, err := client.Exchange(msg, server)
	if err != nil || reply == nil {
		return ""
	}

	for _, rr := range reply.Answer {
		if ptr, ok := rr.(*dns.PTR); ok {
			return trimTrailingDot(ptr.Ptr)
		}
	}
	return ""
}

func trimTrailingDot(s string) string {
	if len(s) > 0 && s[len(s)-1] == '.' {
		return s[:len(s)-1]
	}
	return s
}
