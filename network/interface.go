// Package network describes the live network interface a scan runs against.
// It is a read-only input to the core: created by the environment, borrowed
// by scanners for the duration of a scan.
package network

import (
	"fmt"
	"net"
)

// Interface is the read-only network interface description scanners bind
// to. It mirrors the fields the packet builders and scanners need: a name
// pcap can open, an IPv4/MAC identity to stamp outgoing frames with, and the
// CIDR describing the locally attached subnet.
type Interface struct {
	Name  string
	Index int
	IPv4  net.IP
	MAC   net.HardwareAddr
	CIDR  string
	Flags net.Flags
}

// String renders the interface the way log lines and CLI banners want it.
func (i Interface) String() string {
	return fmt.Sprintf("%s (%s, %s)", i.Name, i.IPv4, i.MAC)
}

// Contains reports whether ip falls inside the interface's subnet.
func (i Interface) Contains(ip net.IP) bool {
	_, ipnet, err := net.ParseCIDR(i.CIDR)
	if err != nil {
		return false
	}
	return ipnet.Contains(ip)
}

// DefaultInterface selects a suitable network interface and its IPv4 CIDR:
// up, not loopback, carrying an IPv4 address. This generalizes the interface
// selection loop the teacher repeats inline in performSynScan.
func DefaultInterface() (*Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("listing network interfaces: %w", err)
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		found, err := interfaceFromNet(iface)
		if err != nil {
			continue
		}
		if found != nil {
			return found, nil
		}
	}

	return nil, fmt.Errorf("no suitable network interface found")
}

// FromName resolves a specific interface by name, the way a CLI flag like
// "-i eth0" would.
func FromName(name string) (*Interface, error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil, fmt.Errorf("looking up interface %q: %w", name, err)
	}

	found, err := interfaceFromNet(*iface)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("interface %q has no IPv4 address", name)
	}
	return found, nil
}

func interfaceFromNet(iface net.Interface) (*Interface, error) {
	addrs, err := iface.Addrs()
	if err != nil {
		return nil, fmt.Errorf("reading addresses for %q: %w", iface.Name, err)
	}

	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		ip4 := ipnet.IP.To4()
		if ip4 == nil {
			continue
		}

		ones, _ := ipnet.Mask.Size()
		return &Interface{
			Name:  iface.Name,
			Index: iface.Index,
			IPv4:  ip4,
			MAC:   iface.HardwareAddr,
			CIDR:  fmt.Sprintf("%s/%d", ip4.String(), ones),
			Flags: iface.Flags,
		}, nil
	}

	return nil, nil
}

// FindOpenPort binds an ephemeral TCP listener and returns the port the OS
// assigned, suitable for use as a scanner's source_port. Grounded in the
// teacher's ephemeral-port selection in performSynScan and the pack's
// netDialSyn-based source-port discovery (other_examples syn_scanner_test.go).
func FindOpenPort() (uint16, error) {
	l, err := net.Listen("tcp4", ":0")
	if err != nil {
		return 0, fmt.Errorf("finding open port: %w", err)
	}
	defer l.Close()

	addr, ok := l.Addr().(*net.TCPAddr)
	if !ok {
		return 0, fmt.Errorf("unexpected listener address type %T", l.Addr())
	}
	return uint16(addr.Port), nil
}
