package scanner

import (
	"net"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"lanscan/network"
	"lanscan/packet"
	"lanscan/targets"
	"lanscan/wire"
)

// ARPScannerArgs holds the immutable configuration an ARPScanner is built
// from, mirroring the Rust original's ARPScannerArgs (lib/src/scanners/arp_scanner.rs).
type ARPScannerArgs struct {
	Interface        *network.Interface
	Reader           wire.Reader
	Sender           wire.Sender
	Targets          *targets.IPTargets
	SourcePort       uint16
	IncludeVendor    bool
	IncludeHostnames bool
	IdleTimeout      time.Duration
	Notifier         chan ScanMessage

	// VendorLookup/HostnameLookup default to DefaultVendorLookup /
	// DefaultHostnameLookup when left nil.
	VendorLookup   VendorLookup
	HostnameLookup HostnameLookup
}

// ARPScanner drives host discovery: it emits an ARP request for every
// target IP and reports every ARP reply observed on the wire as an
// ARPScanDevice message.
type ARPScanner struct {
	args ARPScannerArgs
}

// NewARPScanner returns a new ARPScanner from args, filling in default
// lookups when the caller left them nil.
func NewARPScanner(args ARPScannerArgs) *ARPScanner {
	if args.VendorLookup == nil {
		args.VendorLookup = DefaultVendorLookup
	}
	if args.HostnameLookup == nil {
		args.HostnameLookup = DefaultHostnameLookup
	}
	if args.IdleTimeout == 0 {
		args.IdleTimeout = IdleTimeout
	}
	return &ARPScanner{args: args}
}

// Scan spawns the reader, heartbeat, and sender goroutines and returns a
// Handle resolving once the whole scan terminates, per spec.md §4.5.
func (s *ARPScanner) Scan() *Handle {
	handle := newHandle()
	done := make(chan struct{})
	notifier := newNotifier(s.args.Notifier, done)

	readErrCh := make(chan error, 1)
	go s.readPackets(done, notifier, readErrCh)

	go func() {
		var scanErr error

		err := s.args.Targets.ForEach(func(ip net.IP) error {
			time.Sleep(packet.DefaultSendTiming)

			if sendErr := notifier.send(ScanMessage{Kind: Info, Info: Scanning{IP: ip}}); sendErr != nil {
				return &ScanError{IP: ip.String(), Cause: sendErr}
			}

			// Per-target build/send failures are recorded (first one wins)
			// and enumeration continues over the rest of the targets.
			frame, buildErr := packet.BuildARPRequest(s.args.Interface.MAC, s.args.Interface.IPv4, ip)
			if buildErr != nil {
				if scanErr == nil {
					scanErr = &ScanError{IP: ip.String(), Cause: buildErr}
				}
				return nil
			}

			if sendErr := s.args.Sender.Send(frame); sendErr != nil && scanErr == nil {
				scanErr = &ScanError{IP: ip.String(), Cause: sendErr}
			}
			return nil
		})
		if err != nil && scanErr == nil {
			scanErr = err
		}

		time.Sleep(s.args.IdleTimeout)

		if err := notifier.send(ScanMessage{Kind: Done}); err != nil && scanErr == nil {
			scanErr = &ScanError{Cause: err}
		}

		close(done)

		if readErr := <-readErrCh; readErr != nil && scanErr == nil {
			scanErr = readErr
		}

		handle.resolve(scanErr)
	}()

	return handle
}

func (s *ARPScanner) readPackets(done <-chan struct{}, notifier *notifier, errCh chan<- error) {
	heartbeatStop := make(chan struct{})
	go func() {
		runHeartbeat(s.args.Sender, s.args.Interface.MAC, s.args.Interface.IPv4, s.args.SourcePort, heartbeatStop)
	}()

	for {
		select {
		case <-done:
			close(heartbeatStop)
			errCh <- nil
			return
		default:
		}

		frame, err := s.args.Reader.NextPacket()
		if err == wire.ErrTimeout {
			continue
		}
		if err != nil {
			close(heartbeatStop)
			errCh <- &ScanError{Cause: err}
			return
		}

		device, ok := parseARPReply(frame, s.args.Interface.IPv4)
		if !ok {
			continue
		}

		go func(d Device) {
			if s.args.IncludeHostnames {
				d.Hostname = s.args.HostnameLookup(d.IP)
			}
			if s.args.IncludeVendor {
				d.Vendor = s.args.VendorLookup(d.MAC)
			}
			_ = notifier.send(ScanMessage{Kind: ARPScanDevice, Device: d})
		}(device)
	}
}

// parseARPReply parses an Ethernet frame and accepts it only if its
// payload is an ARP reply (opcode Reply), per spec.md §4.5's filter.
// Non-ARP frames, ARP requests, and replies whose source MAC is the
// broadcast address are discarded.
func parseARPReply(frame []byte, sourceIPv4 net.IP) (Device, bool) {
	pkt := gopacket.NewPacket(frame, layers.LayerTypeEthernet, gopacket.NoCopy)

	ethLayer := pkt.Layer(layers.LayerTypeEthernet)
	if ethLayer == nil {
		return Device{}, false
	}

	arpLayer := pkt.Layer(layers.LayerTypeARP)
	if arpLayer == nil {
		return Device{}, false
	}
	arp, ok := arpLayer.(*layers.ARP)
	if !ok || arp.Operation != layers.ARPReply {
		return Device{}, false
	}
	eth := ethLayer.(*layers.Ethernet)

	ip := net.IP(arp.SourceProtAddress)
	mac := net.HardwareAddr(eth.SrcMAC)
	if mac.String() == layers.EthernetBroadcast.String() {
		return Device{}, false
	}

	return Device{
		IP:            ip,
		MAC:           mac,
		IsCurrentHost: ip.Equal(sourceIPv4),
		OpenPorts:     NewPortSet(),
	}, true
}
