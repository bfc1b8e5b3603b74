package scanner

import (
	"net"
	"strconv"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"lanscan/network"
	"lanscan/packet"
	"lanscan/targets"
	"lanscan/wire"
)

// SYNScannerArgs holds the immutable configuration a SYNScanner is built
// from, mirroring the Rust original's SYNScanner fields
// (lib/src/scanners/syn_scanner.rs).
type SYNScannerArgs struct {
	Interface   *network.Interface
	Reader      wire.Reader
	Sender      wire.Sender
	Targets     []Device
	Ports       *targets.PortTargets
	SourcePort  uint16
	IdleTimeout time.Duration
	Notifier    chan ScanMessage
}

// SYNScanner drives port discovery: it emits a SYN probe for every
// (device, port) pair and reports every SYN/ACK observed on the wire as a
// SYNScanDevice message, immediately tearing the half-open connection down
// with an RST.
type SYNScanner struct {
	args SYNScannerArgs
}

// NewSYNScanner returns a new SYNScanner from args.
func NewSYNScanner(args SYNScannerArgs) *SYNScanner {
	if args.IdleTimeout == 0 {
		args.IdleTimeout = IdleTimeout
	}
	return &SYNScanner{args: args}
}

// Scan spawns the reader, heartbeat, and sender goroutines and returns a
// Handle resolving once the whole scan terminates, per spec.md §4.6.
func (s *SYNScanner) Scan() *Handle {
	handle := newHandle()
	done := make(chan struct{})
	notifier := newNotifier(s.args.Notifier, done)

	readErrCh := make(chan error, 1)
	go s.readPackets(done, notifier, readErrCh)

	go func() {
		var scanErr error

		// Ports outer, devices inner — matches the Rust original's
		// process_port closure iterating `for device in targets.iter()`.
		err := s.args.Ports.ForEach(func(port uint16) error {
			for _, device := range s.args.Targets {
				time.Sleep(packet.DefaultSendTiming)

				if sendErr := notifier.send(ScanMessage{Kind: Info, Info: Scanning{IP: device.IP, Port: &port}}); sendErr != nil {
					return &ScanError{IP: device.IP.String(), Port: portStr(port), Cause: sendErr}
				}

				// Per-(device, port) build/send failures are recorded (first
				// one wins) and enumeration continues over the rest.
				frame, buildErr := packet.BuildSYN(s.args.Interface.MAC, s.args.Interface.IPv4, s.args.SourcePort, device.IP, device.MAC, port)
				if buildErr != nil {
					if scanErr == nil {
						scanErr = &ScanError{IP: device.IP.String(), Port: portStr(port), Cause: buildErr}
					}
					continue
				}

				if sendErr := s.args.Sender.Send(frame); sendErr != nil && scanErr == nil {
					scanErr = &ScanError{IP: device.IP.String(), Port: portStr(port), Cause: sendErr}
				}
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

func (s *SYNScanner) readPackets(done <-chan struct{}, notifier *notifier, errCh chan<- error) {
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

		deviceIP, openPort, seq, ok := parseSYNACK(frame, s.args.SourcePort)
		if !ok {
			continue
		}

		device := findDevice(s.args.Targets, deviceIP)
		if device == nil {
			continue
		}

		rst, err := packet.BuildRST(s.args.Interface.MAC, s.args.Interface.IPv4, s.args.SourcePort, device.IP, device.MAC, openPort, seq+1)
		if err != nil {
			continue
		}
		// Best-effort: a failed RST is not fatal to the scan, matching
		// spec.md invariant 4.
		_ = s.args.Sender.Send(rst)

		_ = notifier.send(ScanMessage{
			Kind:     SYNScanDevice,
			Device:   *device,
			OpenPort: Port{ID: openPort},
		})
	}
}

// parseSYNACK parses an Ethernet/IPv4/TCP frame and accepts it only if the
// destination port equals sourcePort and the flags are exactly SYN|ACK,
// per spec.md §4.6.
func parseSYNACK(frame []byte, sourcePort uint16) (deviceIP net.IP, openPort uint16, seq uint32, ok bool) {
	pkt := gopacket.NewPacket(frame, layers.LayerTypeEthernet, gopacket.NoCopy)

	ipLayer := pkt.Layer(layers.LayerTypeIPv4)
	if ipLayer == nil {
		return nil, 0, 0, false
	}
	ip4, isIP := ipLayer.(*layers.IPv4)
	if !isIP {
		return nil, 0, 0, false
	}

	tcpLayer := pkt.Layer(layers.LayerTypeTCP)
	if tcpLayer == nil {
		return nil, 0, 0, false
	}
	tcp, isTCP := tcpLayer.(*layers.TCP)
	if !isTCP {
		return nil, 0, 0, false
	}

	if uint16(tcp.DstPort) != sourcePort {
		return nil, 0, 0, false
	}
	if !(tcp.SYN && tcp.ACK && !tcp.RST && !tcp.FIN && !tcp.PSH && !tcp.URG && !tcp.ECE && !tcp.CWR && !tcp.NS) {
		return nil, 0, 0, false
	}

	return ip4.SrcIP, uint16(tcp.SrcPort), tcp.Seq, true
}

func findDevice(devices []Device, ip net.IP) *Device {
	for i := range devices {
		if devices[i].IP.Equal(ip) {
			return &devices[i]
		}
	}
	return nil
}

func portStr(p uint16) string {
	return strconv.Itoa(int(p))
}
