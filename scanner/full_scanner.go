package scanner

import (
	"time"

	"lanscan/network"
	"lanscan/targets"
	"lanscan/wire"
)

// FullScannerArgs holds the immutable configuration a FullScanner is built
// from, mirroring the Rust original's full_scanner.rs inputs.
type FullScannerArgs struct {
	Interface        *network.Interface
	Reader           wire.Reader
	Sender           wire.Sender
	IPTargets        *targets.IPTargets
	Ports            *targets.PortTargets
	SourcePort       uint16
	IncludeVendor    bool
	IncludeHostnames bool
	IdleTimeout      time.Duration
	Notifier         chan ScanMessage
	VendorLookup     VendorLookup
	HostnameLookup   HostnameLookup
}

// FullScanner sequentially composes an ARP scan and a SYN scan: it runs an
// ARP scanner on an internal notifier to materialize a device list, then
// constructs a SYN scanner over that list wired to the caller's notifier.
// It does not interleave the two, per spec.md §4.7.
type FullScanner struct {
	args FullScannerArgs
}

// NewFullScanner returns a new FullScanner from args.
func NewFullScanner(args FullScannerArgs) *FullScanner {
	return &FullScanner{args: args}
}

// Scan runs the ARP phase to completion, collecting discovered devices,
// then hands them to a SYN scan whose Handle is returned to the caller.
func (s *FullScanner) Scan() *Handle {
	handle := newHandle()

	go func() {
		// Buffered generously: spec.md §5 notes the reference uses an
		// unbounded channel here, so sends from the ARP scanner's
		// enrichment goroutines never have to block on this loop keeping up.
		internalNotifier := make(chan ScanMessage, 256)
		arp := NewARPScanner(ARPScannerArgs{
			Interface:        s.args.Interface,
			Reader:           s.args.Reader,
			Sender:           s.args.Sender,
			Targets:          s.args.IPTargets,
			SourcePort:       s.args.SourcePort,
			IncludeVendor:    s.args.IncludeVendor,
			IncludeHostnames: s.args.IncludeHostnames,
			IdleTimeout:      s.args.IdleTimeout,
			Notifier:         internalNotifier,
			VendorLookup:     s.args.VendorLookup,
			HostnameLookup:   s.args.HostnameLookup,
		})

		arpHandle := arp.Scan()

		var devices []Device
		for msg := range internalNotifier {
			if msg.Kind == ARPScanDevice {
				devices = append(devices, msg.Device)
			}
			if msg.Kind == Done {
				break
			}
		}

		if err := arpHandle.Wait(); err != nil {
			// The SYN phase never starts, so the caller's single Done is
			// sent here instead.
			_ = newNotifier(s.args.Notifier, nil).send(ScanMessage{Kind: Done})
			handle.resolve(err)
			return
		}

		syn := NewSYNScanner(SYNScannerArgs{
			Interface:   s.args.Interface,
			Reader:      s.args.Reader,
			Sender:      s.args.Sender,
			Targets:     devices,
			Ports:       s.args.Ports,
			SourcePort:  s.args.SourcePort,
			IdleTimeout: s.args.IdleTimeout,
			Notifier:    s.args.Notifier,
		})

		handle.resolve(syn.Scan().Wait())
	}()

	return handle
}
