package scanner

import (
	"net"
	"time"

	"lanscan/packet"
	"lanscan/wire"
)

// heartbeatInterval matches the Rust original's hard-coded one-second beat
// (lib/src/scanners/syn_scanner.rs: `Duration::from_secs(1)`).
const heartbeatInterval = time.Second

// heartbeat periodically sends a self-addressed SYN packet so a reader
// goroutine blocked on wire.Reader.NextPacket wakes up often enough to
// observe its stop signal. It runs until stop is closed.
//
// Grounded in lib/src/scanners/heartbeat.rs (referenced, not retrieved, by
// arp_scanner.rs / syn_scanner.rs): a small task parameterized by source
// MAC/IP/port and a shared sender, beating once per second until signalled.
func runHeartbeat(sender wire.Sender, srcMAC net.HardwareAddr, srcIP net.IP, srcPort uint16, stop <-chan struct{}) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			frame, err := packet.BuildHeartbeat(srcMAC, srcIP, srcPort)
			if err != nil {
				continue
			}
			_ = sender.Send(frame)
		}
	}
}
