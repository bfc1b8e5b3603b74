package packet

import (
	"fmt"
	"net"

	"github.com/google/gopacket/layers"
)

// BuildSYN builds an Ethernet/IPv4/TCP SYN probe frame addressed to
// dstIP:dstPort. Sequence number is always 0, mirroring the Rust original's
// SynPacket builder (lib/src/packet/syn_packet.rs), which starts every scan
// probe from a fresh sequence.
func BuildSYN(srcMAC net.HardwareAddr, srcIP net.IP, srcPort uint16, dstIP net.IP, dstMAC net.HardwareAddr, dstPort uint16) ([]byte, error) {
	srcIP4 := srcIP.To4()
	dstIP4 := dstIP.To4()
	if srcIP4 == nil || dstIP4 == nil {
		return nil, fmt.Errorf("packet: SYN probe requires IPv4 addresses")
	}

	eth := ethernetLayer(srcMAC, dstMAC, layers.EthernetTypeIPv4)
	ip := ipv4Layer(srcIP4, dstIP4)

	tcp := &layers.TCP{
		SrcPort:    layers.TCPPort(srcPort),
		DstPort:    layers.TCPPort(dstPort),
		Seq:        0,
		DataOffset: 5,
		SYN:        true,
		Window:     14600,
	}

	if err := tcp.SetNetworkLayerForChecksum(ip); err != nil {
		return nil, fmt.Errorf("packet: setting checksum network layer: %w", err)
	}

	return serialize(eth, ip, tcp)
}

// BuildHeartbeat builds a self-addressed SYN probe: source and destination
// are the same interface, so the frame will loop back onto the same wire
// the reader goroutine is blocked on, letting a stalled reader unblock
// itself and check its stop signal. Grounded in the Rust HeartBeat.beat()
// pattern (lib/src/scanners/heartbeat.rs referenced by arp_scanner.rs and
// syn_scanner.rs).
func BuildHeartbeat(srcMAC net.HardwareAddr, srcIP net.IP, srcPort uint16) ([]byte, error) {
	return BuildSYN(srcMAC, srcIP, srcPort, srcIP, srcMAC, srcPort)
}
