package packet

import (
	"fmt"
	"net"

	"github.com/google/gopacket/layers"
)

// BuildRST builds a RST+ACK teardown frame in reply to a SYN-ACK. ackSeq is
// the peer's observed sequence number plus one (the caller adds the one,
// matching the Rust original's RSTPacket::new(..., sequence + 1) call in
// syn_scanner.rs); it is used as-is for both the sequence and the
// acknowledgement number. Sending this immediately after a SYN-ACK keeps
// the scanner from leaving half-open connections behind, the same
// half-open-avoidance rationale documented in the teacher's tcp_syn.go
// comments.
func BuildRST(srcMAC net.HardwareAddr, srcIP net.IP, srcPort uint16, dstIP net.IP, dstMAC net.HardwareAddr, dstPort uint16, ackSeq uint32) ([]byte, error) {
	srcIP4 := srcIP.To4()
	dstIP4 := dstIP.To4()
	if srcIP4 == nil || dstIP4 == nil {
		return nil, fmt.Errorf("packet: RST probe requires IPv4 addresses")
	}

	eth := ethernetLayer(srcMAC, dstMAC, layers.EthernetTypeIPv4)
	ip := ipv4Layer(srcIP4, dstIP4)

	tcp := &layers.TCP{
		SrcPort:    layers.TCPPort(srcPort),
		DstPort:    layers.TCPPort(dstPort),
		Seq:        ackSeq,
		Ack:        ackSeq,
		DataOffset: 5,
		RST:        true,
		ACK:        true,
	}

	if err := tcp.SetNetworkLayerForChecksum(ip); err != nil {
		return nil, fmt.Errorf("packet: setting checksum network layer: %w", err)
	}

	return serialize(eth, ip, tcp)
}
