// Package packet builds the raw link-layer frames the scanner sends:
// ARP requests, SYN probes, RST teardowns, and heartbeat keep-alives. All
// builders serialize through gopacket/layers the way the teacher's
// performSynScan does, with FixLengths and ComputeChecksums enabled so the
// library computes IPv4/TCP checksums instead of hand-rolling them the way
// the Rust original's pnet-based SynPacket builder had to.
package packet

import (
	"net"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// DefaultSendTiming throttles successive packet sends during a target sweep
// to avoid overrunning the local NIC's send buffer and dropping frames.
const DefaultSendTiming = 10 * time.Millisecond

var serializeOpts = gopacket.SerializeOptions{
	FixLengths:       true,
	ComputeChecksums: true,
}

// ipv4Layer builds the shared IPv4 header used by both the SYN and RST
// builders: TTL 64, no fragmentation info, protocol TCP.
func ipv4Layer(srcIP, dstIP net.IP) *layers.IPv4 {
	return &layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      64,
		Id:       0,
		Protocol: layers.IPProtocolTCP,
		SrcIP:    srcIP.To4(),
		DstIP:    dstIP.To4(),
	}
}

func ethernetLayer(srcMAC, dstMAC net.HardwareAddr, ethType layers.EthernetType) *layers.Ethernet {
	return &layers.Ethernet{
		SrcMAC:       srcMAC,
		DstMAC:       dstMAC,
		EthernetType: ethType,
	}
}

func serialize(layerStack ...gopacket.SerializableLayer) ([]byte, error) {
	buf := gopacket.NewSerializeBuffer()
	if err := gopacket.SerializeLayers(buf, serializeOpts, layerStack...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
