package packet

import (
	"fmt"
	"net"

	"github.com/google/gopacket/layers"
)

// BuildARPRequest builds a broadcast "who has dstIP" ARP request frame,
// grounded in the other_examples arp-scan writeARP helper: an Ethernet
// frame addressed to ff:ff:ff:ff:ff:ff wrapping an ARP request with the
// sender's own hardware/protocol address and a zeroed target hardware
// address.
func BuildARPRequest(srcMAC net.HardwareAddr, srcIP net.IP, dstIP net.IP) ([]byte, error) {
	srcIP4 := srcIP.To4()
	dstIP4 := dstIP.To4()
	if srcIP4 == nil || dstIP4 == nil {
		return nil, fmt.Errorf("packet: ARP request requires IPv4 addresses")
	}

	eth := ethernetLayer(srcMAC, layers.EthernetBroadcast, layers.EthernetTypeARP)

	arp := &layers.ARP{
		AddrType:          layers.LinkTypeEthernet,
		Protocol:          layers.EthernetTypeIPv4,
		HwAddressSize:     6,
		ProtAddressSize:   4,
		Operation:         layers.ARPRequest,
		SourceHwAddress:   []byte(srcMAC),
		SourceProtAddress: []byte(srcIP4),
		DstHwAddress:      []byte{0, 0, 0, 0, 0, 0},
		DstProtAddress:    []byte(dstIP4),
	}

	return serialize(eth, arp)
}
