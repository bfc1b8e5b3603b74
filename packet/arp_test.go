package packet

import (
	"net"
	"testing"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

func mustMAC(t *testing.T, s string) net.HardwareAddr {
	t.Helper()
	mac, err := net.ParseMAC(s)
	if err != nil {
		t.Fatalf("ParseMAC(%q): %v", s, err)
	}
	return mac
}

func TestBuildARPRequest(t *testing.T) {
	srcMAC := mustMAC(t, "02:00:00:00:00:01")
	srcIP := net.ParseIP("192.168.1.2")
	dstIP := net.ParseIP("192.168.1.3")

	frame, err := BuildARPRequest(srcMAC, srcIP, dstIP)
	if err != nil {
		t.Fatalf("BuildARPRequest: %v", err)
	}

	pkt := gopacket.NewPacket(frame, layers.LayerTypeEthernet, gopacket.NoCopy)

	ethLayer := pkt.Layer(layers.LayerTypeEthernet)
	if ethLayer == nil {
		t.Fatal("no ethernet layer decoded")
	}
	eth := ethLayer.(*layers.Ethernet)
	if eth.DstMAC.String() != layers.EthernetBroadcast.String() {
		t.Errorf("DstMAC = %v, want broadcast", eth.DstMAC)
	}
	if eth.EthernetType != layers.EthernetTypeARP {
		t.Errorf("EthernetType = %v, want ARP", eth.EthernetType)
	}

	arpLayer := pkt.Layer(layers.LayerTypeARP)
	if arpLayer == nil {
		t.Fatal("no ARP layer decoded")
	}
	arp := arpLayer.(*layers.ARP)
	if arp.Operation != layers.ARPRequest {
		t.Errorf("Operation = %v, want ARPRequest", arp.Operation)
	}
	if !net.IP(arp.SourceProtAddress).Equal(srcIP) {
		t.Errorf("SourceProtAddress = %v, want %v", net.IP(arp.SourceProtAddress), srcIP)
	}
	if !net.IP(arp.DstProtAddress).Equal(dstIP) {
		t.Errorf("DstProtAddress = %v, want %v", net.IP(arp.DstProtAddress), dstIP)
	}
	for _, b := range arp.DstHwAddress {
		if b != 0 {
			t.Fatalf("DstHwAddress not zeroed: %v", arp.DstHwAddress)
		}
	}
}

func TestBuildARPRequest_RejectsIPv6(t *testing.T) {
	srcMAC := mustMAC(t, "02:00:00:00:00:01")
	if _, err := BuildARPRequest(srcMAC, net.ParseIP("::1"), net.ParseIP("192.168.1.3")); err == nil {
		t.Fatal("expected error for non-IPv4 source address")
	}
}
