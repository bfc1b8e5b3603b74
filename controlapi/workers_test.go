package controlapi

import (
	"net"
	"testing"

	"lanscan/scanner"
)

func TestAppendOrMergeDevice_DeduplicatesByKey(t *testing.T) {
	mac, _ := net.ParseMAC("02:00:00:00:00:03")
	d := scanner.Device{IP: net.ParseIP("192.168.1.3"), MAC: mac}

	devices := appendOrMergeDevice(nil, d)
	devices = appendOrMergeDevice(devices, d)

	if len(devices) != 1 {
		t.Fatalf("got %d devices, want 1 after merging a duplicate", len(devices))
	}
}

func TestMergeOpenPort_AttachesPortToExistingDevice(t *testing.T) {
	mac, _ := net.ParseMAC("02:00:00:00:00:03")
	d := scanner.Device{IP: net.ParseIP("192.168.1.3"), MAC: mac}

	devices := appendOrMergeDevice(nil, d)
	devices = mergeOpenPort(devices, d, scanner.Port{ID: 80, Service: "http"})
	devices = mergeOpenPort(devices, d, scanner.Port{ID: 443, Service: "https"})

	if len(devices) != 1 {
		t.Fatalf("got %d devices, want 1", len(devices))
	}
	ports := devices[0].OpenPorts.Sorted()
	if len(ports) != 2 || ports[0].ID != 80 || ports[1].ID != 443 {
		t.Fatalf("got ports %+v, want [80 443]", ports)
	}
}

func TestMergeOpenPort_CreatesDeviceWhenUnseen(t *testing.T) {
	mac, _ := net.ParseMAC("02:00:00:00:00:09")
	d := scanner.Device{IP: net.ParseIP("192.168.1.9"), MAC: mac}

	devices := mergeOpenPort(nil, d, scanner.Port{ID: 22})

	if len(devices) != 1 {
		t.Fatalf("got %d devices, want 1", len(devices))
	}
	if devices[0].OpenPorts == nil || len(devices[0].OpenPorts.Sorted()) != 1 {
		t.Fatalf("expected exactly one open port on the newly created device")
	}
}

func TestToDeviceResults_SYNModeDropsPortlessDevices(t *testing.T) {
	mac1, _ := net.ParseMAC("02:00:00:00:00:01")
	mac2, _ := net.ParseMAC("02:00:00:00:00:02")

	withPort := scanner.Device{IP: net.ParseIP("192.168.1.1"), MAC: mac1}
	withPort.OpenPorts = scanner.NewPortSet()
	withPort.OpenPorts.Add(scanner.Port{ID: 80})

	withoutPort := scanner.Device{IP: net.ParseIP("192.168.1.2"), MAC: mac2}

	results := toDeviceResults("syn", []scanner.Device{withPort, withoutPort})
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1 (portless device must be dropped in syn mode)", len(results))
	}
	if results[0].IP != "192.168.1.1" {
		t.Errorf("got IP %q, want 192.168.1.1", results[0].IP)
	}
}

func TestToDeviceResults_ARPModeKeepsPortlessDevices(t *testing.T) {
	mac, _ := net.ParseMAC("02:00:00:00:00:02")
	d := scanner.Device{IP: net.ParseIP("192.168.1.2"), MAC: mac}

	results := toDeviceResults("arp", []scanner.Device{d})
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1 (arp mode must keep portless devices)", len(results))
	}
}
