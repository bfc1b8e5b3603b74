package scanner

import (
	"net"
	"testing"
)

func TestDefaultVendorLookup_KnownPrefix(t *testing.T) {
	mac, _ := net.ParseMAC("b8:27:eb:11:22:33")
	if got := DefaultVendorLookup(mac); got != "Raspberry Pi Foundation" {
		t.Errorf("DefaultVendorLookup(%v) = %q, want Raspberry Pi Foundation", mac, got)
	}
}

func TestDefaultVendorLookup_CaseAndSeparatorInsensitive(t *testing.T) {
	mac, _ := net.ParseMAC("B8:27:EB:AA:BB:CC")
	if got := DefaultVendorLookup(mac); got != "Raspberry Pi Foundation" {
		t.Errorf("DefaultVendorLookup(%v) = %q, want Raspberry Pi Foundation", mac, got)
	}
}

func TestDefaultVendorLookup_UnknownPrefixIsEmpty(t *testing.T) {
	mac, _ := net.ParseMAC("02:00:00:00:00:01")
	if got := DefaultVendorLookup(mac); got != "" {
		t.Errorf("DefaultVendorLookup(%v) = %q, want empty for an unseeded prefix", mac, got)
	}
}

func TestDefaultVendorLookup_NilMACIsEmpty(t *testing.T) {
	if got := DefaultVendorLookup(nil); got != "" {
		t.Errorf("DefaultVendorLookup(nil) = %q, want empty", got)
	}
}
