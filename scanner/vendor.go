package scanner

import (
	"net"
	"strings"
)

// ouiSeed is a small embedded table of real, well-known OUI prefixes, used
// as the default VendorLookup so a scan produces useful output without an
// external database dependency. Adapted from the normalize-then-lookup
// design of macvendor.Load/Lookup, but backed by a fixed in-memory table
// keyed by the exact 3-byte OUI (no longest-prefix matching) instead of a
// JSON asset loaded from disk — there is no install-time asset pipeline
// here, only a handful of seed entries covering common LAN gear.
var ouiSeed = map[string]string{
	"001a11": "Google, Inc.",
	"b827eb": "Raspberry Pi Foundation",
	"dca632": "Raspberry Pi Trading Ltd",
	"3c5ab4": "Google, Inc.",
	"f4f5d8": "Google, Inc.",
	"0050f2": "Microsoft Corp.",
	"001dd8": "Microsoft Corp.",
	"001c42": "Parallels, Inc.",
	"000c29": "VMware, Inc.",
	"005056": "VMware, Inc.",
	"080027": "PCS Systemtechnik GmbH (VirtualBox)",
	"bc9c31": "Apple, Inc.",
	"f0b479": "Apple, Inc.",
	"a4c361": "Apple, Inc.",
	"001e52": "Apple, Inc.",
	"e4ce8f": "Apple, Inc.",
	"9c207b": "Apple, Inc.",
	"00055d": "D-Link Corp.",
	"001195": "D-Link Corp.",
	"c0a0bb": "D-Link Corp.",
	"0024a5": "Netgear Inc.",
	"204e7f": "Netgear Inc.",
	"e091f5": "Netgear Inc.",
	"001e8c": "ASUSTek Computer Inc.",
	"50465d": "ASUSTek Computer Inc.",
	"002215": "TP-Link Technologies",
	"a0f3c1": "TP-Link Technologies",
	"b0487a": "TP-Link Technologies",
	"3891d5": "Ubiquiti Networks",
	"24a43c": "Ubiquiti Networks",
	"fcecda": "Ubiquiti Networks",
	"d85d4c": "Sony Interactive Entertainment",
	"001315": "Samsung Electronics",
	"0024e9": "Samsung Electronics",
	"2c4401": "Amazon Technologies",
	"ac63be": "Amazon Technologies",
	"fc65de": "Amazon Technologies",
}

// normalizeMAC strips separators and lowercases, the same normalization
// macvendor.normalizeMac applies before a prefix comparison.
func normalizeMAC(mac net.HardwareAddr) string {
	return strings.ToLower(strings.NewReplacer(":", "", "-", "", ".", "").Replace(mac.String()))
}

// DefaultVendorLookup resolves the first three bytes (OUI) of mac against
// the embedded seed table, returning "" when no entry matches. It is the
// VendorLookup capability bound by default when a caller does not supply
// their own, per spec.md §9's "inject as capabilities" guidance.
func DefaultVendorLookup(mac net.HardwareAddr) string {
	if len(mac) < 3 {
		return ""
	}
	norm := normalizeMAC(mac)
	if len(norm) < 6 {
		return ""
	}
	return ouiSeed[norm[:6]]
}
