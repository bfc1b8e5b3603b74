// Package controlapi is the HTTP control plane fronting the scanning
// engine: submit a scan, poll for its result. It is an external
// collaborator consumed through a narrow interface, not part of the core
// (spec.md §1's "out of scope... treated as external collaborators"), but
// SPEC_FULL.md's domain-stack expansion gives it a concrete home so the
// teacher's gin/redis/swaggo stack stays exercised.
//
// Grounded in the teacher's api/ and backend/api/ packages: gin routing,
// a Redis-backed task queue/store, and the later generation's typed
// error/accepted responses plus UUID-v4 path validation.
package controlapi

import (
	"time"

	"lanscan/scanner"
)

// PortResult is the JSON projection of a discovered open port.
type PortResult struct {
	ID      uint16 `json:"id"`
	Service string `json:"service,omitempty"`
}

// DeviceResult is the JSON projection of a discovered scanner.Device.
type DeviceResult struct {
	IP            string       `json:"ip"`
	MAC           string       `json:"mac"`
	Hostname      string       `json:"hostname,omitempty"`
	Vendor        string       `json:"vendor,omitempty"`
	IsCurrentHost bool         `json:"is_current_host,omitempty"`
	OpenPorts     []PortResult `json:"open_ports,omitempty"`
}

func newDeviceResult(d scanner.Device) DeviceResult {
	res := DeviceResult{
		IP:            d.IP.String(),
		MAC:           d.MAC.String(),
		Hostname:      d.Hostname,
		Vendor:        d.Vendor,
		IsCurrentHost: d.IsCurrentHost,
	}
	if d.OpenPorts != nil {
		for _, p := range d.OpenPorts.Sorted() {
			res.OpenPorts = append(res.OpenPorts, PortResult{ID: p.ID, Service: p.Service})
		}
	}
	return res
}

// ScanTask represents a scanning job managed by the control plane.
type ScanTask struct {
	ID          string         `json:"id"`
	Status      string         `json:"status"`
	Hosts       []string       `json:"hosts"`
	Ports       string         `json:"ports"`
	Mode        string         `json:"mode"`
	Results     []DeviceResult `json:"results,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// CreateScanRequest is the payload for creating new scan tasks. Mode is
// one of "arp" (host discovery only), "syn" (port discovery against the
// given hosts), or "full" (ARP then SYN), replacing the teacher's
// connect/syn/udp trio per spec.md's Non-goals (no banner-grab connect
// scan, no UDP scanning).
type CreateScanRequest struct {
	Hosts []string `json:"hosts" binding:"required,min=1" example:"192.168.1.0/24"`
	Ports string   `json:"ports" binding:"required_unless=Mode arp" example:"1-1024"`
	Mode  string   `json:"mode" binding:"required,oneof=arp syn full" example:"full"`
}

// ErrorResponse is the typed JSON body returned on every handled error,
// adapted from backend/api/handlers.go's ErrorResponse.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ScanAcceptedResponse is the typed JSON body returned on successful scan
// submission, adapted from backend/api/handlers.go's ScanAcceptedResponse.
type ScanAcceptedResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
