package controlapi

import (
	"fmt"
	"testing"
	"time"
)

func toStringMap(t *testing.T, data map[string]interface{}) map[string]string {
	t.Helper()
	out := make(map[string]string, len(data))
	for k, v := range data {
		out[k] = fmt.Sprintf("%v", v)
	}
	return out
}

func TestSerializeDeserializeTaskMeta_RoundTrips(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	completed := now.Add(5 * time.Second)

	original := &ScanTask{
		ID:          "a3f5c62e-1234-4f72-a84a-1c2d3e4f5678",
		Status:      "completed",
		Hosts:       []string{"192.168.1.0/24"},
		Ports:       "1-1024",
		Mode:        "full",
		CreatedAt:   now,
		CompletedAt: &completed,
	}

	data, err := serializeTaskMeta(original)
	if err != nil {
		t.Fatalf("serializeTaskMeta: %v", err)
	}

	got, err := deserializeTaskMeta(toStringMap(t, data))
	if err != nil {
		t.Fatalf("deserializeTaskMeta: %v", err)
	}

	if got.ID != original.ID || got.Status != original.Status || got.Ports != original.Ports || got.Mode != original.Mode {
		t.Fatalf("scalar fields did not round-trip: got %+v, want %+v", got, original)
	}
	if len(got.Hosts) != 1 || got.Hosts[0] != "192.168.1.0/24" {
		t.Fatalf("Hosts did not round-trip: got %v", got.Hosts)
	}
	if got.Results != nil {
		t.Fatalf("Results must not be populated by metadata round-trip, got %+v", got.Results)
	}
	if !got.CreatedAt.Equal(original.CreatedAt) {
		t.Fatalf("CreatedAt = %v, want %v", got.CreatedAt, original.CreatedAt)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(*original.CompletedAt) {
		t.Fatalf("CompletedAt = %v, want %v", got.CompletedAt, original.CompletedAt)
	}
}

func TestSerializeTaskMeta_NilCompletedAtRoundTripsToNil(t *testing.T) {
	task := &ScanTask{ID: "x", Status: "pending", Mode: "arp", CreatedAt: time.Now().UTC()}

	data, err := serializeTaskMeta(task)
	if err != nil {
		t.Fatalf("serializeTaskMeta: %v", err)
	}
	got, err := deserializeTaskMeta(toStringMap(t, data))
	if err != nil {
		t.Fatalf("deserializeTaskMeta: %v", err)
	}
	if got.CompletedAt != nil {
		t.Fatalf("CompletedAt = %v, want nil", got.CompletedAt)
	}
}

func TestDeviceFields_OmitsOpenPorts(t *testing.T) {
	d := DeviceResult{
		IP:            "192.168.1.3",
		MAC:           "02:00:00:00:00:03",
		Hostname:      "printer.local",
		Vendor:        "Acme",
		IsCurrentHost: true,
		OpenPorts:     []PortResult{{ID: 80, Service: "http"}},
	}

	fields := deviceFields(d)
	if _, ok := fields["open_ports"]; ok {
		t.Fatalf("deviceFields must not carry open_ports, got %+v", fields)
	}
	if fields["mac"] != d.MAC || fields["hostname"] != d.Hostname || fields["vendor"] != d.Vendor {
		t.Fatalf("identity fields did not project correctly: %+v", fields)
	}
	if fields["is_current_host"] != "true" {
		t.Fatalf("is_current_host = %v, want true", fields["is_current_host"])
	}
}

func TestEncodeDecodePortMember_RoundTrips(t *testing.T) {
	original := PortResult{ID: 443, Service: "https"}
	encoded := encodePortMember(original)

	got, err := decodePortMember(encoded)
	if err != nil {
		t.Fatalf("decodePortMember: %v", err)
	}
	if got != original {
		t.Fatalf("got %+v, want %+v", got, original)
	}
}

func TestDecodePortMember_NoServiceNameIsEmptyString(t *testing.T) {
	got, err := decodePortMember("22/")
	if err != nil {
		t.Fatalf("decodePortMember: %v", err)
	}
	if got.ID != 22 || got.Service != "" {
		t.Fatalf("got %+v, want ID=22 Service=\"\"", got)
	}
}

func TestDecodePortMember_RejectsMalformedInput(t *testing.T) {
	if _, err := decodePortMember("not-a-port"); err == nil {
		t.Fatal("expected an error for a malformed port member")
	}
}

func TestDeviceResultFromFields_SortsPortsByID(t *testing.T) {
	fields := map[string]string{
		"mac":             "02:00:00:00:00:03",
		"hostname":        "host.local",
		"vendor":          "Acme",
		"is_current_host": "false",
	}
	members := []string{"443/https", "22/ssh", "80/http"}

	got := deviceResultFromFields("192.168.1.3", fields, members)
	if len(got.OpenPorts) != 3 {
		t.Fatalf("expected 3 open ports, got %+v", got.OpenPorts)
	}
	for i := 1; i < len(got.OpenPorts); i++ {
		if got.OpenPorts[i-1].ID > got.OpenPorts[i].ID {
			t.Fatalf("ports not sorted by ID: %+v", got.OpenPorts)
		}
	}
	if got.IP != "192.168.1.3" || got.IsCurrentHost {
		t.Fatalf("identity fields did not reconstruct correctly: %+v", got)
	}
}

func TestDeviceResultFromFields_SkipsUndecodablePortMembers(t *testing.T) {
	fields := map[string]string{"mac": "02:00:00:00:00:03"}
	members := []string{"80/http", "garbage"}

	got := deviceResultFromFields("192.168.1.3", fields, members)
	if len(got.OpenPorts) != 1 || got.OpenPorts[0].ID != 80 {
		t.Fatalf("expected only the well-formed port member to survive, got %+v", got.OpenPorts)
	}
}
