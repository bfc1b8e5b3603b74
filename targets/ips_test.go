package targets

import (
	"net"
	"testing"
)

func collectIPs(t *testing.T, tgt *IPTargets) []net.IP {
	t.Helper()
	var got []net.IP
	if err := tgt.ForEach(func(ip net.IP) error {
		got = append(got, append(net.IP(nil), ip...))
		return nil
	}); err != nil {
		t.Fatalf("ForEach: %v", err)
	}
	return got
}

func TestNewIPTargets_EmptyListIsConstructionError(t *testing.T) {
	if _, err := NewIPTargets(nil); err == nil {
		t.Fatal("expected error for empty target list, got nil")
	}
	if _, err := NewIPTargets([]string{}); err == nil {
		t.Fatal("expected error for empty target list, got nil")
	}
}

func TestIPTargets_SingleAddress(t *testing.T) {
	tgt, err := NewIPTargets([]string{"192.168.1.3"})
	if err != nil {
		t.Fatalf("NewIPTargets: %v", err)
	}
	got := collectIPs(t, tgt)
	if len(got) != 1 || got[0].String() != "192.168.1.3" {
		t.Fatalf("got %v, want [192.168.1.3]", got)
	}
}

func TestIPTargets_SlashThirtyTwoYieldsExactlyOneHost(t *testing.T) {
	tgt, err := NewIPTargets([]string{"10.0.0.5/32"})
	if err != nil {
		t.Fatalf("NewIPTargets: %v", err)
	}
	got := collectIPs(t, tgt)
	if len(got) != 1 {
		t.Fatalf("got %d hosts, want exactly 1: %v", len(got), got)
	}
	if got[0].String() != "10.0.0.5" {
		t.Fatalf("got %v, want [10.0.0.5]", got)
	}
}

func TestIPTargets_SlashThirtyOneYieldsBothHosts(t *testing.T) {
	tgt, err := NewIPTargets([]string{"10.0.0.4/31"})
	if err != nil {
		t.Fatalf("NewIPTargets: %v", err)
	}
	got := collectIPs(t, tgt)
	if len(got) != 2 {
		t.Fatalf("got %d hosts, want 2: %v", len(got), got)
	}
}

func TestIPTargets_CIDRExcludesNetworkAndBroadcast(t *testing.T) {
	tgt, err := NewIPTargets([]string{"192.168.1.0/30"})
	if err != nil {
		t.Fatalf("NewIPTargets: %v", err)
	}
	got := collectIPs(t, tgt)
	// /30 has 4 addresses; network (.0) and broadcast (.3) excluded, leaving .1 and .2.
	want := []string{"192.168.1.1", "192.168.1.2"}
	if len(got) != len(want) {
		t.Fatalf("got %d hosts, want %d: %v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].String() != w {
			t.Fatalf("got[%d] = %v, want %v", i, got[i], w)
		}
	}
}

func TestIPTargets_Range(t *testing.T) {
	tgt, err := NewIPTargets([]string{"10.0.0.1-10.0.0.3"})
	if err != nil {
		t.Fatalf("NewIPTargets: %v", err)
	}
	got := collectIPs(t, tgt)
	want := []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"}
	if len(got) != len(want) {
		t.Fatalf("got %d, want %d: %v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].String() != w {
			t.Fatalf("got[%d] = %v, want %v", i, got[i], w)
		}
	}
}

func TestIPTargets_PreservesTokenOrder(t *testing.T) {
	tgt, err := NewIPTargets([]string{"10.0.0.9", "10.0.0.1", "10.0.0.5"})
	if err != nil {
		t.Fatalf("NewIPTargets: %v", err)
	}
	got := collectIPs(t, tgt)
	want := []string{"10.0.0.9", "10.0.0.1", "10.0.0.5"}
	for i, w := range want {
		if got[i].String() != w {
			t.Fatalf("got[%d] = %v, want %v (token order must be preserved)", i, got[i], w)
		}
	}
}

func TestIPTargets_StopsOnFirstCallbackError(t *testing.T) {
	tgt, err := NewIPTargets([]string{"10.0.0.1-10.0.0.10"})
	if err != nil {
		t.Fatalf("NewIPTargets: %v", err)
	}
	stopErr := &net.AddrError{Err: "stop"}
	count := 0
	err = tgt.ForEach(func(ip net.IP) error {
		count++
		if count == 2 {
			return stopErr
		}
		return nil
	})
	if err != stopErr {
		t.Fatalf("got err %v, want stopErr", err)
	}
	if count != 2 {
		t.Fatalf("fn called %d times, want exactly 2", count)
	}
}

func TestNewIPTargets_RejectsMalformedToken(t *testing.T) {
	cases := []string{"", "not-an-ip", "300.1.1.1", "10.0.0.0/abc", "10.0.0.5-10.0.0.1"}
	for _, c := range cases {
		if _, err := NewIPTargets([]string{c}); err == nil {
			t.Errorf("NewIPTargets(%q): expected error, got nil", c)
		}
	}
}
