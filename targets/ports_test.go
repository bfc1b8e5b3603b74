package targets

import "testing"

func countPorts(t *testing.T, pt *PortTargets) int {
	t.Helper()
	n := 0
	if err := pt.ForEach(func(uint16) error { n++; return nil }); err != nil {
		t.Fatalf("ForEach: %v", err)
	}
	return n
}

func TestNewPortTargets_EmptyListIsConstructionError(t *testing.T) {
	if _, err := NewPortTargets(nil); err == nil {
		t.Fatal("expected error for empty target list, got nil")
	}
}

func TestPortTargets_FullRangeYieldsExactly65535(t *testing.T) {
	pt, err := NewPortTargets([]string{"1-65535"})
	if err != nil {
		t.Fatalf("NewPortTargets: %v", err)
	}
	if got := countPorts(t, pt); got != 65535 {
		t.Fatalf("got %d ports, want 65535", got)
	}
}

func TestPortTargets_SinglePort(t *testing.T) {
	pt, err := NewPortTargets([]string{"443"})
	if err != nil {
		t.Fatalf("NewPortTargets: %v", err)
	}
	var got []uint16
	if err := pt.ForEach(func(p uint16) error { got = append(got, p); return nil }); err != nil {
		t.Fatalf("ForEach: %v", err)
	}
	if len(got) != 1 || got[0] != 443 {
		t.Fatalf("got %v, want [443]", got)
	}
}

func TestPortTargets_PreservesTokenOrder(t *testing.T) {
	pt, err := NewPortTargets([]string{"22", "8080", "80"})
	if err != nil {
		t.Fatalf("NewPortTargets: %v", err)
	}
	var got []uint16
	_ = pt.ForEach(func(p uint16) error { got = append(got, p); return nil })
	want := []uint16{22, 8080, 80}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("got[%d] = %d, want %d", i, got[i], w)
		}
	}
}

func TestNewPortTargets_RejectsOutOfRangeOrMalformed(t *testing.T) {
	cases := []string{"", "0", "65536", "abc", "100-50", "-5"}
	for _, c := range cases {
		if _, err := NewPortTargets([]string{c}); err == nil {
			t.Errorf("NewPortTargets(%q): expected error, got nil", c)
		}
	}
}
