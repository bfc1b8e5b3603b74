package services

import (
	"strings"
	"testing"
)

func TestLoad_ParsesPortAndProtoSuffix(t *testing.T) {
	m, stats, err := Load(strings.NewReader("22/tcp ssh\n80 http\n# a comment\n\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if stats.EntryCount != 2 {
		t.Fatalf("EntryCount = %d, want 2", stats.EntryCount)
	}
	if got := m.Lookup(22); got != "ssh" {
		t.Errorf("Lookup(22) = %q, want ssh", got)
	}
	if got := m.Lookup(80); got != "http" {
		t.Errorf("Lookup(80) = %q, want http", got)
	}
}

func TestLoad_UnknownPortLooksUpEmpty(t *testing.T) {
	m, _, err := Load(strings.NewReader("22 ssh\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := m.Lookup(9999); got != "" {
		t.Errorf("Lookup(9999) = %q, want empty", got)
	}
}

func TestLoad_CollectsParseErrorsWithoutAbortingWholeFile(t *testing.T) {
	m, stats, err := Load(strings.NewReader("22 ssh\nnotanumber foo\n80 http\n"))
	if err == nil {
		t.Fatal("expected a ParseError from the malformed line")
	}
	var perr *ParseError
	if !asParseError(err, &perr) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if perr.LineNumber != 2 {
		t.Errorf("LineNumber = %d, want 2", perr.LineNumber)
	}
	// Despite the bad line, both well-formed entries must still load.
	if stats.EntryCount != 2 {
		t.Errorf("EntryCount = %d, want 2", stats.EntryCount)
	}
	if got := m.Lookup(22); got != "ssh" {
		t.Errorf("Lookup(22) = %q, want ssh", got)
	}
	if got := m.Lookup(80); got != "http" {
		t.Errorf("Lookup(80) = %q, want http", got)
	}
}

func asParseError(err error, target **ParseError) bool {
	if pe, ok := err.(*ParseError); ok {
		*target = pe
		return true
	}
	return false
}

func TestCommon_ResolvesWellKnownPorts(t *testing.T) {
	m := Common()
	cases := map[uint16]string{80: "http", 443: "https", 22: "ssh", 3306: "mysql"}
	for port, want := range cases {
		if got := m.Lookup(port); got != want {
			t.Errorf("Lookup(%d) = %q, want %q", port, got, want)
		}
	}
}

func TestMap_LookupOnNilMapIsEmpty(t *testing.T) {
	var m *Map
	if got := m.Lookup(80); got != "" {
		t.Errorf("Lookup on nil map = %q, want empty", got)
	}
}
