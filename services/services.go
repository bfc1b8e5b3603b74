// Package services loads a static port→service-name map supplied by the
// caller, used only to annotate Port.Service metadata on a SYNScanDevice
// result. It never inspects wire traffic — service names are advisory,
// exactly as spec.md §3 describes Port.Service ("never parsed from the
// wire").
//
// The line-oriented parsing idiom (bufio.Scanner, '#' comments, per-line
// ParseError with line numbers, a LoadStats summary) is adapted from the
// teacher's scanner/probes.go nmap-probe-file loader — but the grammar
// here is a plain "<port>[/<proto>] <name>" table, not nmap's probe/match
// directive language, since banner-grabbing and its regex match engine are
// out of scope (spec.md Non-goals).
package services

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseError reports a malformed line encountered while loading a service
// map, carrying the line number and a human-readable cause, the same shape
// as the teacher's probes.ParseError.
type ParseError struct {
	LineNumber int
	Message    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("services: line %d: %s", e.LineNumber, e.Message)
}

// LoadStats summarizes a completed Load call, mirroring the teacher's
// probes.LoadStats.
type LoadStats struct {
	TotalLines int
	EntryCount int
	ErrorLines int
}

// Map is a loaded port→service-name table.
type Map struct {
	byPort map[uint16]string
}

// Lookup returns the service name registered for port, or "" if none was
// loaded for it.
func (m *Map) Lookup(port uint16) string {
	if m == nil {
		return ""
	}
	return m.byPort[port]
}

// Load parses a service table from r. Each non-blank, non-comment line is
// "<port>[/tcp|/udp] <name>"; '#' starts a comment that runs to end of
// line. Malformed lines are skipped and counted in stats.ErrorLines rather
// than aborting the whole load, since a caller's service file is often
// hand-edited and partially wrong; the returned error is the ParseError of
// the first malformed line, alongside the map of every well-formed entry.
func Load(r io.Reader) (*Map, LoadStats, error) {
	m := &Map{byPort: make(map[uint16]string)}
	stats := LoadStats{}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	var errs []error

	for scanner.Scan() {
		lineNo++
		stats.TotalLines++

		line := stripComment(scanner.Text())
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			stats.ErrorLines++
			errs = append(errs, &ParseError{LineNumber: lineNo, Message: "expected \"<port>[/proto] <name>\""})
			continue
		}

		portField := fields[0]
		if idx := strings.IndexByte(portField, '/'); idx != -1 {
			portField = portField[:idx]
		}

		port, err := strconv.ParseUint(portField, 10, 16)
		if err != nil {
			stats.ErrorLines++
			errs = append(errs, &ParseError{LineNumber: lineNo, Message: fmt.Sprintf("invalid port %q: %s", fields[0], err)})
			continue
		}

		m.byPort[uint16(port)] = fields[1]
		stats.EntryCount++
	}

	if err := scanner.Err(); err != nil {
		return m, stats, fmt.Errorf("services: reading service map: %w", err)
	}
	if len(errs) > 0 {
		return m, stats, errs[0]
	}
	return m, stats, nil
}

func stripComment(line string) string {
	if idx := strings.IndexByte(line, '#'); idx != -1 {
		return line[:idx]
	}
	return line
}

// Common returns a small built-in table of well-known ports, useful as a
// fallback when the caller supplies no service file.
func Common() *Map {
	m, _, _ := Load(strings.NewReader(commonServices))
	return m
}

const commonServices = `
21 ftp
22 ssh
23 telnet
25 smtp
53 domain
80 http
110 pop3
111 rpcbind
135 msrpc
139 netbios-ssn
143 imap
443 https
445 microsoft-ds
465 smtps
587 submission
993 imaps
995 pop3s
1433 ms-sql-s
1521 oracle
2049 nfs
3306 mysql
3389 ms-wbt-server
5432 postgresql
5900 vnc
6379 redis
8080 http-proxy
8443 https-alt
27017 mongodb
`
