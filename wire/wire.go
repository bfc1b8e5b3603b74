// Package wire owns the live raw-socket handle a scanner sends and receives
// frames through. It exposes the handle as two small interfaces
// (Reader/Sender) behind mutex-guarded shared handles, following the
// teacher's pcap.OpenLive usage in scanner/tcp_syn.go and the arp-scan
// example under other_examples (pcap.OpenLive + gopacket.NewPacketSource).
package wire

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcap"

	"lanscan/network"
)

// snapLen is generous enough to capture a full Ethernet frame with an IPv4
// TCP/ARP payload; matches the teacher's 65535 in performSynScan.
const snapLen = 65535

// readTimeout bounds how long a single next_packet call can block the
// underlying pcap read before giving the reader loop a chance to observe a
// stop signal. It is deliberately short relative to the heartbeat interval.
const readTimeout = 500 * time.Millisecond

// Reader blocks until a new link-layer frame is available.
type Reader interface {
	// NextPacket returns the next captured frame. The returned slice is
	// valid only until the next call.
	NextPacket() ([]byte, error)
}

// Sender transmits a single, fully-formed link-layer frame.
type Sender interface {
	Send(frame []byte) error
}

// Wire owns one live interface handle and exposes it as a mutex-guarded
// Reader and Sender, per spec.md §4.1.
type Wire struct {
	handle *pcap.Handle
	source *gopacket.PacketSource

	readerMu sync.Mutex
	senderMu sync.Mutex
}

// Open opens a live packet capture handle on iface in promiscuous mode.
// The returned Wire's reader and sender must not be used concurrently by
// more than one scan at a time (spec.md §4.1, §9 open question c).
func Open(iface *network.Interface) (*Wire, error) {
	handle, err := pcap.OpenLive(iface.Name, snapLen, true, readTimeout)
	if err != nil {
		return nil, fmt.Errorf("wire: opening %s: %w", iface.Name, err)
	}

	return &Wire{
		handle: handle,
		source: gopacket.NewPacketSource(handle, handle.LinkType()),
	}, nil
}

// Close releases the underlying pcap handle.
func (w *Wire) Close() {
	w.handle.Close()
}

// Reader returns a mutex-guarded Reader view of this wire. The reader lock
// is held across each blocking NextPacket call, per spec.md invariant 5 —
// Reader takes it internally, so callers need only call NextPacket without
// any external locking.
func (w *Wire) Reader() Reader { return (*wireReader)(w) }

// Sender returns a mutex-guarded Sender view of this wire.
func (w *Wire) Sender() Sender { return (*wireSender)(w) }

type wireReader Wire

// NextPacket blocks until a frame arrives or a read error occurs. A pcap
// read timeout (no frame within readTimeout) is reported as ErrTimeout so
// callers can distinguish "nothing arrived yet" from a fatal wire error.
func (r *wireReader) NextPacket() ([]byte, error) {
	r.readerMu.Lock()
	defer r.readerMu.Unlock()

	for {
		data, _, err := r.handle.ReadPacketData()
		if err == pcap.NextErrorTimeoutExpired {
			return nil, ErrTimeout
		}
		if err != nil {
			return nil, fmt.Errorf("wire: reading packet: %w", err)
		}
		return data, nil
	}
}

type wireSender Wire

// Send writes exactly one fully-formed link-layer frame.
func (s *wireSender) Send(frame []byte) error {
	s.senderMu.Lock()
	defer s.senderMu.Unlock()

	if err := s.handle.WritePacketData(frame); err != nil {
		return fmt.Errorf("wire: writing packet: %w", err)
	}
	return nil
}

// ErrTimeout is returned by Reader.NextPacket when no frame arrived within
// the wire's internal read timeout. Reader loops treat it the same as "no
// packet yet" and re-check their stop signal.
var ErrTimeout = fmt.Errorf("wire: read timeout")
