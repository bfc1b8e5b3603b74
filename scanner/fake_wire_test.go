package scanner

import (
	"sync"
	"time"

	"lanscan/wire"
)

// fakeReader replays a fixed sequence of frames, then reports ErrTimeout
// forever so callers can keep checking their stop signal — the same "no
// packet yet" contract wire.Wire's pcap-backed Reader provides.
type fakeReader struct {
	mu     sync.Mutex
	frames [][]byte
	idx    int
}

func newFakeReader(frames ...[]byte) *fakeReader {
	return &fakeReader{frames: frames}
}

// push queues more frames behind any not yet replayed.
func (r *fakeReader) push(frames ...[]byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, frames...)
}

func (r *fakeReader) NextPacket() ([]byte, error) {
	r.mu.Lock()
	if r.idx < len(r.frames) {
		f := r.frames[r.idx]
		r.idx++
		r.mu.Unlock()
		return f, nil
	}
	r.mu.Unlock()
	time.Sleep(time.Millisecond)
	return nil, wire.ErrTimeout
}

// erroringReader returns ErrTimeout succeedFirst times, then a fixed error, modeling
// spec.md §8 scenario 6 (a wire read failure).
type erroringReader struct {
	mu      sync.Mutex
	remain  int
	failure error
}

func newErroringReader(succeedFirst int, failure error) *erroringReader {
	return &erroringReader{remain: succeedFirst, failure: failure}
}

func (r *erroringReader) NextPacket() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.remain > 0 {
		r.remain--
		time.Sleep(time.Millisecond)
		return nil, wire.ErrTimeout
	}
	return nil, r.failure
}

// fakeSender records every frame it was asked to send, so tests can assert
// on the call log (e.g. spec.md §8 property 3: "a matching RST was
// attempted on the wire").
type fakeSender struct {
	mu    sync.Mutex
	calls [][]byte
}

func (s *fakeSender) Send(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(frame))
	copy(cp, frame)
	s.calls = append(s.calls, cp)
	return nil
}

func (s *fakeSender) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}
