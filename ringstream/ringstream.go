// ringstream/ringstream.go

// Package ringstream provides a fixed-capacity circular byte buffer for
// decoupling a fast producer of message bytes from a slow downstream
// consumer. It is single-producer/single-consumer with no internal
// locking: one goroutine (or one cooperative task) per role, and callers
// must serialize access within each role.
//
// Overflow is detected, not hidden: once the write cursor catches the
// read cursor the stream rejects further writes until the consumer reads
// a byte, at which point it is writable again (the bytes lost to the
// overflow are not recovered).
package ringstream

import (
	"errors"
	"log/slog"
)

var (
	// ErrOverflow is returned by the io-style writers while the stream is
	// in its overflow state.
	ErrOverflow = errors.New("ringstream: overflow")
	// ErrEmpty is returned by ReadByte when no data is buffered. An empty
	// stream is a normal condition, not a failure.
	ErrEmpty = errors.New("ringstream: empty")
)

const minCapacity = 2 // one usable byte plus the reserved slot

// Stream is a bounded circular byte buffer. One slot is reserved to tell
// a full buffer from an empty one, so a Stream of capacity C holds at
// most C-1 bytes.
type Stream struct {
	buf      []byte
	wpos     int
	rpos     int
	overflow bool
	logger   *slog.Logger
}

// New returns a stream with the given capacity in bytes. Capacities
// below the minimum are raised to it.
func New(capacity int) *Stream {
	if capacity < minCapacity {
		capacity = minCapacity
	}
	return &Stream{buf: make([]byte, capacity)}
}

// SetLogger installs a logger for overflow diagnostics. One record is
// emitted per overflow transition. Without a logger the stream is
// silent.
func (s *Stream) SetLogger(l *slog.Logger) { s.logger = l }

// Cap returns the allocated capacity. Usable space is Cap()-1.
func (s *Stream) Cap() int { return len(s.buf) }

// Used returns the number of unread bytes currently buffered. In the
// overflow state the cursors are equal with every slot holding unread
// data, so the whole capacity is reported.
func (s *Stream) Used() int {
	if s.overflow {
		return len(s.buf)
	}
	return (s.wpos - s.rpos + len(s.buf)) % len(s.buf)
}

// Free returns how many more bytes Put will accept.
func (s *Stream) Free() int {
	if s.overflow {
		return 0
	}
	return len(s.buf) - 1 - s.Used()
}

// Overflowed reports whether the stream is in its overflow state. The
// flag is sticky: it clears on the next successful Get.
func (s *Stream) Overflowed() bool { return s.overflow }

// Put stores one byte and reports whether it was accepted. The write
// that collides with the read cursor is itself rejected and flips the
// stream into the overflow state.
func (s *Stream) Put(b byte) bool {
	if s.overflow {
		return false
	}
	s.buf[s.wpos] = b
	s.wpos++
	if s.wpos >= len(s.buf) {
		s.wpos = 0
	}
	if s.wpos == s.rpos {
		s.overflow = true
		if s.logger != nil {
			s.logger.Warn("ring stream overflow",
				"capacity", len(s.buf), "wpos", s.wpos, "rpos", s.rpos)
		}
		return false
	}
	return true
}

// Get returns the oldest buffered byte. The second result is false when
// the stream is empty. A successful Get clears the overflow state,
// making the stream writable again.
func (s *Stream) Get() (byte, bool) {
	// Equal cursors mean empty only when not overflowed; the colliding
	// write leaves them equal with the buffer completely full.
	if s.rpos == s.wpos && !s.overflow {
		return 0, false
	}
	b := s.buf[s.rpos]
	s.rpos++
	if s.rpos >= len(s.buf) {
		s.rpos = 0
	}
	s.overflow = false
	return b, true
}

// Count returns the length of the next NUL-terminated message without
// consuming it: it scans forward from the read cursor until a zero byte
// or the end of the unread data. It assumes the producer writes messages
// as consecutive bytes terminated by a zero byte, with no zero byte
// mid-message. The scan is bounded by Used rather than raw cursor
// equality so buffered messages stay countable in the overflow state.
func (s *Stream) Count() int {
	peek := s.rpos
	remaining := s.Used()
	n := 0
	for n < remaining && s.buf[peek] != 0 {
		n++
		peek++
		if peek >= len(s.buf) {
			peek = 0
		}
	}
	return n
}

// WriteByte implements io.ByteWriter over Put.
func (s *Stream) WriteByte(b byte) error {
	if !s.Put(b) {
		return ErrOverflow
	}
	return nil
}

// Write implements io.Writer. It stops at the first rejected byte and
// reports how many were stored.
func (s *Stream) Write(p []byte) (int, error) {
	for i, b := range p {
		if !s.Put(b) {
			return i, ErrOverflow
		}
	}
	return len(p), nil
}

// ReadByte implements io.ByteReader over Get, returning ErrEmpty when no
// data is buffered.
func (s *Stream) ReadByte() (byte, error) {
	b, ok := s.Get()
	if !ok {
		return 0, ErrEmpty
	}
	return b, nil
}
