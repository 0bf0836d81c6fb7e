package ringstream

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
)

func TestPutThenGet(t *testing.T) {
	s := New(16)
	if !s.Put('x') {
		t.Fatal("Put rejected on empty stream")
	}
	b, ok := s.Get()
	if !ok || b != 'x' {
		t.Fatalf("Get = %q, %v", b, ok)
	}
	if _, ok := s.Get(); ok {
		t.Fatal("Get on drained stream reported data")
	}
}

func TestCapacityAndOverflow(t *testing.T) {
	const capacity = 8
	s := New(capacity)

	// capacity-1 bytes fit.
	for i := 0; i < capacity-1; i++ {
		if !s.Put(byte('a' + i)) {
			t.Fatalf("Put %d rejected before capacity", i)
		}
	}
	if s.Overflowed() {
		t.Fatal("overflow flagged before the colliding write")
	}
	if s.Used() != capacity-1 || s.Free() != 0 {
		t.Fatalf("Used=%d Free=%d", s.Used(), s.Free())
	}

	// The capacity-th write collides with the read cursor.
	if s.Put('X') {
		t.Fatal("colliding write accepted")
	}
	if !s.Overflowed() {
		t.Fatal("overflow not flagged")
	}

	// Sticky: further writes rejected until a read.
	if s.Put('Y') {
		t.Fatal("write accepted while overflowed")
	}

	// A read recovers the stream to a writable state.
	b, ok := s.Get()
	if !ok || b != 'a' {
		t.Fatalf("Get after overflow = %q, %v", b, ok)
	}
	if s.Overflowed() {
		t.Fatal("overflow still set after successful read")
	}

	// The colliding write left the cursors equal, so one freed slot is
	// reconsumed by the very next store; after a second read writes
	// genuinely succeed again.
	s.Get()
	if !s.Put('Z') {
		t.Fatal("write rejected after recovery")
	}
	if s.Overflowed() {
		t.Fatal("overflow set after accepted write")
	}
}

func TestOverflowedBufferDrainsFully(t *testing.T) {
	s := New(8)
	for i := 0; i < 8; i++ {
		s.Put(byte('a' + i))
	}
	if !s.Overflowed() {
		t.Fatal("overflow not flagged")
	}
	// The colliding write stored its byte too: every slot is full even
	// though the cursors are equal.
	if s.Used() != 8 {
		t.Fatalf("Used = %d; want 8", s.Used())
	}

	// Reads must not mistake the full buffer for an empty one; the
	// first one clears the flag and the rest drain in order.
	for i := 0; i < 8; i++ {
		b, ok := s.Get()
		if !ok || b != byte('a'+i) {
			t.Fatalf("Get %d = %q, %v; want %q", i, b, ok, byte('a'+i))
		}
		if s.Overflowed() {
			t.Fatalf("overflow still set after read %d", i)
		}
	}
	if _, ok := s.Get(); ok {
		t.Fatal("drained stream reported data")
	}
	if !s.Put('Z') {
		t.Fatal("write rejected after full drain")
	}
}

func TestCountAfterOverflow(t *testing.T) {
	s := New(8)
	if _, err := s.Write([]byte("AB\x00")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	for s.Put('x') {
	}
	if !s.Overflowed() {
		t.Fatal("overflow not flagged")
	}

	// The buffered message is still countable and drainable.
	if n := s.Count(); n != 2 {
		t.Fatalf("Count = %d; want 2", n)
	}
	if b, ok := s.Get(); !ok || b != 'A' {
		t.Fatalf("Get = %q, %v; want 'A'", b, ok)
	}
}

func TestWrapAround(t *testing.T) {
	s := New(4)
	// Cycle enough bytes to wrap the cursors several times.
	for i := 0; i < 25; i++ {
		if !s.Put(byte(i)) {
			t.Fatalf("Put %d rejected", i)
		}
		b, ok := s.Get()
		if !ok || b != byte(i) {
			t.Fatalf("cycle %d: got %d, %v", i, b, ok)
		}
	}
}

func TestCountIsNonDestructive(t *testing.T) {
	s := New(32)
	for _, b := range []byte("AB\x00garbage") {
		s.Put(b)
	}

	if n := s.Count(); n != 2 {
		t.Fatalf("Count = %d; want 2", n)
	}
	// The scan must not have moved the read cursor.
	if b, ok := s.Get(); !ok || b != 'A' {
		t.Fatalf("Get after Count = %q, %v; want 'A'", b, ok)
	}
}

func TestCountStopsAtWriteCursor(t *testing.T) {
	s := New(16)
	// No terminator written: the scan is bounded by the write cursor.
	for _, b := range []byte("ABC") {
		s.Put(b)
	}
	if n := s.Count(); n != 3 {
		t.Fatalf("Count = %d; want 3", n)
	}
	if n := New(16).Count(); n != 0 {
		t.Fatalf("Count on empty = %d; want 0", n)
	}
}

func TestCountAcrossWrap(t *testing.T) {
	s := New(8)
	// Move the cursors near the end, then write a message that wraps.
	for i := 0; i < 6; i++ {
		s.Put('x')
		s.Get()
	}
	for _, b := range []byte("HELLO\x00") {
		if !s.Put(b) {
			t.Fatalf("Put %q rejected", b)
		}
	}
	if n := s.Count(); n != 5 {
		t.Fatalf("Count = %d; want 5", n)
	}
}

func TestIOAdapters(t *testing.T) {
	s := New(64)
	if n, err := s.Write([]byte("msg\x00")); n != 4 || err != nil {
		t.Fatalf("Write = %d, %v", n, err)
	}
	if err := s.WriteByte('!'); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}

	var got []byte
	for {
		b, err := s.ReadByte()
		if err != nil {
			if !errors.Is(err, ErrEmpty) {
				t.Fatalf("ReadByte: %v", err)
			}
			break
		}
		got = append(got, b)
	}
	if !bytes.Equal(got, []byte("msg\x00!")) {
		t.Fatalf("drained %q", got)
	}

	// Write reports the partial count when it hits the overflow.
	small := New(4)
	n, err := small.Write([]byte("abcdef"))
	if n != 3 || !errors.Is(err, ErrOverflow) {
		t.Fatalf("Write into full stream = %d, %v", n, err)
	}
	if err := small.WriteByte('g'); !errors.Is(err, ErrOverflow) {
		t.Fatalf("WriteByte while overflowed = %v", err)
	}
}

func TestOverflowLoggedOncePerTransition(t *testing.T) {
	var buf bytes.Buffer
	s := New(4)
	s.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	for i := 0; i < 10; i++ {
		s.Put('x')
	}
	if n := bytes.Count(buf.Bytes(), []byte("ring stream overflow")); n != 1 {
		t.Fatalf("overflow logged %d times; want 1", n)
	}

	// Recover and overflow again: a second transition, a second record.
	s.Get()
	for i := 0; i < 10; i++ {
		s.Put('x')
	}
	if n := bytes.Count(buf.Bytes(), []byte("ring stream overflow")); n != 2 {
		t.Fatalf("overflow logged %d times; want 2", n)
	}
}
