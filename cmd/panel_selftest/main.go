// cmd/panel_selftest/main.go
// Host-run scenario suite for the display multiplexer and ring stream.
// Drives a recorded in-memory transport through the same sequences the
// firmware scheduler would and reports [PASS]/[FAIL] per scenario.

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openrailkit/panelmux/panel"
	"github.com/openrailkit/panelmux/ringstream"
)

// memDriver records transport operations into a character grid.
type memDriver struct {
	cols, rows int
	grid       [][]byte
	slot, col  int
}

func newMemDriver(cols, rows int) *memDriver {
	m := &memDriver{cols: cols, rows: rows}
	for i := 0; i < rows; i++ {
		m.grid = append(m.grid, []byte(strings.Repeat(" ", cols)))
	}
	return m
}

func (m *memDriver) Begin() error { return nil }

func (m *memDriver) Clear() error {
	for i := range m.grid {
		copy(m.grid[i], strings.Repeat(" ", m.cols))
	}
	return nil
}

func (m *memDriver) Busy() bool { return false }

func (m *memDriver) SetSlot(slot int) error {
	m.slot, m.col = slot, 0
	return nil
}

func (m *memDriver) WriteChar(b byte) error {
	if m.slot < m.rows && m.col < m.cols {
		m.grid[m.slot][m.col] = b
	}
	m.col++
	return nil
}

func (m *memDriver) Size() (int, int) { return m.cols, m.rows }

func (m *memDriver) visible() []string {
	out := make([]string, m.rows)
	for i, row := range m.grid {
		out[i] = strings.TrimRight(string(row), " ")
	}
	return out
}

// clock is a hand-cranked millisecond counter.
type clock struct{ now uint32 }

func (c *clock) millis() uint32 { return c.now }

func buildDisplay(mode panel.ScrollMode) (*panel.Display, *memDriver, *clock) {
	dev := newMemDriver(16, 2)
	clk := &clock{}
	d := panel.New(dev)
	_ = d.Configure(panel.Config{Mode: mode, ScrollInterval: time.Second, Millis: clk.millis})
	_ = d.Begin()
	for i, s := range []string{"A", "B", "C", "D", "E"} {
		d.PrintRow(i, s)
	}
	return d, dev, clk
}

// drivePass pumps single polls until a pass has painted both slots.
func drivePass(d *panel.Display, dev *memDriver, clk *clock) []string {
	clk.now += 1001
	// One pass on a 16x2 device is 2*(16+1) transport operations.
	for i := 0; i < 2*(16+1); i++ {
		d.Poll()
	}
	return dev.visible()
}

func checkTrace(mode panel.ScrollMode, want [][]string) string {
	d, dev, clk := buildDisplay(mode)
	d.Refresh()
	if got := dev.visible(); got[0] != want[0][0] || got[1] != want[0][1] {
		return fmt.Sprintf("startup pass painted %v, want %v", got, want[0])
	}
	for p := 1; p < len(want); p++ {
		got := drivePass(d, dev, clk)
		if got[0] != want[p][0] || got[1] != want[p][1] {
			return fmt.Sprintf("pass %d painted %v, want %v", p+1, got, want[p])
		}
	}
	return ""
}

func checkRowWriteProtocol() string {
	d, dev, _ := buildDisplay(panel.ScrollContinuous)
	d.PrintRow(0, "Main 14.2V")
	if got := d.Row(0); got != "Main 14.2V" {
		return fmt.Sprintf("row readback %q", got)
	}
	d.SetRow(panel.MaxRows + 3)
	if err := d.WriteByte('!'); err == nil {
		return "append to out-of-range row accepted"
	}
	d.Refresh()
	if got := dev.visible()[0]; got != "Main 14.2V" {
		return fmt.Sprintf("slot 0 painted %q", got)
	}
	return ""
}

func checkRingOverflowRecovery() string {
	s := ringstream.New(8)
	accepted := 0
	for i := 0; i < 8; i++ {
		if s.Put(byte('0' + i)) {
			accepted++
		}
	}
	if accepted != 7 {
		return fmt.Sprintf("accepted %d of 8 writes, want 7", accepted)
	}
	if !s.Overflowed() {
		return "overflow not flagged"
	}
	if b, ok := s.Get(); !ok || b != '0' {
		return fmt.Sprintf("read after overflow = %q, %v", b, ok)
	}
	if s.Overflowed() {
		return "overflow sticky after read"
	}
	return ""
}

func checkRingMessageFraming() string {
	s := ringstream.New(64)
	if _, err := s.Write([]byte("SPEED 3 28\x00")); err != nil {
		return fmt.Sprintf("write: %v", err)
	}
	if _, err := s.Write([]byte("POWER ON\x00")); err != nil {
		return fmt.Sprintf("write: %v", err)
	}
	if n := s.Count(); n != 10 {
		return fmt.Sprintf("first message length %d, want 10", n)
	}
	msg := make([]byte, s.Count())
	for i := range msg {
		msg[i], _ = s.Get()
	}
	s.Get() // consume the terminator
	if string(msg) != "SPEED 3 28" {
		return fmt.Sprintf("first message %q", msg)
	}
	if n := s.Count(); n != 8 {
		return fmt.Sprintf("second message length %d, want 8", n)
	}
	return ""
}

func main() {
	pass, fail := 0, 0
	report := func(name, err string) {
		if err == "" {
			fmt.Println("[PASS]", name)
			pass++
		} else {
			fmt.Println("[FAIL]", name, ":", err)
			fail++
		}
	}

	report("Row write protocol", checkRowWriteProtocol())
	report("Scroll continuous", checkTrace(panel.ScrollContinuous, [][]string{
		{"A", "B"}, {"C", "D"}, {"E", "A"}, {"B", "C"},
	}))
	report("Scroll by row", checkTrace(panel.ScrollRow, [][]string{
		{"A", "B"}, {"C", "D"}, {"E", "A"},
	}))
	report("Scroll by page", checkTrace(panel.ScrollPage, [][]string{
		{"A", "B"}, {"C", "D"}, {"E", ""}, {"A", "B"},
	}))
	report("Ring overflow recovery", checkRingOverflowRecovery())
	report("Ring message framing", checkRingMessageFraming())

	fmt.Println()
	fmt.Printf("%d passed, %d failed\n", pass, fail)
	if fail > 0 {
		os.Exit(1)
	}
}
