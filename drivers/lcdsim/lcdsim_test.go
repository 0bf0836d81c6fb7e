package lcdsim

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/openrailkit/panelmux/panel"
)

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	s.SetSize(40, 10)
	t.Cleanup(s.Fini)
	return s
}

// cellRow reads a rendered module row back off the simulation screen.
func cellRow(s tcell.SimulationScreen, dev *Device, row int) string {
	cols, _ := dev.Size()
	out := make([]rune, cols)
	for col := 0; col < cols; col++ {
		ch, _, _, _ := s.GetContent(dev.x+col, dev.y+row)
		out[col] = ch
	}
	return string(out)
}

func TestRendersThroughMultiplexer(t *testing.T) {
	s := newSimScreen(t)
	dev := New(s, Config{Cols: 16, Rows: 2, X: 2, Y: 1})

	d := panel.New(dev)
	if err := d.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	d.PrintRow(0, "Track power ON")
	d.PrintRow(1, "Loco 3: FWD 28")
	d.Refresh()

	if got := cellRow(s, dev, 0); got != "Track power ON  " {
		t.Fatalf("row 0 = %q", got)
	}
	if got := cellRow(s, dev, 1); got != "Loco 3: FWD 28  " {
		t.Fatalf("row 1 = %q", got)
	}
}

func TestBezelDrawnAroundCharacterArea(t *testing.T) {
	s := newSimScreen(t)
	dev := New(s, Config{Cols: 16, Rows: 2, X: 0, Y: 0})
	if err := dev.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	if ch, _, _, _ := s.GetContent(0, 0); ch != tcell.RuneULCorner {
		t.Fatalf("top-left bezel rune = %q", ch)
	}
	if ch, _, _, _ := s.GetContent(17, 3); ch != tcell.RuneLRCorner {
		t.Fatalf("bottom-right bezel rune = %q", ch)
	}
}

func TestLatencyReportsBusy(t *testing.T) {
	s := newSimScreen(t)
	dev := New(s, Config{Cols: 16, Rows: 2, Latency: 50 * time.Millisecond})
	if err := dev.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	if dev.Busy() {
		t.Fatal("busy before any transfer")
	}
	if err := dev.WriteChar('A'); err != nil {
		t.Fatalf("WriteChar: %v", err)
	}
	if !dev.Busy() {
		t.Fatal("not busy immediately after a transfer")
	}
	time.Sleep(60 * time.Millisecond)
	if dev.Busy() {
		t.Fatal("still busy after the transfer window")
	}
}

func TestZeroLatencyAlwaysReady(t *testing.T) {
	s := newSimScreen(t)
	dev := New(s, Config{Cols: 16, Rows: 2})
	_ = dev.Begin()
	_ = dev.WriteChar('A')
	if dev.Busy() {
		t.Fatal("zero-latency device reported busy")
	}
}
