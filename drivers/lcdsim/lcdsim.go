// drivers/lcdsim/lcdsim.go

// Package lcdsim renders a virtual character LCD in a terminal using
// tcell, implementing the panel.Driver transport. It optionally
// simulates per-operation transfer latency so the multiplexer's busy
// gating and one-op-per-poll behaviour can be observed on a host.
package lcdsim

import (
	"time"

	"github.com/gdamore/tcell/v2"
)

// Config describes the virtual module and where it sits on screen.
type Config struct {
	// Cols, Rows is the module geometry in characters. Default 16x2.
	Cols, Rows int
	// X, Y is the top-left corner of the bezel on the tcell screen.
	X, Y int
	// Latency is the simulated transfer time per transport operation.
	// While it elapses the device reports Busy. Zero means always ready.
	Latency time.Duration
}

// Device is a terminal-rendered character LCD.
type Device struct {
	screen tcell.Screen
	cols   int
	rows   int
	x, y   int // top-left of the character area, inside the bezel
	slot   int
	col    int
	lat    time.Duration
	ready  time.Time

	cell  tcell.Style
	bezel tcell.Style
}

// New creates a virtual LCD on screen. The screen must already be
// initialized; the caller keeps ownership of it.
func New(screen tcell.Screen, cfg Config) *Device {
	if cfg.Cols <= 0 {
		cfg.Cols = 16
	}
	if cfg.Rows <= 0 {
		cfg.Rows = 2
	}
	return &Device{
		screen: screen,
		cols:   cfg.Cols,
		rows:   cfg.Rows,
		x:      cfg.X + 1,
		y:      cfg.Y + 1,
		lat:    cfg.Latency,
		cell: tcell.StyleDefault.
			Foreground(tcell.ColorBlack).
			Background(tcell.ColorGreen),
		bezel: tcell.StyleDefault.
			Foreground(tcell.ColorGray).
			Background(tcell.ColorBlack),
	}
}

// Begin draws the module bezel and blanks the character area.
func (d *Device) Begin() error {
	d.drawBezel()
	return d.Clear()
}

// Clear blanks every character cell.
func (d *Device) Clear() error {
	for row := 0; row < d.rows; row++ {
		for col := 0; col < d.cols; col++ {
			d.screen.SetContent(d.x+col, d.y+row, ' ', nil, d.cell)
		}
	}
	d.slot, d.col = 0, 0
	d.screen.Show()
	return nil
}

// Busy reports whether a simulated transfer is still in flight.
func (d *Device) Busy() bool {
	if d.lat == 0 {
		return false
	}
	return time.Now().Before(d.ready)
}

// SetSlot positions the cursor at column 0 of a physical row.
func (d *Device) SetSlot(slot int) error {
	d.slot = slot
	d.col = 0
	d.transfer()
	return nil
}

// WriteChar writes one character at the cursor and advances it.
// Characters beyond the module geometry are discarded, as real modules
// do with their off-screen DDRAM.
func (d *Device) WriteChar(b byte) error {
	if d.slot >= 0 && d.slot < d.rows && d.col >= 0 && d.col < d.cols {
		d.screen.SetContent(d.x+d.col, d.y+d.slot, rune(b), nil, d.cell)
	}
	d.col++
	d.transfer()
	d.screen.Show()
	return nil
}

// Size returns the module geometry in characters.
func (d *Device) Size() (cols, rows int) { return d.cols, d.rows }

func (d *Device) transfer() {
	if d.lat > 0 {
		d.ready = time.Now().Add(d.lat)
	}
}

func (d *Device) drawBezel() {
	left, top := d.x-1, d.y-1
	right, bottom := d.x+d.cols, d.y+d.rows
	for col := left; col <= right; col++ {
		d.screen.SetContent(col, top, tcell.RuneHLine, nil, d.bezel)
		d.screen.SetContent(col, bottom, tcell.RuneHLine, nil, d.bezel)
	}
	for row := top; row <= bottom; row++ {
		d.screen.SetContent(left, row, tcell.RuneVLine, nil, d.bezel)
		d.screen.SetContent(right, row, tcell.RuneVLine, nil, d.bezel)
	}
	d.screen.SetContent(left, top, tcell.RuneULCorner, nil, d.bezel)
	d.screen.SetContent(right, top, tcell.RuneURCorner, nil, d.bezel)
	d.screen.SetContent(left, bottom, tcell.RuneLLCorner, nil, d.bezel)
	d.screen.SetContent(right, bottom, tcell.RuneLRCorner, nil, d.bezel)
}
