// panel/panel.go

// Package panel multiplexes an arbitrary number of logical status rows
// onto a character display with fewer visible rows, using time-sliced
// scrolling. Rendering is incremental: each Poll performs at most one
// transport operation (a cursor position or a single character), so a
// cooperative scheduling loop is never held up by the display. Rows are
// fixed-capacity buffers written through a select-then-append protocol;
// blank rows are skipped by the scroll rotation.
package panel

import (
	"errors"
	"time"
)

const (
	// MaxRows is the number of logical text rows tracked per display.
	MaxRows = 8
	// MaxCols is the capacity of one logical row in characters.
	MaxCols = 20

	// rowInitial marks a scroll cursor that has not selected a row yet.
	rowInitial = -1
)

// DefaultScrollInterval is the pause between complete screen passes.
const DefaultScrollInterval = 3 * time.Second

var (
	// ErrNoRow is returned by writes when no valid row is selected.
	ErrNoRow = errors.New("panel: no row selected")
	// ErrRowFull is returned when a write would exceed the row capacity.
	// The excess character is dropped; the row keeps its current text.
	ErrRowFull = errors.New("panel: row buffer full")
)

// ScrollMode selects which logical rows are chosen for physical slots
// across successive passes.
type ScrollMode uint8

const (
	// ScrollContinuous resumes each pass where the previous one stopped,
	// producing a smooth scroll through all non-blank rows.
	ScrollContinuous ScrollMode = iota
	// ScrollPage restarts every pass from logical row 0, alternating
	// between fixed pages of content.
	ScrollPage
	// ScrollRow advances the pass start by one found row per pass,
	// producing a row-at-a-time upward crawl.
	ScrollRow
)

// Config holds display settings applied by Configure. Zero values select
// the defaults noted per field.
type Config struct {
	// Mode is the scroll policy. Default ScrollContinuous.
	Mode ScrollMode
	// ScrollInterval is the pause between screen passes.
	// Default DefaultScrollInterval.
	ScrollInterval time.Duration
	// Millis returns a monotonic millisecond counter. It is read once per
	// render step. Default: wall-clock milliseconds since process start.
	// Wrap-around is harmless; the throttle uses uint32 subtraction.
	Millis func() uint32
}

// Display multiplexes MaxRows logical rows onto one physical device.
// All methods must be called from a single goroutine; the type is meant
// for a cooperative polling loop and uses no locks.
type Display struct {
	dev  Driver
	cols int // physical columns, from the driver
	rows int // physical rows (slots), from the driver

	lines  [MaxRows][MaxCols + 1]byte // NUL-terminated row text
	hotRow int                        // row receiving writes, rowInitial if none
	hotCol int

	mode     ScrollMode
	interval uint32 // ms between passes
	millis   func() uint32

	// Scroll cursor state for the pass in progress.
	rowFirst   int // row that started this pass, rowInitial until seeded
	rowNext    int // last row found by the non-blank search
	slot       int // physical slot being filled
	noMoreRows bool

	// Active render state for the current slot.
	lineBuf [MaxCols + 1]byte // copy of the row being streamed out
	staged  bool              // lineBuf holds content for the current slot
	bufPos  int
	colIdx  int // characters emitted into the current slot

	lastScroll uint32 // millis at last pass completion
}

var processStart = time.Now()

func defaultMillis() uint32 {
	return uint32(time.Since(processStart).Milliseconds())
}

// New binds a display to its transport and reads the device geometry.
// Logical rows wider or more numerous than the device are still tracked;
// geometry only bounds what is visible at once.
func New(dev Driver) *Display {
	cols, rows := dev.Size()
	if cols > MaxCols {
		cols = MaxCols
	}
	if rows > MaxRows {
		rows = MaxRows
	}
	d := &Display{
		dev:      dev,
		cols:     cols,
		rows:     rows,
		hotRow:   rowInitial,
		mode:     ScrollContinuous,
		interval: uint32(DefaultScrollInterval.Milliseconds()),
		millis:   defaultMillis,
		rowFirst: rowInitial,
		rowNext:  rowInitial,
	}
	return d
}

// Configure applies cfg. Call before Begin; reconfiguring mid-pass
// discards no state but may change when the current pass completes.
func (d *Display) Configure(cfg Config) error {
	d.mode = cfg.Mode
	if cfg.ScrollInterval > 0 {
		d.interval = uint32(cfg.ScrollInterval.Milliseconds())
	}
	if cfg.Millis != nil {
		d.millis = cfg.Millis
	}
	return nil
}

// Begin initializes the transport and blanks the physical display.
// Follow with Refresh for a deterministic first paint during startup.
func (d *Display) Begin() error {
	if err := d.dev.Begin(); err != nil {
		return err
	}
	return d.dev.Clear()
}

// Clear blanks the device and every logical row, and resets the scroll
// cursors so the next pass fills from row 0.
func (d *Display) Clear() error {
	err := d.dev.Clear()
	for row := 0; row < MaxRows; row++ {
		d.lines[row][0] = 0
	}
	d.hotRow = rowInitial
	d.rowFirst = rowInitial
	d.rowNext = rowInitial
	d.staged = false
	d.noMoreRows = false
	d.slot = 0
	return err
}

// SetRow selects the row that subsequent writes append to and resets its
// content to blank. An out-of-range row deselects instead, so the writes
// that follow are rejected rather than landing in another row's buffer.
func (d *Display) SetRow(row int) {
	if row < 0 || row >= MaxRows {
		d.hotRow = rowInitial
		return
	}
	d.hotRow = row
	d.hotCol = 0
	d.lines[row][0] = 0
}

// WriteByte appends one character to the selected row, keeping the row
// NUL-terminated. Writes with no row selected or past the row capacity
// are dropped and reported through the error; they never touch memory
// outside the row.
func (d *Display) WriteByte(b byte) error {
	if d.hotRow < 0 || d.hotRow >= MaxRows {
		return ErrNoRow
	}
	if d.hotCol >= MaxCols {
		return ErrRowFull
	}
	d.lines[d.hotRow][d.hotCol] = b
	d.hotCol++
	d.lines[d.hotRow][d.hotCol] = 0
	return nil
}

// Write appends p to the selected row, implementing io.Writer so row
// text can be produced with fmt.Fprintf. It stops at the first rejected
// byte and reports how many were stored.
func (d *Display) Write(p []byte) (int, error) {
	for i, b := range p {
		if err := d.WriteByte(b); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// PrintRow replaces the text of row with s (truncated to the row
// capacity). Passing an empty string blanks the row, removing it from
// the scroll rotation.
func (d *Display) PrintRow(row int, s string) {
	d.SetRow(row)
	for i := 0; i < len(s); i++ {
		if d.WriteByte(s[i]) != nil {
			break
		}
	}
}

// Row returns the current text of a logical row ("" for blank or
// out-of-range rows).
func (d *Display) Row(row int) string {
	if row < 0 || row >= MaxRows {
		return ""
	}
	n := 0
	for n < MaxCols && d.lines[row][n] != 0 {
		n++
	}
	return string(d.lines[row][:n])
}

// Size returns the physical geometry the display was bound to.
func (d *Display) Size() (cols, rows int) { return d.cols, d.rows }

// Poll performs at most one unit of transport I/O. It returns
// immediately when the device is busy or the inter-pass pause has not
// elapsed. Call it on every iteration of the scheduling loop.
func (d *Display) Poll() {
	if d.dev.Busy() {
		return
	}
	d.step(false)
}

// Refresh redraws the whole screen synchronously from the top. Intended
// for startup, before the cooperative loop is running; it ignores the
// scroll throttle and discards any pass in progress.
func (d *Display) Refresh() {
	d.step(true)
}

// step runs the render state machine: one micro-step normally, a
// complete pass when forced. It reports whether a pass completed.
func (d *Display) step(force bool) bool {
	now := d.millis()

	if !force {
		// Inside the pause between passes? lastScroll only moves at pass
		// completion, so an in-progress pass is never stalled here.
		if now-d.lastScroll < d.interval {
			return false
		}
	} else {
		// Restart the pass from the top.
		d.rowFirst = rowInitial
		d.rowNext = rowInitial
		d.staged = false
		d.noMoreRows = false
		d.slot = 0
	}

	for {
		if !d.staged {
			// Find a row of text for the current slot. The first row
			// found becomes the pass anchor: the search stops when it
			// wraps back to it.
			if d.findNextNonBlankRow() {
				if d.rowFirst == rowInitial {
					d.rowFirst = d.rowNext
				}
				d.lineBuf = d.lines[d.rowNext]
			} else {
				// Nothing left; the slot is wiped with spaces.
				d.lineBuf[0] = 0
			}
			_ = d.dev.SetSlot(d.slot)
			d.colIdx = 0
			d.bufPos = 0
			d.staged = true
		} else {
			// Emit the next character, or a space to erase whatever a
			// previous longer line left in this cell.
			if ch := d.lineBuf[d.bufPos]; ch != 0 {
				_ = d.dev.WriteChar(ch)
				d.bufPos++
			} else {
				_ = d.dev.WriteChar(' ')
			}

			d.colIdx++
			if d.colIdx >= d.cols {
				// Slot filled; move to the next one.
				d.staged = false
				d.slot++
				if d.slot >= d.rows {
					// Pass complete.
					if d.mode == ScrollRow && !d.noMoreRows {
						// Next pass resumes one found row past this
						// pass's anchor.
						d.rowNext = d.rowFirst
						d.findNextNonBlankRow()
					}
					d.noMoreRows = false
					d.slot = 0
					d.rowFirst = rowInitial
					d.lastScroll = now
					return true
				}
			}
		}
		if !force {
			return false
		}
	}
}

// findNextNonBlankRow advances rowNext to the next row with text,
// honoring the scroll mode's pass boundary. It reports false once the
// pass is exhausted; the scan is bounded to one full wrap of the grid so
// an all-blank grid terminates too.
func (d *Display) findNextNonBlankRow() bool {
	for scanned := 0; !d.noMoreRows; scanned++ {
		if scanned > MaxRows {
			d.noMoreRows = true
			return false
		}
		if d.rowNext == rowInitial {
			d.rowNext = 0
		} else {
			d.rowNext++
		}
		if d.mode == ScrollPage {
			if d.rowNext >= MaxRows {
				// Page shown; next pass starts over from the top.
				d.rowNext = rowInitial
				d.noMoreRows = true
				return false
			}
		} else {
			if d.rowNext >= MaxRows {
				d.rowNext = 0
			}
			if d.rowNext == d.rowFirst {
				// Wrapped back to where this pass started.
				d.noMoreRows = true
				return false
			}
		}
		if d.lines[d.rowNext][0] != 0 {
			return true
		}
	}
	return false
}
