// panel/driver.go

package panel

// Driver is the transport capability for one physical character display
// (an LCD behind an I2C backpack, an OLED, a simulator). The multiplexer
// never assumes an operation completes instantly: outside of a forced
// refresh it issues at most one SetSlot or WriteChar per Poll, and it is
// only invoked when Busy reports false.
type Driver interface {
	// Begin initializes the device.
	Begin() error

	// Clear blanks the whole physical display.
	Clear() error

	// Busy reports whether the device is still processing a previous
	// operation and cannot accept another one yet.
	Busy() bool

	// SetSlot positions the cursor at column 0 of the given physical row.
	SetSlot(slot int) error

	// WriteChar writes one character at the cursor and advances it.
	WriteChar(b byte) error

	// Size returns the device geometry in characters (e.g. 16x2).
	Size() (cols, rows int)
}
