// drivers/hd44780/hd44780.go

// Package hd44780 adapts an HD44780 character LCD behind an I2C
// backpack (PCF8574 and clones, the common 16x2/20x4 modules) to the
// panel.Driver transport interface.
//
// The adapter is host-testable: it only needs a drivers.I2C bus, so
// tests can hand it a fake bus while firmware hands it machine.I2C0.
package hd44780

import (
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/hd44780i2c"
)

// DefaultAddr is the usual PCF8574 backpack address.
const DefaultAddr uint8 = 0x27

// Device drives one HD44780 module as a panel transport.
type Device struct {
	lcd  hd44780i2c.Device
	cols int
	rows int
	ch   [1]byte // scratch for single-character writes
}

// New wraps the LCD at addr on bus with the given geometry in
// characters (e.g. 16, 2).
func New(bus drivers.I2C, addr uint8, cols, rows int) *Device {
	return &Device{
		lcd:  hd44780i2c.New(bus, addr),
		cols: cols,
		rows: rows,
	}
}

// Begin initializes the controller for the configured geometry.
func (d *Device) Begin() error {
	return d.lcd.Configure(hd44780i2c.Config{
		Width:  uint8(d.cols),
		Height: uint8(d.rows),
	})
}

// Clear blanks the display and homes the cursor. The underlying driver
// does not report transfer errors after Configure, so the panel.Driver
// errors below are always nil.
func (d *Device) Clear() error {
	d.lcd.ClearDisplay()
	return nil
}

// Busy reports false: the backpack transfer completes within the I2C
// transaction, so the controller is ready again by the time the call
// returns.
func (d *Device) Busy() bool { return false }

// SetSlot positions the cursor at column 0 of a physical row.
func (d *Device) SetSlot(slot int) error {
	d.lcd.SetCursor(0, uint8(slot))
	return nil
}

// WriteChar writes one character at the cursor.
func (d *Device) WriteChar(b byte) error {
	d.ch[0] = b
	d.lcd.Print(d.ch[:])
	return nil
}

// Size returns the module geometry in characters.
func (d *Device) Size() (cols, rows int) { return d.cols, d.rows }

// Backlight switches the backpack's backlight.
func (d *Device) Backlight(on bool) error {
	d.lcd.BacklightOn(on)
	return nil
}
