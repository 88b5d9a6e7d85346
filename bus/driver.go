package bus

import "time"

// StrobeWidth is the low time of the program strobe. It is fixed by the
// chip datasheet and must not be shortened.
const StrobeWidth = 95 * time.Microsecond

// Driver translates logical bus operations into Port updates.
//
// Misuse, such as driving data while the bus is an input, is not checked;
// callers are responsible for sequencing.
type Driver struct {
	port   Port
	clock  Clock
	offset uint
	lines  Lines
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithClock sets the clock used for the strobe pulse and Delay.
// Default is SpinClock.
func WithClock(c Clock) DriverOption {
	return func(d *Driver) {
		if c != nil {
			d.clock = c
		}
	}
}

// WithAddressOffset sets the bit offset of the high address port.
// Default is DefaultAddressOffset.
func WithAddressOffset(offset uint) DriverOption {
	return func(d *Driver) {
		if offset < 8 {
			d.offset = offset
		}
	}
}

// NewDriver creates a Driver on port. The control lines start deasserted
// with the data bus as output.
func NewDriver(port Port, opts ...DriverOption) *Driver {
	if port == nil {
		panic("port cannot be nil")
	}

	d := &Driver{
		port:   port,
		clock:  SpinClock{},
		offset: DefaultAddressOffset,
		lines:  Lines{Dir: Output},
	}
	for _, opt := range opts {
		opt(d)
	}
	d.apply()
	return d
}

// Lines returns a snapshot of the control line state.
func (d *Driver) Lines() Lines {
	return d.lines
}

// AddressOffset returns the configured high address port bit offset.
func (d *Driver) AddressOffset() uint {
	return d.offset
}

// SetAddress programs both address port fields.
func (d *Driver) SetAddress(addr uint16) {
	low, high := EncodeAddress(addr, d.offset)
	d.port.WriteAddress(low, high)
}

// EnterWriteMode enables VPP and makes the data bus an output.
func (d *Driver) EnterWriteMode() {
	d.lines.VPP = true
	d.lines.Dir = Output
	d.apply()
}

// EnterReadMode disables VPP, drives the bus to 0x00 and then turns it into
// an input with the output latch set to 0xFF.
func (d *Driver) EnterReadMode() {
	d.lines.VPP = false
	d.apply()
	d.port.WriteData(0x00)
	d.SetDirection(Input)
}

// SetDirection flips the data bus direction. Turning the bus into an input
// sets the output latch to 0xFF afterwards; turning it into an output clears
// the latch first.
func (d *Driver) SetDirection(dir Direction) {
	if dir == Input {
		d.lines.Dir = Input
		d.apply()
		d.port.WriteData(0xFF)
		return
	}
	d.port.WriteData(0x00)
	d.lines.Dir = Output
	d.apply()
}

// DriveData puts b on the data bus. The bus must be an output.
func (d *Driver) DriveData(b byte) {
	d.port.WriteData(b)
}

// SampleData reads the data bus. The bus must be an input.
func (d *Driver) SampleData() byte {
	return d.port.ReadData()
}

// ChipEnable selects the chip.
func (d *Driver) ChipEnable() {
	d.lines.CE = true
	d.apply()
}

// ChipDisable deselects the chip.
func (d *Driver) ChipDisable() {
	d.lines.CE = false
	d.apply()
}

// OutputEnable lets the chip drive the data bus.
func (d *Driver) OutputEnable() {
	d.lines.OE = true
	d.apply()
}

// OutputDisable releases the data bus.
func (d *Driver) OutputDisable() {
	d.lines.OE = false
	d.apply()
}

// Strobe pulses the program strobe for exactly StrobeWidth.
func (d *Driver) Strobe() {
	d.lines.PGM = true
	d.apply()
	d.clock.Delay(StrobeWidth)
	d.lines.PGM = false
	d.apply()
}

// Delay waits for d on the driver's clock.
func (d *Driver) Delay(t time.Duration) {
	d.clock.Delay(t)
}

// Idle deasserts CE, PGM and OE and sets the address to 0. VPP and the data
// bus direction are left alone.
func (d *Driver) Idle() {
	d.lines.CE = false
	d.lines.PGM = false
	d.lines.OE = false
	d.apply()
	d.SetAddress(0x0000)
}

// Probe1 sets the first diagnostic pattern: read mode, address 0, data bus
// driven as an output at 0x00.
func (d *Driver) Probe1() {
	d.EnterReadMode()
	d.SetAddress(0x0000)
	d.lines.Dir = Output
	d.apply()
	d.port.WriteData(0x00)
}

// Probe2 sets the second diagnostic pattern: write mode, all address lines
// high, OE released, data 0xFF and the program strobe held asserted.
func (d *Driver) Probe2() {
	d.EnterWriteMode()
	d.SetAddress(0xFFFF)
	d.lines.OE = false
	d.apply()
	d.port.WriteData(0xFF)
	d.lines.PGM = true
	d.apply()
}

func (d *Driver) apply() {
	d.port.Apply(d.lines)
}
