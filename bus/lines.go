package bus

import "fmt"

// Direction is the direction of the data bus as seen from the controller.
type Direction int

const (
	// Input means the controller samples the data bus
	Input Direction = iota

	// Output means the controller drives the data bus
	Output
)

func (d Direction) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}

// Lines is the logical state of the control lines.
// A true field means the signal is enabled (asserted); the physical
// polarity is the Port's concern.
type Lines struct {
	// VPP enables the programming voltage
	VPP bool

	// CE selects the chip
	CE bool

	// OE lets the chip drive its data outputs
	OE bool

	// PGM is the program strobe, asserted only for the duration of a pulse
	PGM bool

	// Dir is the data bus direction
	Dir Direction
}

func (l Lines) String() string {
	return fmt.Sprintf("vpp=%t ce=%t oe=%t pgm=%t dir=%s", l.VPP, l.CE, l.OE, l.PGM, l.Dir)
}

// Port is the raw wiring the Driver talks to.
type Port interface {
	// WriteAddress latches the physical low and high address port values
	WriteAddress(low, high byte)

	// WriteData sets the data output latch
	WriteData(b byte)

	// ReadData samples the data bus
	ReadData() byte

	// Apply sets the control lines and data direction
	Apply(l Lines)
}
