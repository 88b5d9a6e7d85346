// Package sim provides a simulated parallel memory chip that plugs into the
// bus package as a Port.
//
// The chip decodes the physical address ports, programs a cell on the
// leading edge of the program strobe while VPP and CE are enabled, and drives
// the data bus while CE and OE are enabled. It also counts strobes and bus
// contention so tests can check the sequencing of the programming engine.
package sim

import (
	"github.com/moffa90/go-pprog/bus"
)

// Size is the number of addressable cells.
const Size = bus.AddressMask + 1

// Erased is the value of a blank EPROM cell.
const Erased = 0xFF

// Kind selects how a strobe changes a cell.
type Kind int

const (
	// EPROM cells can only have bits cleared by programming
	EPROM Kind = iota

	// EEPROM cells take the programmed value as is
	EEPROM
)

// Chip is a simulated memory chip. It is not safe for concurrent use.
type Chip struct {
	kind   Kind
	offset uint
	mem    [Size]byte

	addr  uint16
	lines bus.Lines
	latch byte

	weak       map[uint16]int
	strobes    int
	strobesAt  map[uint16]int
	contention int
	misdriven  int
}

// Option configures a Chip.
type Option func(*Chip)

// WithKind sets the cell programming behavior. Default is EPROM.
func WithKind(k Kind) Option {
	return func(c *Chip) {
		c.kind = k
	}
}

// WithAddressOffset sets the high address port bit offset the chip decodes.
// It must match the driver. Default is bus.DefaultAddressOffset.
func WithAddressOffset(offset uint) Option {
	return func(c *Chip) {
		c.offset = offset
	}
}

// New returns an erased chip.
func New(opts ...Option) *Chip {
	c := &Chip{
		kind:      EPROM,
		offset:    bus.DefaultAddressOffset,
		weak:      make(map[uint16]int),
		strobesAt: make(map[uint16]int),
		lines:     bus.Lines{Dir: bus.Output},
	}
	for _, opt := range opts {
		opt(c)
	}
	for i := range c.mem {
		c.mem[i] = Erased
	}
	return c
}

// Load copies data into the cells starting at addr, bypassing the bus.
func (c *Chip) Load(addr uint16, data []byte) {
	for i, b := range data {
		c.mem[(int(addr)+i)&bus.AddressMask] = b
	}
}

// Dump returns n cells starting at addr.
func (c *Chip) Dump(addr uint16, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = c.mem[(int(addr)+i)&bus.AddressMask]
	}
	return out
}

// Byte returns a single cell.
func (c *Chip) Byte(addr uint16) byte {
	return c.mem[addr&bus.AddressMask]
}

// SetWeak makes the cell at addr ignore its next n program strobes.
func (c *Chip) SetWeak(addr uint16, n int) {
	c.weak[addr&bus.AddressMask] = n
}

// Address returns the currently decoded address.
func (c *Chip) Address() uint16 {
	return c.addr
}

// Lines returns the last applied control line state.
func (c *Chip) Lines() bus.Lines {
	return c.lines
}

// Strobes returns the number of program strobes seen while programming was
// enabled.
func (c *Chip) Strobes() int {
	return c.strobes
}

// StrobesAt returns the number of program strobes applied to addr.
func (c *Chip) StrobesAt(addr uint16) int {
	return c.strobesAt[addr&bus.AddressMask]
}

// Contention returns how many times the chip and the controller drove the
// data bus at the same time.
func (c *Chip) Contention() int {
	return c.contention
}

// Misdriven returns how many program strobes arrived while the data bus was
// not driven by the controller.
func (c *Chip) Misdriven() int {
	return c.misdriven
}

// WriteAddress implements bus.Port.
func (c *Chip) WriteAddress(low, high byte) {
	c.addr = bus.DecodeAddress(low, high, c.offset) & bus.AddressMask
}

// WriteData implements bus.Port.
func (c *Chip) WriteData(b byte) {
	c.latch = b
}

// ReadData implements bus.Port.
func (c *Chip) ReadData() byte {
	if c.lines.Dir == bus.Output {
		return c.latch
	}
	if c.lines.CE && c.lines.OE {
		return c.mem[c.addr]
	}
	return Erased
}

// Apply implements bus.Port.
func (c *Chip) Apply(l bus.Lines) {
	prev := c.lines
	c.lines = l

	if l.CE && l.OE && l.Dir == bus.Output {
		c.contention++
	}

	if !prev.PGM && l.PGM && l.VPP && l.CE {
		c.program()
	}
}

func (c *Chip) program() {
	c.strobes++
	c.strobesAt[c.addr]++

	if c.lines.Dir != bus.Output {
		c.misdriven++
		return
	}
	if n := c.weak[c.addr]; n > 0 {
		c.weak[c.addr] = n - 1
		return
	}

	switch c.kind {
	case EEPROM:
		c.mem[c.addr] = c.latch
	default:
		c.mem[c.addr] &= c.latch
	}
}
