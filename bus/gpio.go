package bus

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// PinMap names the GPIO pins wired to the chip. Bit i of a port uses entry i;
// an empty name leaves that bit unconnected.
type PinMap struct {
	AddressLow  [8]string
	AddressHigh [8]string
	Data        [8]string

	VPP string
	CE  string
	PGM string
	OE  string
}

// DefaultPinMap is the wiring for a Raspberry Pi 40-pin header. The high
// address port keeps its two lowest bits unconnected so the address shift of
// the reference programmer is preserved. The link is expected on a USB serial
// adapter since GPIO14/15 are used for the bus.
var DefaultPinMap = PinMap{
	Data: [8]string{"GPIO2", "GPIO3", "GPIO4", "GPIO5", "GPIO6", "GPIO7", "GPIO8", "GPIO9"},
	AddressLow: [8]string{"GPIO10", "GPIO11", "GPIO12", "GPIO13",
		"GPIO14", "GPIO15", "GPIO16", "GPIO17"},
	AddressHigh: [8]string{"", "", "GPIO18", "GPIO19", "GPIO20", "GPIO21", "GPIO22", "GPIO23"},
	VPP:         "GPIO24",
	CE:          "GPIO25",
	PGM:         "GPIO26",
	OE:          "GPIO27",
}

// InitHost loads the periph.io host drivers. It must run before NewGPIOPort.
func InitHost() error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("initialize host drivers: %w", err)
	}
	return nil
}

// GPIOPort is a Port on GPIO pins. CE, OE and PGM are active low, VPP is
// active high.
//
// Pin errors do not interrupt bus sequencing; the first one is kept and
// reported by Err.
type GPIOPort struct {
	addrLow  [8]gpio.PinIO
	addrHigh [8]gpio.PinIO
	data     [8]gpio.PinIO

	vpp gpio.PinIO
	ce  gpio.PinIO
	pgm gpio.PinIO
	oe  gpio.PinIO

	dir   Direction
	latch byte
	err   error
}

// NewGPIOPort resolves every named pin and drives the control lines to their
// inactive levels with the data bus as an output.
func NewGPIOPort(m PinMap) (*GPIOPort, error) {
	// start as an input so the first Apply drives the data pins
	p := &GPIOPort{dir: Input}

	var err error
	if p.addrLow, err = lookupPort(m.AddressLow); err != nil {
		return nil, fmt.Errorf("address low: %w", err)
	}
	if p.addrHigh, err = lookupPort(m.AddressHigh); err != nil {
		return nil, fmt.Errorf("address high: %w", err)
	}
	if p.data, err = lookupPort(m.Data); err != nil {
		return nil, fmt.Errorf("data: %w", err)
	}
	for _, c := range []struct {
		name string
		pin  *gpio.PinIO
	}{
		{m.VPP, &p.vpp}, {m.CE, &p.ce}, {m.PGM, &p.pgm}, {m.OE, &p.oe},
	} {
		if *c.pin, err = lookupPin(c.name); err != nil {
			return nil, fmt.Errorf("control: %w", err)
		}
	}

	p.Apply(Lines{Dir: Output})
	if p.err != nil {
		return nil, p.err
	}
	return p, nil
}

// Err returns the first pin error seen since the port was created.
func (p *GPIOPort) Err() error {
	return p.err
}

// WriteAddress implements Port.
func (p *GPIOPort) WriteAddress(low, high byte) {
	p.writePort(p.addrLow, low)
	p.writePort(p.addrHigh, high)
}

// WriteData implements Port. While the bus is an input the value is only
// latched.
func (p *GPIOPort) WriteData(b byte) {
	p.latch = b
	if p.dir == Output {
		p.writePort(p.data, b)
	}
}

// ReadData implements Port.
func (p *GPIOPort) ReadData() byte {
	var b byte
	for i, pin := range p.data {
		if pin != nil && pin.Read() == gpio.High {
			b |= 1 << i
		}
	}
	return b
}

// Apply implements Port.
func (p *GPIOPort) Apply(l Lines) {
	p.out(p.vpp, gpio.Level(l.VPP))
	p.out(p.ce, gpio.Level(!l.CE))
	p.out(p.oe, gpio.Level(!l.OE))
	p.out(p.pgm, gpio.Level(!l.PGM))

	if l.Dir == p.dir {
		return
	}
	p.dir = l.Dir
	if l.Dir == Output {
		p.writePort(p.data, p.latch)
		return
	}
	for _, pin := range p.data {
		if pin == nil {
			continue
		}
		if err := pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
			p.keep(fmt.Errorf("%s: %w", pin.Name(), err))
		}
	}
}

func (p *GPIOPort) writePort(pins [8]gpio.PinIO, v byte) {
	for i, pin := range pins {
		p.out(pin, gpio.Level(v&(1<<i) != 0))
	}
}

func (p *GPIOPort) out(pin gpio.PinIO, l gpio.Level) {
	if pin == nil {
		return
	}
	if err := pin.Out(l); err != nil {
		p.keep(fmt.Errorf("%s: %w", pin.Name(), err))
	}
}

func (p *GPIOPort) keep(err error) {
	if p.err == nil {
		p.err = err
	}
}

func lookupPort(names [8]string) ([8]gpio.PinIO, error) {
	var pins [8]gpio.PinIO
	for i, name := range names {
		if name == "" {
			continue
		}
		pin, err := lookupPin(name)
		if err != nil {
			return pins, fmt.Errorf("bit %d: %w", i, err)
		}
		pins[i] = pin
	}
	return pins, nil
}

func lookupPin(name string) (gpio.PinIO, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("pin %q not found", name)
	}
	return pin, nil
}
