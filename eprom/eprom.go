// Package eprom implements the byte programming algorithm: a verified write
// of one byte with bounded retries and a timed read of one byte.
//
// Both operations assume the caller has already put the bus in the right
// mode (write mode with the chip enabled and OE released for Program, read
// mode with the chip enabled for Read).
package eprom

import (
	"time"

	"github.com/moffa90/go-pprog/bus"
)

// Device timing and retry limits. These are hardware constants.
const (
	// AddressSettle is the wait between setting the address and the first
	// data drive of a write
	AddressSettle = 10 * time.Microsecond

	// DataSettle is the wait between driving data and strobing
	DataSettle = 10 * time.Microsecond

	// VerifySettle is the output-enable to sample delay after a strobe
	VerifySettle = 1 * time.Microsecond

	// ReadSettle is the output-enable to sample delay of a plain read, and
	// the hold time after it
	ReadSettle = 2 * time.Microsecond

	// MaxAttempts bounds the program-verify loop of a single byte
	MaxAttempts = 20
)

// Programmer runs the byte algorithm on a bus driver.
type Programmer struct {
	bus *bus.Driver
}

// New creates a Programmer on d.
func New(d *bus.Driver) *Programmer {
	if d == nil {
		panic("bus driver cannot be nil")
	}
	return &Programmer{bus: d}
}

// Bus returns the underlying driver.
func (p *Programmer) Bus() *bus.Driver {
	return p.bus
}

// Program programs data at addr and reads it back after every strobe until
// it verifies or MaxAttempts strobes have been issued. It returns the last
// value read back, which differs from data when the attempts ran out, and
// the number of strobes issued.
func (p *Programmer) Program(addr uint16, data byte) (verified byte, attempts int) {
	verified = ^data

	p.bus.SetAddress(addr)
	p.bus.Delay(AddressSettle)

	for attempts = 0; attempts < MaxAttempts && verified != data; attempts++ {
		p.bus.DriveData(data)
		p.bus.Delay(DataSettle)

		p.bus.Strobe()

		p.bus.SetDirection(bus.Input)
		p.bus.OutputEnable()
		p.bus.Delay(VerifySettle)
		verified = p.bus.SampleData()
		p.bus.OutputDisable()
		p.bus.SetDirection(bus.Output)
	}

	return verified, attempts
}

// Read reads the byte at addr.
func (p *Programmer) Read(addr uint16) byte {
	p.bus.SetAddress(addr)

	p.bus.OutputEnable()
	p.bus.Delay(ReadSettle)
	data := p.bus.SampleData()
	p.bus.OutputDisable()
	p.bus.Delay(ReadSettle)

	return data
}
