package link

import (
	"errors"
	"fmt"
	"time"

	"go.bug.st/serial"
)

// ErrTimeout is returned by a Port read that saw no data within the read
// timeout.
var ErrTimeout = errors.New("serial read timeout")

// DefaultBaudRate matches the reference firmware.
const DefaultBaudRate = 9600

// Port is a serial port whose reads report ErrTimeout instead of the
// zero-length success go.bug.st/serial returns on timeout, so io.ReadFull
// cannot spin forever.
type Port struct {
	serial.Port
	name string
}

// OpenSerial opens name at baud with 8N1 framing. A zero timeout blocks reads
// indefinitely.
func OpenSerial(name string, baud int, timeout time.Duration) (*Port, error) {
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	mode := &serial.Mode{
		BaudRate: baud,
		Parity:   serial.NoParity,
		DataBits: 8,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", name, err)
	}
	if timeout > 0 {
		if err := p.SetReadTimeout(timeout); err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("set read timeout on %s: %w", name, err)
		}
	}
	if err := p.ResetInputBuffer(); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("reset input buffer on %s: %w", name, err)
	}
	return &Port{Port: p, name: name}, nil
}

// Name returns the device name the port was opened with.
func (p *Port) Name() string {
	return p.name
}

// Read implements io.Reader.
func (p *Port) Read(b []byte) (int, error) {
	n, err := p.Port.Read(b)
	if n == 0 && err == nil && len(b) > 0 {
		return 0, ErrTimeout
	}
	return n, err
}

// Ports lists the serial ports present on the system.
func Ports() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	return ports, nil
}
