package firmware

import (
	"context"
	"fmt"

	"github.com/moffa90/go-pprog/bus"
	"github.com/moffa90/go-pprog/eprom"
	"github.com/moffa90/go-pprog/protocol"
	"github.com/retroenv/retrogolib/log"
)

// Dispatcher decodes commands from a link and runs them against the chip.
type Dispatcher struct {
	link    Link
	bus     *bus.Driver
	engine  *Engine
	session Session
	config  Config
}

// New creates a dispatcher that drives the chip through port. It brings the
// bus to its idle state with address 0 and enters read mode, the same
// sequence a '0' command runs.
func New(l Link, port bus.Port, opts ...Option) *Dispatcher {
	if l == nil {
		panic("link cannot be nil")
	}

	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	drv := bus.NewDriver(port,
		bus.WithClock(config.Clock),
		bus.WithAddressOffset(config.AddressOffset))

	d := &Dispatcher{
		link:   l,
		bus:    drv,
		config: config,
	}
	d.engine = newEngine(l, eprom.New(drv), &d.config)

	d.reset()
	drv.EnterReadMode()
	return d
}

// Session returns a copy of the current session state.
func (d *Dispatcher) Session() Session {
	return d.session
}

// Bus returns the bus driver the dispatcher owns.
func (d *Dispatcher) Bus() *bus.Driver {
	return d.bus
}

// Run dispatches commands until the link fails or ctx is cancelled. The
// context is only checked between commands; a transfer in progress always
// runs to its end or to a link failure. The link error is returned wrapped,
// so a closed port shows up as io.EOF under errors.Is.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.logInfo("Dispatcher started", log.Hex("address_offset", d.bus.AddressOffset()))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		cmd, err := d.link.ReceiveByte()
		if err != nil {
			return fmt.Errorf("receive command: %w", err)
		}
		if err := d.Dispatch(cmd); err != nil {
			return err
		}
	}
}

// Dispatch runs a single command whose command byte has already been
// received. Unknown bytes are ignored.
func (d *Dispatcher) Dispatch(cmd byte) error {
	d.logDebug("Command", log.String("name", protocol.CommandName(cmd)), log.Hex("byte", cmd))

	switch cmd {
	case protocol.CmdSetAddress:
		addr, err := d.receiveArgument()
		if err != nil {
			return fmt.Errorf("receive address: %w", err)
		}
		d.session.BaseAddress = addr
		d.session.Progress = 0
		return d.ack("set address")

	case protocol.CmdSetLength:
		length, err := d.receiveArgument()
		if err != nil {
			return fmt.Errorf("receive length: %w", err)
		}
		d.session.TransferLength = length
		return d.ack("set length")

	case protocol.CmdWrite:
		_, err := d.engine.BulkWrite(&d.session)
		return err

	case protocol.CmdRead:
		_, err := d.engine.BulkRead(&d.session)
		return err

	case protocol.CmdReadNext:
		_, err := d.engine.ReadNext(&d.session)
		return err

	case protocol.CmdReset:
		d.reset()

	case protocol.CmdProbe1:
		d.bus.Probe1()

	case protocol.CmdProbe2:
		d.bus.Probe2()

	case protocol.CmdAbort:
		// only meaningful inside a bulk write, where it arrives as a
		// continuation byte

	default:
		d.logDebug("Ignoring unknown command", log.Hex("byte", cmd))
	}
	return nil
}

func (d *Dispatcher) reset() {
	d.bus.Idle()
	d.session.reset()
}

func (d *Dispatcher) receiveArgument() (uint16, error) {
	lo, err := d.link.ReceiveByte()
	if err != nil {
		return 0, err
	}
	hi, err := d.link.ReceiveByte()
	if err != nil {
		return 0, err
	}
	return protocol.DecodeArgument(lo, hi), nil
}

func (d *Dispatcher) ack(operation string) error {
	if err := d.link.SendByte(protocol.Ack); err != nil {
		return fmt.Errorf("acknowledge %s: %w", operation, err)
	}
	return nil
}

func (d *Dispatcher) logDebug(msg string, fields ...log.Field) {
	if d.config.Logger != nil {
		d.config.Logger.Debug(msg, fields...)
	}
}

func (d *Dispatcher) logInfo(msg string, fields ...log.Field) {
	if d.config.Logger != nil {
		d.config.Logger.Info(msg, fields...)
	}
}
