package firmware

import (
	"github.com/moffa90/go-pprog/bus"
	"github.com/retroenv/retrogolib/log"
)

// Config holds the dispatcher configuration.
type Config struct {
	// Logger is used for logging commands and transfers (optional)
	Logger *log.Logger

	// ReportCallback receives a report after every transfer (optional)
	ReportCallback ReportCallback

	// Clock provides the bus delays. Defaults to a busy-wait clock.
	Clock bus.Clock

	// AddressOffset is the shift of the high address byte on its port
	AddressOffset uint
}

func defaultConfig() Config {
	return Config{
		Clock:         bus.SpinClock{},
		AddressOffset: bus.DefaultAddressOffset,
	}
}

// Option is a functional option for configuring the Dispatcher.
type Option func(*Config)

// WithLogger sets a logger for dispatcher operations.
func WithLogger(logger *log.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithReportCallback sets a callback that receives a TransferReport after
// each bulk write, bulk read and single-byte read.
//
// Example:
//
//	d := firmware.New(l, port,
//	    firmware.WithReportCallback(func(r firmware.TransferReport) {
//	        fmt.Println(r.Kind, r.Result, r.Progress)
//	    }),
//	)
func WithReportCallback(callback ReportCallback) Option {
	return func(c *Config) {
		c.ReportCallback = callback
	}
}

// WithClock replaces the delay source of the bus.
func WithClock(clock bus.Clock) Option {
	return func(c *Config) {
		if clock != nil {
			c.Clock = clock
		}
	}
}

// WithAddressOffset sets the shift of the high address byte. Values of 8
// and above are ignored.
func WithAddressOffset(offset uint) Option {
	return func(c *Config) {
		if offset < 8 {
			c.AddressOffset = offset
		}
	}
}
