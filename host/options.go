package host

import (
	"time"

	"github.com/retroenv/retrogolib/log"
)

// Config holds the client configuration.
type Config struct {
	// ProgressCallback is called during transfers to report progress (optional)
	ProgressCallback ProgressCallback

	// Logger is used for logging operations (optional)
	Logger *log.Logger

	// ReadTimeout is applied to devices that support read timeouts
	ReadTimeout time.Duration

	// ReadChunkSize is the number of bytes read between progress reports
	// during a bulk read
	ReadChunkSize int
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		ReadTimeout:   60 * time.Second,
		ReadChunkSize: 256,
	}
}

// Option is a functional option for configuring the Client.
type Option func(*Config)

// WithProgressCallback sets a callback function to track transfer progress.
//
// Example:
//
//	client := host.New(port,
//	    host.WithProgressCallback(func(p host.Progress) {
//	        fmt.Printf("%.1f%% complete\n", p.Percentage)
//	    }),
//	)
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithLogger sets a logger for the client operations.
func WithLogger(logger *log.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithTimeout sets the read timeout. It only takes effect on devices with a
// SetReadTimeout method, such as serial ports; a zero timeout blocks.
//
// Example:
//
//	client := host.New(port, host.WithTimeout(10*time.Second))
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout >= 0 {
			c.ReadTimeout = timeout
		}
	}
}

// WithReadChunkSize sets how many bytes a bulk read consumes between
// progress reports. It does not change what goes on the wire.
func WithReadChunkSize(size int) Option {
	return func(c *Config) {
		if size > 0 {
			c.ReadChunkSize = size
		}
	}
}
