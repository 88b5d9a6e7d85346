// Package cli holds helpers shared by the command line programs.
package cli

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/moffa90/go-pprog/link"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// TCPScheme prefixes a port name that is a TCP address rather than a serial
// device, e.g. tcp://localhost:2323. It is used with a simulated device.
const TCPScheme = "tcp://"

// CreateLogger returns a logger for the debug and quiet flags.
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	}
	if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// PrintBanner prints the program name and version unless quiet is set.
func PrintBanner(w io.Writer, name, description string, quiet bool, version, commit, date string) {
	if quiet {
		return
	}
	title := fmt.Sprintf("[ %s - %s ]", name, description)
	line := "[" + strings.Repeat("-", len(title)-2) + "]"
	_, _ = fmt.Fprintln(w, line)
	_, _ = fmt.Fprintln(w, title)
	_, _ = fmt.Fprintf(w, "%s\n\n", line)
	_, _ = fmt.Fprintf(w, "version: %s\n\n", buildinfo.Version(version, commit, date))
}

// Open connects to a device port: a serial device name, or a TCP address
// prefixed with TCPScheme.
func Open(port string, baud int, timeout time.Duration) (io.ReadWriteCloser, error) {
	if addr, ok := strings.CutPrefix(port, TCPScheme); ok {
		conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
		if err != nil {
			return nil, fmt.Errorf("connect to %s: %w", addr, err)
		}
		return conn, nil
	}
	p, err := link.OpenSerial(port, baud, timeout)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// SignalContext returns a context that is cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
