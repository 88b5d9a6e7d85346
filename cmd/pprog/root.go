package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/moffa90/go-pprog/host"
	"github.com/moffa90/go-pprog/internal/cli"
	"github.com/moffa90/go-pprog/link"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pprog",
	Short: "Host tool for the parallel EPROM programmer",
	Long: `pprog talks to the programmer device over a serial port and writes,
reads and inspects 27xx-style EPROMs of up to 16 KiB.

A simulated device started with "pprogd --sim --listen :2323" can be used
with --port tcp://localhost:2323.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		quiet, _ := cmd.Flags().GetBool("quiet")
		cli.PrintBanner(os.Stderr, "pprog", "parallel EPROM programmer", quiet, version, commit, date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("port", "p", "", "Serial port name, or tcp://host:port")
	rootCmd.PersistentFlags().IntP("baud", "b", link.DefaultBaudRate, "Baud rate")
	rootCmd.PersistentFlags().Duration("timeout", 60*time.Second, "Read timeout")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only log errors")
}

// session is an open connection to a device.
type session struct {
	client *host.Client
	logger *log.Logger
	conn   io.Closer
	ctx    context.Context
	cancel context.CancelFunc
}

func (s *session) Close() {
	s.cancel()
	if err := s.conn.Close(); err != nil {
		s.logger.Error("Closing port failed", log.Err(err))
	}
}

// connect opens the port named by the flags and returns a client on it.
func connect(cmd *cobra.Command, opts ...host.Option) (*session, error) {
	flags := cmd.Flags()
	port, _ := flags.GetString("port")
	baud, _ := flags.GetInt("baud")
	timeout, _ := flags.GetDuration("timeout")
	debug, _ := flags.GetBool("debug")
	quiet, _ := flags.GetBool("quiet")

	if port == "" {
		return nil, fmt.Errorf("no port given, use --port")
	}

	logger := cli.CreateLogger(debug, quiet)

	conn, err := cli.Open(port, baud, timeout)
	if err != nil {
		return nil, err
	}
	logger.Info("Connected", log.String("port", port), log.Int("baud", baud))

	opts = append(opts, host.WithLogger(logger), host.WithTimeout(timeout))
	ctx, cancel := cli.SignalContext()

	return &session{
		client: host.New(conn, opts...),
		logger: logger,
		conn:   conn,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}
