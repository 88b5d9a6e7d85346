package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/moffa90/go-pprog/bus"
	"github.com/moffa90/go-pprog/firmware"
	"github.com/moffa90/go-pprog/internal/cli"
	"github.com/moffa90/go-pprog/link"
	"github.com/moffa90/go-pprog/romfile"
	"github.com/moffa90/go-pprog/sim"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pprogd",
	Short: "Device side of the parallel EPROM programmer",
	Long: `pprogd serves programmer commands from a serial port (--port) or from TCP
connections (--listen), driving the chip through the board's GPIO pins or,
with --sim, a simulated chip.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringP("port", "p", "", "Serial port the host is connected to")
	flags.IntP("baud", "b", link.DefaultBaudRate, "Baud rate")
	flags.StringP("listen", "l", "", "Serve TCP connections on this address instead of a serial port")
	flags.Uint("offset", bus.DefaultAddressOffset, "Bit offset of the high address byte on its port")
	flags.Bool("sim", false, "Use a simulated chip instead of GPIO")
	flags.String("sim-kind", "eprom", "Simulated chip kind: eprom or eeprom")
	flags.String("sim-image", "", "Image file to preload into the simulated chip")
	flags.BoolP("debug", "d", false, "Enable debug logging")
	flags.BoolP("quiet", "q", false, "Only log errors")
	rootCmd.MarkFlagsMutuallyExclusive("port", "listen")
}

func run(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	port, _ := flags.GetString("port")
	baud, _ := flags.GetInt("baud")
	listen, _ := flags.GetString("listen")
	offset, _ := flags.GetUint("offset")
	debug, _ := flags.GetBool("debug")
	quiet, _ := flags.GetBool("quiet")

	cli.PrintBanner(os.Stderr, "pprogd", "parallel EPROM programmer device", quiet, version, commit, date)
	logger := cli.CreateLogger(debug, quiet)

	if port == "" && listen == "" {
		return fmt.Errorf("either --port or --listen is required")
	}

	chipPort, err := openBus(cmd, offset, logger)
	if err != nil {
		logger.Error("Opening bus failed", log.Err(err))
		return err
	}

	opts := []firmware.Option{
		firmware.WithLogger(logger),
		firmware.WithAddressOffset(offset),
		firmware.WithReportCallback(func(r firmware.TransferReport) {
			logReport(logger, r)
		}),
	}

	ctx, cancel := cli.SignalContext()
	defer cancel()

	if listen != "" {
		return serveTCP(ctx, listen, chipPort, logger, opts)
	}

	serialPort, err := link.OpenSerial(port, baud, 0)
	if err != nil {
		logger.Error("Opening serial port failed", log.Err(err))
		return err
	}
	logger.Info("Serving", log.String("port", port), log.Int("baud", baud))
	return serve(ctx, serialPort, chipPort, logger, opts)
}

// openBus returns the GPIO wiring, or a simulated chip when --sim is set.
func openBus(cmd *cobra.Command, offset uint, logger *log.Logger) (bus.Port, error) {
	flags := cmd.Flags()
	useSim, _ := flags.GetBool("sim")

	if !useSim {
		if err := bus.InitHost(); err != nil {
			return nil, err
		}
		p, err := bus.NewGPIOPort(bus.DefaultPinMap)
		if err != nil {
			return nil, err
		}
		logger.Info("GPIO bus ready")
		return p, nil
	}

	kindName, _ := flags.GetString("sim-kind")
	image, _ := flags.GetString("sim-image")

	kind := sim.EPROM
	switch kindName {
	case "eprom":
	case "eeprom":
		kind = sim.EEPROM
	default:
		return nil, fmt.Errorf("unknown simulated chip kind %q", kindName)
	}

	chip := sim.New(sim.WithKind(kind), sim.WithAddressOffset(offset))
	if image != "" {
		img, err := romfile.Load(image, 0)
		if err != nil {
			return nil, err
		}
		chip.Load(img.Base, img.Data)
		logger.Info("Preloaded simulated chip",
			log.String("file", image),
			log.Hex("address", img.Base),
			log.Int("bytes", len(img.Data)))
	}
	logger.Info("Simulated bus ready", log.String("kind", kindName))
	return chip, nil
}

// serve runs a dispatcher on conn until the connection ends or ctx is
// cancelled.
func serve(ctx context.Context, conn io.ReadWriteCloser, port bus.Port, logger *log.Logger, opts []firmware.Option) error {
	stream := link.NewStream(conn)
	d := firmware.New(stream, port, opts...)

	stop := context.AfterFunc(ctx, func() {
		_ = stream.Close()
	})
	defer stop()
	defer func() { _ = stream.Close() }()

	err := d.Run(ctx)
	if p, ok := port.(interface{ Err() error }); ok {
		if pinErr := p.Err(); pinErr != nil {
			logger.Error("GPIO pin error", log.Err(pinErr))
		}
	}

	switch {
	case errors.Is(err, io.EOF), errors.Is(err, link.ErrClosed), errors.Is(err, net.ErrClosed):
		logger.Info("Connection closed")
		return nil
	case ctx.Err() != nil:
		logger.Info("Stopped")
		return nil
	default:
		logger.Error("Dispatcher stopped", log.Err(err))
		return err
	}
}

// serveTCP serves one connection at a time on addr. The bus, and with it a
// simulated chip, is shared by all connections.
func serveTCP(ctx context.Context, addr string, port bus.Port, logger *log.Logger, opts []firmware.Option) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = ln.Close()
	})
	defer stop()

	logger.Info("Listening", log.String("address", ln.Addr().String()))

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("Stopped")
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		logger.Info("Host connected", log.String("remote", conn.RemoteAddr().String()))
		if err := serve(ctx, conn, port, logger, opts); err != nil {
			logger.Error("Connection ended with error", log.Err(err))
		}
	}
}

func logReport(logger *log.Logger, r firmware.TransferReport) {
	fields := []log.Field{
		log.String("kind", r.Kind.String()),
		log.String("result", r.Result.String()),
		log.Hex("address", r.Base),
		log.Int("length", int(r.Length)),
		log.Int("progress", int(r.Progress)),
		log.Hex("crc16", r.CRC16),
		log.String("elapsed", r.Elapsed.String()),
	}
	if len(r.Exhausted) > 0 {
		fields = append(fields, log.Int("failed_bytes", len(r.Exhausted)), log.Hex("first_failed", r.Exhausted[0]))
		logger.Warn("Transfer finished with unverified bytes", fields...)
		return
	}
	if r.Kind == firmware.KindReadNext {
		logger.Debug("Transfer finished", fields...)
		return
	}
	logger.Info("Transfer finished", fields...)
}
