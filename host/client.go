package host

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/moffa90/go-pprog/bus"
	"github.com/moffa90/go-pprog/protocol"
	"github.com/retroenv/retrogolib/log"
)

// Capacity is the size of the chip's address space.
const Capacity = bus.AddressMask + 1

// Client drives a programmer device over a byte stream.
//
// A Client is not safe for concurrent use; the wire protocol has a single
// conversation in flight.
type Client struct {
	device io.ReadWriter
	config Config
}

type readTimeoutSetter interface {
	SetReadTimeout(t time.Duration) error
}

// New creates a new Client with the given device and options.
//
// Example:
//
//	port, _ := link.OpenSerial("/dev/ttyUSB0", 9600, 0)
//	client := host.New(port, host.WithTimeout(30*time.Second))
func New(device io.ReadWriter, opts ...Option) *Client {
	if device == nil {
		panic("device cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Client{
		device: device,
		config: cfg,
	}

	if s, ok := device.(readTimeoutSetter); ok && cfg.ReadTimeout > 0 {
		if err := s.SetReadTimeout(cfg.ReadTimeout); err != nil {
			c.logError("Setting read timeout failed", log.Err(err))
		}
	}
	return c
}

// SetAddress sets the base address of the next transfer and resets the
// device's progress counter.
func (c *Client) SetAddress(ctx context.Context, addr uint16) error {
	return c.command(ctx, "set address", protocol.BuildSetAddressCmd(addr))
}

// SetLength sets the length of the next transfer.
func (c *Client) SetLength(ctx context.Context, length uint16) error {
	return c.command(ctx, "set length", protocol.BuildSetLengthCmd(length))
}

// Write programs data into the chip starting at addr.
//
// Each block is checked twice: once after the device received it and once
// after it was programmed and read back. The first mismatch aborts the
// transfer and is returned as a *ChecksumMismatchError; blocks before it
// are already programmed.
func (c *Client) Write(ctx context.Context, addr uint16, data []byte) error {
	if err := checkRange(addr, len(data)); err != nil {
		return err
	}

	startTime := time.Now()
	total := len(data)

	if err := c.SetAddress(ctx, addr); err != nil {
		return err
	}
	if err := c.SetLength(ctx, uint16(total)); err != nil {
		return err
	}
	if err := c.command(ctx, "write", protocol.BuildWriteCmd()); err != nil {
		return err
	}

	c.reportProgress(Progress{
		Phase:   PhaseWriting,
		Address: addr,
		Total:   total,
	})

	for block, off := 0, 0; off < total; block++ {
		end := min(off+protocol.BlockMax, total)
		chunk := data[off:end]
		blockAddr := addr + uint16(off)

		if err := c.send(chunk); err != nil {
			return fmt.Errorf("send block %d: %w", block, err)
		}

		crc := protocol.CalculateXOR(chunk)
		if err := c.handshake(ctx, StageReceive, block, blockAddr, crc); err != nil {
			return err
		}
		if err := c.handshake(ctx, StageWrite, block, blockAddr, crc); err != nil {
			return err
		}

		off = end
		c.logDebug("Block written",
			log.Int("block", block),
			log.Hex("address", blockAddr),
			log.Int("size", len(chunk)),
			log.Hex("crc", crc))

		c.reportProgress(Progress{
			Phase:       PhaseWriting,
			Address:     addr + uint16(off),
			Done:        off,
			Total:       total,
			Percentage:  percentage(off, total),
			ElapsedTime: time.Since(startTime),
		})
	}

	c.reportProgress(Progress{
		Phase:       PhaseComplete,
		Address:     addr + uint16(total),
		Done:        total,
		Total:       total,
		Percentage:  100,
		ElapsedTime: time.Since(startTime),
	})

	c.logInfo("Write complete",
		log.Hex("address", addr),
		log.Int("bytes", total),
		log.String("elapsed", time.Since(startTime).String()))
	return nil
}

// handshake reads one [Ack][XOR] reply and answers it: Continue when the
// checksum matches and the context is alive, Abort otherwise.
func (c *Client) handshake(ctx context.Context, stage string, block int, addr uint16, expected byte) error {
	reply := make([]byte, protocol.ChecksumReplySize)
	if _, err := io.ReadFull(c.device, reply); err != nil {
		return fmt.Errorf("read %s checksum of block %d: %w", stage, block, err)
	}

	actual, err := protocol.ParseChecksumReply(stage+" checksum", reply)
	if err != nil {
		return err
	}

	if actual != expected {
		c.logError("Checksum mismatch, aborting write",
			log.String("stage", stage),
			log.Int("block", block),
			log.Hex("expected", expected),
			log.Hex("got", actual))
		if err := c.send(protocol.BuildContinue(false)); err != nil {
			return fmt.Errorf("send abort: %w", err)
		}
		return &ChecksumMismatchError{
			Stage:    stage,
			Block:    block,
			Address:  addr,
			Expected: expected,
			Actual:   actual,
		}
	}

	if err := ctx.Err(); err != nil {
		if sendErr := c.send(protocol.BuildContinue(false)); sendErr != nil {
			return fmt.Errorf("send abort: %w", sendErr)
		}
		return fmt.Errorf("cancelled: %w", err)
	}

	if err := c.send(protocol.BuildContinue(true)); err != nil {
		return fmt.Errorf("send continue: %w", err)
	}
	return nil
}

// Read reads length bytes starting at addr and checks them against the
// device's trailing checksum.
func (c *Client) Read(ctx context.Context, addr uint16, length int) ([]byte, error) {
	if err := checkRange(addr, length); err != nil {
		return nil, err
	}

	startTime := time.Now()

	if err := c.SetAddress(ctx, addr); err != nil {
		return nil, err
	}
	if err := c.SetLength(ctx, uint16(length)); err != nil {
		return nil, err
	}
	if err := c.send(protocol.BuildReadCmd()); err != nil {
		return nil, fmt.Errorf("send read: %w", err)
	}

	data := make([]byte, length)
	for off := 0; off < length; {
		end := min(off+c.config.ReadChunkSize, length)
		if _, err := io.ReadFull(c.device, data[off:end]); err != nil {
			return nil, fmt.Errorf("read data at offset %d: %w", off, err)
		}
		off = end

		c.reportProgress(Progress{
			Phase:       PhaseReading,
			Address:     addr + uint16(off),
			Done:        off,
			Total:       length,
			Percentage:  percentage(off, length),
			ElapsedTime: time.Since(startTime),
		})
	}

	crc, err := c.receiveByte()
	if err != nil {
		return nil, fmt.Errorf("read checksum: %w", err)
	}
	if expected := protocol.CalculateXOR(data); crc != expected {
		return nil, &ChecksumMismatchError{
			Stage:    StageRead,
			Address:  addr,
			Expected: expected,
			Actual:   crc,
		}
	}

	c.reportProgress(Progress{
		Phase:       PhaseComplete,
		Address:     addr + uint16(length),
		Done:        length,
		Total:       length,
		Percentage:  100,
		ElapsedTime: time.Since(startTime),
	})

	c.logInfo("Read complete",
		log.Hex("address", addr),
		log.Int("bytes", length),
		log.String("elapsed", time.Since(startTime).String()))
	return data, nil
}

// ReadNext reads the byte at the device's base address plus its progress
// counter and advances the counter.
func (c *Client) ReadNext(ctx context.Context) (byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := c.send(protocol.BuildReadNextCmd()); err != nil {
		return 0, fmt.Errorf("send read next: %w", err)
	}
	b, err := c.receiveByte()
	if err != nil {
		return 0, fmt.Errorf("read next: %w", err)
	}
	return b, nil
}

// ReadAddress reads the single byte at addr.
func (c *Client) ReadAddress(ctx context.Context, addr uint16) (byte, error) {
	if err := c.SetAddress(ctx, addr); err != nil {
		return 0, err
	}
	return c.ReadNext(ctx)
}

// Reset returns the device bus to idle and clears its address and progress.
// The device does not reply.
func (c *Client) Reset(ctx context.Context) error {
	return c.fireAndForget(ctx, "reset", protocol.BuildResetCmd())
}

// Probe drives one of the two diagnostic pin patterns. The device does not
// reply and keeps the pattern until the next command.
func (c *Client) Probe(ctx context.Context, pattern int) error {
	cmd, err := protocol.BuildProbeCmd(pattern)
	if err != nil {
		return err
	}
	return c.fireAndForget(ctx, "probe", cmd)
}

// Abort sends the abort command. Outside a write handshake the device
// ignores it.
func (c *Client) Abort(ctx context.Context) error {
	return c.fireAndForget(ctx, "abort", protocol.BuildAbortCmd())
}

// command sends a frame and waits for its acknowledgment.
func (c *Client) command(ctx context.Context, operation string, frame []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cancelled: %w", err)
	}
	if err := c.send(frame); err != nil {
		return fmt.Errorf("send %s: %w", operation, err)
	}
	ack, err := c.receiveByte()
	if err != nil {
		return fmt.Errorf("read %s acknowledgment: %w", operation, err)
	}
	return protocol.ParseAck(operation, ack)
}

func (c *Client) fireAndForget(ctx context.Context, operation string, frame []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cancelled: %w", err)
	}
	if err := c.send(frame); err != nil {
		return fmt.Errorf("send %s: %w", operation, err)
	}
	c.logDebug("Sent command", log.String("name", operation))
	return nil
}

func (c *Client) send(p []byte) error {
	_, err := c.device.Write(p)
	return err
}

func (c *Client) receiveByte() (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(c.device, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func checkRange(addr uint16, length int) error {
	limit := Capacity - int(addr)
	if limit < 0 {
		limit = 0
	}
	if length < 0 || length > limit {
		return &LengthError{Address: addr, Length: length, Max: limit}
	}
	return nil
}

// reportProgress calls the progress callback if configured.
func (c *Client) reportProgress(progress Progress) {
	if c.config.ProgressCallback != nil {
		c.config.ProgressCallback(progress)
	}
}

// logDebug logs a debug message if a logger is configured.
func (c *Client) logDebug(msg string, fields ...log.Field) {
	if c.config.Logger != nil {
		c.config.Logger.Debug(msg, fields...)
	}
}

// logInfo logs an info message if a logger is configured.
func (c *Client) logInfo(msg string, fields ...log.Field) {
	if c.config.Logger != nil {
		c.config.Logger.Info(msg, fields...)
	}
}

// logError logs an error message if a logger is configured.
func (c *Client) logError(msg string, fields ...log.Field) {
	if c.config.Logger != nil {
		c.config.Logger.Error(msg, fields...)
	}
}
