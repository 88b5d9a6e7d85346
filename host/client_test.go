package host

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/moffa90/go-pprog/protocol"
)

// MockDevice replays canned device replies and records what the client
// sends.
type MockDevice struct {
	readBuf  *bytes.Buffer
	writeBuf *bytes.Buffer
	writeErr error
}

func NewMockDevice(replies ...byte) *MockDevice {
	return &MockDevice{
		readBuf:  bytes.NewBuffer(replies),
		writeBuf: new(bytes.Buffer),
	}
}

func (m *MockDevice) Read(p []byte) (int, error) {
	return m.readBuf.Read(p)
}

func (m *MockDevice) Write(p []byte) (int, error) {
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	return m.writeBuf.Write(p)
}

func (m *MockDevice) SetWriteError(err error) {
	m.writeErr = err
}

func TestNew(t *testing.T) {
	t.Run("nil device panics", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("expected panic for nil device")
			}
		}()
		New(nil)
	})

	t.Run("default config", func(t *testing.T) {
		c := New(NewMockDevice())
		if c.config.ReadChunkSize != 256 {
			t.Errorf("expected read chunk size 256, got %d", c.config.ReadChunkSize)
		}
	})

	t.Run("options", func(t *testing.T) {
		called := false
		c := New(NewMockDevice(),
			WithReadChunkSize(64),
			WithProgressCallback(func(Progress) { called = true }),
		)
		if c.config.ReadChunkSize != 64 {
			t.Errorf("expected read chunk size 64, got %d", c.config.ReadChunkSize)
		}
		c.reportProgress(Progress{})
		if !called {
			t.Error("progress callback not called")
		}
	})
}

func TestSetAddress(t *testing.T) {
	tests := []struct {
		name    string
		reply   []byte
		wantErr bool
	}{
		{"acknowledged", []byte{protocol.Ack}, false},
		{"wrong reply", []byte{0x00}, true},
		{"no reply", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := NewMockDevice(tt.reply...)
			err := New(dev).SetAddress(context.Background(), 0x1234)

			if (err != nil) != tt.wantErr {
				t.Fatalf("SetAddress() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !bytes.Equal(dev.writeBuf.Bytes(), []byte{'s', 0x34, 0x12}) {
				t.Errorf("sent % X", dev.writeBuf.Bytes())
			}
		})
	}

	t.Run("ack error type", func(t *testing.T) {
		err := New(NewMockDevice(0x7F)).SetAddress(context.Background(), 0)
		var ackErr *protocol.AckError
		if !errors.As(err, &ackErr) {
			t.Fatalf("expected AckError, got %T", err)
		}
		if ackErr.Got != 0x7F {
			t.Errorf("expected Got 0x7F, got 0x%02X", ackErr.Got)
		}
	})
}

func TestWrite(t *testing.T) {
	data := []byte{0x11, 0x22, 0x33, 0x44}
	crc := protocol.CalculateXOR(data)

	t.Run("success", func(t *testing.T) {
		dev := NewMockDevice(
			protocol.Ack, protocol.Ack, protocol.Ack,
			protocol.Ack, crc,
			protocol.Ack, crc,
		)
		var phases []string
		c := New(dev, WithProgressCallback(func(p Progress) {
			phases = append(phases, p.Phase)
		}))

		if err := c.Write(context.Background(), 0x0100, data); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		want := []byte{'s', 0x00, 0x01, 'l', 0x04, 0x00, 'd', 0x11, 0x22, 0x33, 0x44, 0x01, 0x01}
		if !bytes.Equal(dev.writeBuf.Bytes(), want) {
			t.Errorf("sent % X, want % X", dev.writeBuf.Bytes(), want)
		}
		if len(phases) != 3 || phases[2] != PhaseComplete {
			t.Errorf("unexpected phases %v", phases)
		}
	})

	stages := []struct {
		name    string
		replies []byte
		stage   string
	}{
		{"receive mismatch", []byte{protocol.Ack, protocol.Ack, protocol.Ack, protocol.Ack, crc ^ 0x01}, StageReceive},
		{"write mismatch", []byte{protocol.Ack, protocol.Ack, protocol.Ack, protocol.Ack, crc, protocol.Ack, crc ^ 0x80}, StageWrite},
	}
	for _, tt := range stages {
		t.Run(tt.name, func(t *testing.T) {
			dev := NewMockDevice(tt.replies...)
			err := New(dev).Write(context.Background(), 0x0100, data)

			var crcErr *ChecksumMismatchError
			if !errors.As(err, &crcErr) {
				t.Fatalf("expected ChecksumMismatchError, got %v", err)
			}
			if crcErr.Stage != tt.stage {
				t.Errorf("expected stage %s, got %s", tt.stage, crcErr.Stage)
			}
			if crcErr.Expected != crc {
				t.Errorf("expected 0x%02X, got 0x%02X", crc, crcErr.Expected)
			}

			sent := dev.writeBuf.Bytes()
			if sent[len(sent)-1] != protocol.Abort {
				t.Errorf("expected abort byte last, sent % X", sent)
			}
		})
	}

	t.Run("cancelled at handshake", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		dev := NewMockDevice(protocol.Ack, protocol.Ack, protocol.Ack, protocol.Ack, crc)
		c := New(dev, WithProgressCallback(func(p Progress) {
			if p.Phase == PhaseWriting {
				cancel()
			}
		}))

		err := c.Write(ctx, 0x0100, data)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		sent := dev.writeBuf.Bytes()
		if sent[len(sent)-1] != protocol.Abort {
			t.Errorf("expected abort byte last, sent % X", sent)
		}
	})

	t.Run("too long", func(t *testing.T) {
		err := New(NewMockDevice()).Write(context.Background(), 0x3000, make([]byte, 0x1001))
		var lenErr *LengthError
		if !errors.As(err, &lenErr) {
			t.Fatalf("expected LengthError, got %v", err)
		}
		if lenErr.Max != 0x1000 {
			t.Errorf("expected max 0x1000, got 0x%X", lenErr.Max)
		}
	})

	t.Run("write error", func(t *testing.T) {
		dev := NewMockDevice()
		dev.SetWriteError(io.ErrClosedPipe)
		err := New(dev).Write(context.Background(), 0, data)
		if !errors.Is(err, io.ErrClosedPipe) {
			t.Errorf("expected ErrClosedPipe, got %v", err)
		}
	})
}

func TestRead(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		dev := NewMockDevice(protocol.Ack, protocol.Ack, 0xAA, 0x55, 0xFF, 0x00)
		got, err := New(dev).Read(context.Background(), 0x0200, 3)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if !bytes.Equal(got, []byte{0xAA, 0x55, 0xFF}) {
			t.Errorf("got % X", got)
		}
		if !bytes.Equal(dev.writeBuf.Bytes(), []byte{'s', 0x00, 0x02, 'l', 0x03, 0x00, 'r'}) {
			t.Errorf("sent % X", dev.writeBuf.Bytes())
		}
	})

	t.Run("zero length", func(t *testing.T) {
		got, err := New(NewMockDevice(protocol.Ack, protocol.Ack, 0x00)).Read(context.Background(), 0, 0)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected no data, got % X", got)
		}
	})

	t.Run("checksum mismatch", func(t *testing.T) {
		dev := NewMockDevice(protocol.Ack, protocol.Ack, 0xAA, 0x55, 0xFF, 0x01)
		_, err := New(dev).Read(context.Background(), 0, 3)
		var crcErr *ChecksumMismatchError
		if !errors.As(err, &crcErr) {
			t.Fatalf("expected ChecksumMismatchError, got %v", err)
		}
		if crcErr.Stage != StageRead {
			t.Errorf("expected stage %s, got %s", StageRead, crcErr.Stage)
		}
	})

	t.Run("short stream", func(t *testing.T) {
		_, err := New(NewMockDevice(protocol.Ack, protocol.Ack, 0xAA)).Read(context.Background(), 0, 3)
		if !errors.Is(err, io.ErrUnexpectedEOF) {
			t.Errorf("expected ErrUnexpectedEOF, got %v", err)
		}
	})
}

func TestSingleByteCommands(t *testing.T) {
	ctx := context.Background()

	dev := NewMockDevice(0x5A)
	b, err := New(dev).ReadNext(ctx)
	if err != nil || b != 0x5A {
		t.Errorf("ReadNext() = 0x%02X, %v", b, err)
	}

	dev = NewMockDevice()
	c := New(dev)
	if err := c.Reset(ctx); err != nil {
		t.Fatal(err)
	}
	if err := c.Probe(ctx, 2); err != nil {
		t.Fatal(err)
	}
	if err := c.Abort(ctx); err != nil {
		t.Fatal(err)
	}
	if err := c.Probe(ctx, 3); err == nil {
		t.Error("expected error for probe pattern 3")
	}
	if !bytes.Equal(dev.writeBuf.Bytes(), []byte{'0', '2', 'x'}) {
		t.Errorf("sent % X", dev.writeBuf.Bytes())
	}
}
