// Package link adapts byte transports to the programmer's link contract:
// a blocking byte send, a blocking byte receive and a non-blocking
// availability check.
package link

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrClosed is returned by a Stream after Close.
var ErrClosed = errors.New("link closed")

// DefaultReceiveBuffer is the number of received bytes a Stream holds before
// its reader stops pulling from the transport.
const DefaultReceiveBuffer = 4096

// Stream implements the link contract over a closable byte transport. A
// background goroutine reads from the transport so that DataAvailable can
// answer without blocking. Closing the transport is what ends that reader.
type Stream struct {
	w  io.Writer
	rx chan byte

	mu     sync.Mutex
	err    error
	done   chan struct{}
	closed chan struct{}
	once   sync.Once
	closer io.Closer
}

// NewStream starts reading from rw. Close closes rw.
func NewStream(rw io.ReadWriteCloser) *Stream {
	s := &Stream{
		w:      rw,
		rx:     make(chan byte, DefaultReceiveBuffer),
		done:   make(chan struct{}),
		closed: make(chan struct{}),
		closer: rw,
	}
	go s.pump(rw)
	return s
}

func (s *Stream) pump(r io.Reader) {
	defer close(s.done)

	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			select {
			case s.rx <- b:
			case <-s.closed:
				s.fail(ErrClosed)
				return
			}
		}
		if err != nil {
			if errors.Is(err, ErrTimeout) {
				continue
			}
			s.fail(err)
			return
		}
	}
}

func (s *Stream) fail(err error) {
	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
}

func (s *Stream) failure() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// SendByte writes one byte to the transport.
func (s *Stream) SendByte(b byte) error {
	return s.Send([]byte{b})
}

// Send writes p to the transport.
func (s *Stream) Send(p []byte) error {
	select {
	case <-s.closed:
		return ErrClosed
	default:
	}
	if _, err := s.w.Write(p); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}

// ReceiveByte blocks until a byte arrives. Once the transport has failed and
// every buffered byte has been consumed, it returns the transport error.
func (s *Stream) ReceiveByte() (byte, error) {
	select {
	case b := <-s.rx:
		return b, nil
	default:
	}

	select {
	case b := <-s.rx:
		return b, nil
	case <-s.done:
		select {
		case b := <-s.rx:
			return b, nil
		default:
		}
		return 0, s.failure()
	}
}

// DataAvailable reports whether ReceiveByte would return without blocking,
// either with a byte or with the transport error.
func (s *Stream) DataAvailable() bool {
	if len(s.rx) > 0 {
		return true
	}
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Close stops the stream and closes the transport, which unblocks a pending
// read.
func (s *Stream) Close() error {
	var err error
	s.once.Do(func() {
		close(s.closed)
		err = s.closer.Close()
	})
	return err
}
