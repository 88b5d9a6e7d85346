package link

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

type scripted struct {
	r   io.Reader
	out bytes.Buffer
}

func (s *scripted) Read(p []byte) (int, error)  { return s.r.Read(p) }
func (s *scripted) Write(p []byte) (int, error) { return s.out.Write(p) }
func (s *scripted) Close() error                { return nil }

func TestStreamReceivesThenReportsEOF(t *testing.T) {
	rw := &scripted{r: bytes.NewReader([]byte{'s', 0x00, 0x01})}
	s := NewStream(rw)
	defer func() { _ = s.Close() }()

	for _, want := range []byte{'s', 0x00, 0x01} {
		got, err := s.ReceiveByte()
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := s.ReceiveByte()
	assert.True(t, errors.Is(err, io.EOF))
	assert.True(t, s.DataAvailable())
}

func TestStreamSend(t *testing.T) {
	rw := &scripted{r: bytes.NewReader(nil)}
	s := NewStream(rw)

	assert.NoError(t, s.SendByte(0x01))
	assert.NoError(t, s.Send([]byte{0xAA, 0x55}))
	assert.Equal(t, []byte{0x01, 0xAA, 0x55}, rw.out.Bytes())

	assert.NoError(t, s.Close())
	assert.True(t, errors.Is(s.SendByte(0x00), ErrClosed))
}

func TestStreamDataAvailable(t *testing.T) {
	pr, pw := io.Pipe()
	rw := &scripted{r: pr}
	s := NewStream(rw)
	defer func() { _ = s.Close() }()

	assert.False(t, s.DataAvailable())

	go func() { _, _ = pw.Write([]byte{0x42}) }()
	got, err := s.ReceiveByte()
	assert.NoError(t, err)
	assert.Equal(t, byte(0x42), got)

	_ = pw.CloseWithError(io.ErrUnexpectedEOF)
	_, err = s.ReceiveByte()
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

type timeouts struct {
	n    int
	data []byte
}

func (t *timeouts) Read(p []byte) (int, error) {
	if t.n > 0 {
		t.n--
		return 0, ErrTimeout
	}
	if len(t.data) == 0 {
		return 0, io.EOF
	}
	n := copy(p, t.data)
	t.data = t.data[n:]
	return n, nil
}

func (t *timeouts) Write(p []byte) (int, error) { return len(p), nil }
func (t *timeouts) Close() error                { return nil }

func TestStreamSkipsReadTimeouts(t *testing.T) {
	s := NewStream(&timeouts{n: 3, data: []byte{0x07}})
	defer func() { _ = s.Close() }()

	got, err := s.ReceiveByte()
	assert.NoError(t, err)
	assert.Equal(t, byte(0x07), got)
}

// pipeConn is a transport whose Close ends a blocked Read.
type pipeConn struct {
	*io.PipeReader
	closed bool
}

func (c *pipeConn) Write(p []byte) (int, error) { return len(p), nil }

func (c *pipeConn) Close() error {
	c.closed = true
	return c.PipeReader.Close()
}

func TestStreamCloseEndsBlockedReader(t *testing.T) {
	pr, _ := io.Pipe()
	conn := &pipeConn{PipeReader: pr}
	s := NewStream(conn)

	assert.False(t, s.DataAvailable())
	assert.NoError(t, s.Close())
	assert.True(t, conn.closed)

	<-s.done
	assert.True(t, s.DataAvailable())
	_, err := s.ReceiveByte()
	assert.True(t, errors.Is(err, io.ErrClosedPipe))
}
