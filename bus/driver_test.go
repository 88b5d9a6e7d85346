package bus

import (
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
)

// recordingPort logs every port call in order.
type recordingPort struct {
	events []string
	lines  Lines
	data   byte
	input  byte
}

func (p *recordingPort) WriteAddress(low, high byte) {
	p.events = append(p.events, fmt.Sprintf("addr %02X %02X", low, high))
}

func (p *recordingPort) WriteData(b byte) {
	p.data = b
	p.events = append(p.events, fmt.Sprintf("data %02X", b))
}

func (p *recordingPort) ReadData() byte {
	p.events = append(p.events, "read")
	return p.input
}

func (p *recordingPort) Apply(l Lines) {
	p.lines = l
	p.events = append(p.events, "apply "+l.String())
}

func (p *recordingPort) reset() {
	p.events = nil
}

// strobeClock captures the port state at the moment of each delay.
type strobeClock struct {
	port   *recordingPort
	delays []time.Duration
	pgm    []bool
}

func (c *strobeClock) Delay(d time.Duration) {
	c.delays = append(c.delays, d)
	c.pgm = append(c.pgm, c.port.lines.PGM)
}

func TestNewDriver(t *testing.T) {
	port := &recordingPort{}
	d := NewDriver(port)

	assert.Equal(t, Lines{Dir: Output}, d.Lines())
	assert.Equal(t, Lines{Dir: Output}, port.lines)
	assert.Equal(t, uint(DefaultAddressOffset), d.AddressOffset())
}

func TestDriverSetAddress(t *testing.T) {
	port := &recordingPort{}
	d := NewDriver(port, WithAddressOffset(2))
	port.reset()

	d.SetAddress(0x0100)
	assert.Equal(t, []string{"addr 00 04"}, port.events)
}

func TestDriverWithInvalidOffsetKeepsDefault(t *testing.T) {
	d := NewDriver(&recordingPort{}, WithAddressOffset(8))
	assert.Equal(t, uint(DefaultAddressOffset), d.AddressOffset())
}

func TestDriverEnterReadMode(t *testing.T) {
	port := &recordingPort{}
	d := NewDriver(port)
	d.EnterWriteMode()
	port.reset()

	d.EnterReadMode()

	want := []string{
		"apply vpp=false ce=false oe=false pgm=false dir=output",
		"data 00",
		"apply vpp=false ce=false oe=false pgm=false dir=input",
		"data FF",
	}
	assert.Equal(t, want, port.events)
}

func TestDriverEnterWriteMode(t *testing.T) {
	port := &recordingPort{}
	d := NewDriver(port)
	d.EnterReadMode()

	d.EnterWriteMode()
	l := d.Lines()
	assert.True(t, l.VPP)
	assert.Equal(t, Output, l.Dir)
}

func TestDriverSetDirectionToOutputClearsLatchFirst(t *testing.T) {
	port := &recordingPort{}
	d := NewDriver(port)
	d.SetDirection(Input)
	port.reset()

	d.SetDirection(Output)
	assert.Equal(t, []string{
		"data 00",
		"apply vpp=false ce=false oe=false pgm=false dir=output",
	}, port.events)
}

func TestDriverStrobe(t *testing.T) {
	port := &recordingPort{}
	clock := &strobeClock{port: port}
	d := NewDriver(port, WithClock(clock))

	d.Strobe()

	assert.Equal(t, []time.Duration{StrobeWidth}, clock.delays)
	assert.Equal(t, []bool{true}, clock.pgm)
	assert.False(t, d.Lines().PGM)
	assert.Equal(t, 95*time.Microsecond, StrobeWidth)
}

func TestDriverIdle(t *testing.T) {
	port := &recordingPort{}
	d := NewDriver(port)
	d.ChipEnable()
	d.OutputEnable()
	port.reset()

	d.Idle()

	l := d.Lines()
	assert.False(t, l.CE)
	assert.False(t, l.OE)
	assert.False(t, l.PGM)
	assert.Equal(t, "addr 00 00", port.events[len(port.events)-1])
}

func TestDriverSampleData(t *testing.T) {
	port := &recordingPort{input: 0x5A}
	d := NewDriver(port)
	d.EnterReadMode()

	assert.Equal(t, byte(0x5A), d.SampleData())
}

func TestDriverProbes(t *testing.T) {
	t.Run("probe 1", func(t *testing.T) {
		port := &recordingPort{}
		d := NewDriver(port)
		d.Probe1()

		l := d.Lines()
		assert.False(t, l.VPP)
		assert.Equal(t, Output, l.Dir)
		assert.Equal(t, byte(0x00), port.data)
		assert.True(t, slices.Contains(port.events, "addr 00 00"))
	})

	t.Run("probe 2", func(t *testing.T) {
		port := &recordingPort{}
		d := NewDriver(port)
		d.Probe2()

		l := d.Lines()
		assert.True(t, l.VPP)
		assert.True(t, l.PGM)
		assert.False(t, l.OE)
		assert.Equal(t, byte(0xFF), port.data)
		assert.True(t, slices.Contains(port.events, "addr FF FC"))
	})
}

func TestRecordingClock(t *testing.T) {
	c := &RecordingClock{}
	c.Delay(10 * time.Microsecond)
	c.Delay(StrobeWidth)
	c.Delay(10 * time.Microsecond)

	assert.Equal(t, 2, c.Count(10*time.Microsecond))
	assert.Equal(t, 115*time.Microsecond, c.Total())
}

func TestSpinClockNeverReturnsEarly(t *testing.T) {
	start := time.Now()
	SpinClock{}.Delay(StrobeWidth)
	if elapsed := time.Since(start); elapsed < StrobeWidth {
		t.Errorf("SpinClock.Delay returned after %v, want at least %v", elapsed, StrobeWidth)
	}
}
