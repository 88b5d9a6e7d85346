package bus

import "time"

// Clock provides the fixed busy-wait delays the bus timing depends on.
type Clock interface {
	// Delay blocks for at least d
	Delay(d time.Duration)
}

// SpinClock busy-waits on the monotonic clock. It is not interruptible.
type SpinClock struct{}

// Delay spins until d has elapsed.
func (SpinClock) Delay(d time.Duration) {
	if d <= 0 {
		return
	}
	start := time.Now()
	for time.Since(start) < d {
	}
}

// RecordingClock records requested delays without waiting. It is meant for
// tests and simulations.
type RecordingClock struct {
	Delays []time.Duration
}

// Delay records d.
func (c *RecordingClock) Delay(d time.Duration) {
	c.Delays = append(c.Delays, d)
}

// Total returns the sum of all recorded delays.
func (c *RecordingClock) Total() time.Duration {
	var total time.Duration
	for _, d := range c.Delays {
		total += d
	}
	return total
}

// Count returns how many times d was requested.
func (c *RecordingClock) Count(d time.Duration) int {
	n := 0
	for _, got := range c.Delays {
		if got == d {
			n++
		}
	}
	return n
}
