package host

import "time"

// Transfer phases reported through Progress.
const (
	PhaseWriting  = "writing"
	PhaseReading  = "reading"
	PhaseComplete = "complete"
)

// Progress contains information about a running transfer.
type Progress struct {
	// Phase is one of PhaseWriting, PhaseReading or PhaseComplete
	Phase string

	// Address is the chip address the next byte goes to or comes from
	Address uint16

	// Done is the number of bytes completed so far. During a write it
	// advances a block at a time, once the block verified.
	Done int

	// Total is the transfer length
	Total int

	// Percentage is the completion percentage (0.0 to 100.0)
	Percentage float64

	// ElapsedTime is the time elapsed since the transfer started
	ElapsedTime time.Duration
}

// ProgressCallback is called during transfers to report progress.
// Implementations should return quickly; the device waits on the client.
type ProgressCallback func(Progress)

func percentage(done, total int) float64 {
	if total == 0 {
		return 100
	}
	return float64(done) / float64(total) * 100
}
