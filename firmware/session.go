package firmware

// Session is the state the commands act on. It lives for the dispatcher's
// lifetime and is only mutated by the dispatcher and the transfer engine.
type Session struct {
	// BaseAddress is the first chip address of the next transfer
	BaseAddress uint16

	// TransferLength is the number of bytes the next transfer covers
	TransferLength uint16

	// Progress counts the bytes completed in the current transfer. During a
	// bulk write it only advances at block boundaries.
	Progress uint16
}

// Address returns the chip address the next byte of the transfer goes to.
// The sum wraps at 16 bits before the bus masks it to the chip's range.
func (s Session) Address() uint16 {
	return s.BaseAddress + s.Progress
}

// Remaining returns the bytes left in the transfer.
func (s Session) Remaining() uint16 {
	if s.Progress >= s.TransferLength {
		return 0
	}
	return s.TransferLength - s.Progress
}

// reset clears the address and progress. The length survives a reset.
func (s *Session) reset() {
	s.BaseAddress = 0
	s.Progress = 0
}
