package host

import (
	"fmt"
)

// Checksum stages of a transfer.
const (
	// StageReceive is the device's echo of the block it received
	StageReceive = "receive"

	// StageWrite is the device's echo of the block it read back after
	// programming
	StageWrite = "write"

	// StageRead is the trailing checksum of a bulk read
	StageRead = "read"
)

// ChecksumMismatchError indicates that a checksum reported by the device
// differs from the one computed locally.
type ChecksumMismatchError struct {
	Stage string

	// Block is the index of the write block, 0 for a read
	Block int

	// Address is the chip address of the first byte of the block or read
	Address uint16

	Expected byte
	Actual   byte
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("%s checksum mismatch for block %d at 0x%04X: expected 0x%02X, got 0x%02X",
		e.Stage, e.Block, e.Address, e.Expected, e.Actual)
}

// LengthError indicates a transfer that does not fit the length field or the
// chip's address space.
type LengthError struct {
	Address uint16
	Length  int
	Max     int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("transfer of %d bytes at 0x%04X exceeds the limit of %d bytes",
		e.Length, e.Address, e.Max)
}
