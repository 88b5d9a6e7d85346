package firmware

import (
	"time"

	"github.com/moffa90/go-pprog/protocol"
)

// Kind identifies the transfer a report describes.
type Kind int

const (
	// KindWrite is a bulk write ('d')
	KindWrite Kind = iota
	// KindRead is a bulk read ('r')
	KindRead
	// KindReadNext is a single-byte read ('+')
	KindReadNext
)

func (k Kind) String() string {
	switch k {
	case KindWrite:
		return "write"
	case KindRead:
		return "read"
	case KindReadNext:
		return "read next"
	default:
		return "unknown"
	}
}

// TransferReport describes a finished transfer. It never affects what goes
// on the wire.
type TransferReport struct {
	Kind   Kind
	Result protocol.Result

	// Base, Length and Progress are the session values at the end of the
	// transfer
	Base     uint16
	Length   uint16
	Progress uint16

	// Blocks is the number of write blocks that completed both handshakes
	Blocks int

	// Exhausted lists the addresses whose last read-back still differed
	// after the maximum number of program attempts
	Exhausted []uint16

	// CRC16 is a CRC-16-CCITT over the bytes verified or read
	CRC16 uint16

	Elapsed time.Duration
}

// ReportCallback is called with the report of each transfer.
type ReportCallback func(TransferReport)
