package protocol

// Command bytes.
const (
	// CmdSetAddress sets the base address of subsequent transfers
	CmdSetAddress = 's'

	// CmdSetLength sets the length of subsequent transfers
	CmdSetLength = 'l'

	// CmdWrite starts a block-by-block bulk write
	CmdWrite = 'd'

	// CmdRead starts a bulk read
	CmdRead = 'r'

	// CmdReadNext reads one byte at base+progress and advances progress
	CmdReadNext = '+'

	// CmdReset returns the bus to idle and clears address and progress
	CmdReset = '0'

	// CmdProbe1 drives the first diagnostic pin pattern
	CmdProbe1 = '1'

	// CmdProbe2 drives the second diagnostic pin pattern
	CmdProbe2 = '2'

	// CmdAbort is accepted but has no effect; it is only seen between commands
	CmdAbort = 'x'
)

// Reply and handshake bytes.
const (
	// Ack acknowledges a command or a block stage
	Ack = 0x01

	// Continue is what the host sends to proceed after a checksum reply.
	// Any value other than Abort proceeds.
	Continue = 0x01

	// Abort stops a bulk write at a block boundary
	Abort = 0xFF
)

// BlockMax is the largest block exchanged during a bulk write.
const BlockMax = 512

// MaxTransferLength is the largest length a 16-bit length field can carry.
const MaxTransferLength = 0xFFFF

// ArgumentSize is the size of the little-endian argument of 's' and 'l'.
const ArgumentSize = 2

// ChecksumReplySize is the size of a [Ack][XOR] reply during a bulk write.
const ChecksumReplySize = 2
