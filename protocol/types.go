package protocol

// Result classifies how a transfer ended. It is an internal diagnostic for
// the host or for device-side reports; it is never sent on the wire.
type Result int

const (
	// ResultOK means the transfer ran to completion and every byte verified
	ResultOK Result = iota

	// ResultVerifyExhausted means at least one byte still differed after
	// the maximum number of program attempts
	ResultVerifyExhausted

	// ResultAborted means the host sent Abort at a block boundary
	ResultAborted
)

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultVerifyExhausted:
		return "verify exhausted"
	case ResultAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// CommandName returns a human-readable name for a command byte.
func CommandName(cmd byte) string {
	switch cmd {
	case CmdSetAddress:
		return "set address"
	case CmdSetLength:
		return "set length"
	case CmdWrite:
		return "write"
	case CmdRead:
		return "read"
	case CmdReadNext:
		return "read next"
	case CmdReset:
		return "reset"
	case CmdProbe1:
		return "probe 1"
	case CmdProbe2:
		return "probe 2"
	case CmdAbort:
		return "abort"
	default:
		return "unknown"
	}
}
