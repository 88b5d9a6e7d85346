package protocol

import (
	"encoding/binary"
	"fmt"
)

// BuildSetAddressCmd constructs a Set Address command frame.
//
// Frame structure:
//
//	['s'][ADDR_L][ADDR_H]
func BuildSetAddressCmd(addr uint16) []byte {
	return buildArgumentCmd(CmdSetAddress, addr)
}

// BuildSetLengthCmd constructs a Set Length command frame.
//
// Frame structure:
//
//	['l'][LEN_L][LEN_H]
func BuildSetLengthCmd(length uint16) []byte {
	return buildArgumentCmd(CmdSetLength, length)
}

// BuildWriteCmd constructs the command that starts a bulk write.
func BuildWriteCmd() []byte {
	return []byte{CmdWrite}
}

// BuildReadCmd constructs the command that starts a bulk read.
func BuildReadCmd() []byte {
	return []byte{CmdRead}
}

// BuildReadNextCmd constructs the single byte read command.
func BuildReadNextCmd() []byte {
	return []byte{CmdReadNext}
}

// BuildResetCmd constructs the reset command.
func BuildResetCmd() []byte {
	return []byte{CmdReset}
}

// BuildAbortCmd constructs the abort command.
// The device treats it as a no-op between commands.
func BuildAbortCmd() []byte {
	return []byte{CmdAbort}
}

// BuildProbeCmd constructs one of the diagnostic probe commands.
// The pattern must be 1 or 2.
func BuildProbeCmd(pattern int) ([]byte, error) {
	switch pattern {
	case 1:
		return []byte{CmdProbe1}, nil
	case 2:
		return []byte{CmdProbe2}, nil
	default:
		return nil, fmt.Errorf("probe pattern must be 1 or 2, got %d", pattern)
	}
}

// BuildContinue returns the continuation byte sent after a checksum reply.
func BuildContinue(proceed bool) []byte {
	if proceed {
		return []byte{Continue}
	}
	return []byte{Abort}
}

func buildArgumentCmd(cmd byte, arg uint16) []byte {
	frame := make([]byte, 1+ArgumentSize)
	frame[0] = cmd
	binary.LittleEndian.PutUint16(frame[1:], arg)
	return frame
}

// DecodeArgument decodes a little-endian 16-bit argument from two link bytes,
// low byte first.
func DecodeArgument(lo, hi byte) uint16 {
	return uint16(lo) | uint16(hi)<<8
}
