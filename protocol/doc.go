// Package protocol implements the byte-oriented command protocol spoken
// between a host and the parallel EPROM programmer.
//
// # Protocol Overview
//
// Every exchange is host-initiated. A command is a single ASCII byte,
// optionally followed by a little-endian 16-bit argument:
//
//	Set address:  ['s'][ADDR_L][ADDR_H]  -> [0x01]
//	Set length:   ['l'][LEN_L][LEN_H]    -> [0x01]
//	Read:         ['r']                  -> [DATA...][XOR]
//	Read next:    ['+']                  -> [DATA]
//	Reset:        ['0']                  -> (no reply)
//
// A write ('d') is acknowledged with 0x01 and then proceeds block by block:
//
//	host:   [BLOCK (up to BlockMax bytes)]
//	device: [0x01][XOR of received bytes]
//	host:   [CONTINUE] (0xFF aborts)
//	device: [0x01][XOR of verified bytes]
//	host:   [CONTINUE] (0xFF aborts)
//
// # Checksums
//
// The only integrity field on the wire is the 8-bit XOR of a block (or of a
// whole read). CRC16 is offered as a stronger diagnostic for logs and
// reports; it never appears on the wire.
//
// # Command Builders
//
// Use the Build* functions to create command frames:
//
//	frame := protocol.BuildSetAddressCmd(0x0100)
//	frame := protocol.BuildSetLengthCmd(4)
//
// and ParseAck / ParseChecksumReply to validate device replies.
package protocol
