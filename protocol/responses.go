package protocol

import "fmt"

// ParseAck validates a single acknowledgment byte for the named operation.
func ParseAck(operation string, b byte) error {
	if b != Ack {
		return &AckError{Operation: operation, Got: b}
	}
	return nil
}

// ParseChecksumReply validates a [Ack][XOR] reply of a bulk write stage and
// returns the checksum.
func ParseChecksumReply(operation string, reply []byte) (byte, error) {
	if len(reply) != ChecksumReplySize {
		return 0, fmt.Errorf("%s: invalid reply length: got %d bytes, expected %d",
			operation, len(reply), ChecksumReplySize)
	}
	if err := ParseAck(operation, reply[0]); err != nil {
		return 0, err
	}
	return reply[1], nil
}
