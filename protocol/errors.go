package protocol

import (
	"errors"
	"fmt"
)

// AckError reports a reply byte that should have been Ack but was not.
type AckError struct {
	// Operation is the command or stage that was being acknowledged
	Operation string

	// Got is the byte the device actually sent
	Got byte
}

func (e *AckError) Error() string {
	return fmt.Sprintf("%s: expected acknowledgment 0x%02X, got 0x%02X", e.Operation, Ack, e.Got)
}

// IsAckError returns true if err is or wraps an AckError.
func IsAckError(err error) bool {
	var ackErr *AckError
	return errors.As(err, &ackErr)
}
