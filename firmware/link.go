package firmware

// Link is the byte transport between host and device.
//
// SendByte and ReceiveByte block. DataAvailable reports whether ReceiveByte
// would return without blocking. Errors come only from the transport; an
// error from ReceiveByte ends the dispatcher.
type Link interface {
	SendByte(b byte) error
	ReceiveByte() (byte, error)
	DataAvailable() bool
}
