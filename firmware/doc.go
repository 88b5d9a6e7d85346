// Package firmware is the device side of the programmer: a command
// dispatcher that decodes single-byte commands from a link, the session
// state they act on, and the streaming engine behind bulk writes and reads.
//
// The dispatcher owns the bus for its lifetime. It never sends error bytes:
// a failed byte verify surfaces to the host only through the write checksum
// of its block, and the only way to stop a bulk write is the host's 0xFF
// continuation byte at a block boundary.
//
// Example:
//
//	port, _ := bus.NewGPIOPort(bus.DefaultPinMap)
//	serialPort, _ := link.OpenSerial("/dev/ttyAMA0", 9600, 0)
//	d := firmware.New(link.NewStream(serialPort), port,
//	    firmware.WithLogger(logger))
//	err := d.Run(ctx)
package firmware
