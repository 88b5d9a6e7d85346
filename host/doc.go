// Package host is the computer side of the programmer: a client that sends
// commands to the device over any io.ReadWriter, usually a serial port
// opened with link.OpenSerial.
//
// Basic usage:
//
//	port, err := link.OpenSerial("/dev/ttyUSB0", 9600, 60*time.Second)
//	if err != nil {
//	    return err
//	}
//	defer port.Close()
//
//	client := host.New(port,
//	    host.WithProgressCallback(func(p host.Progress) {
//	        fmt.Printf("%s %.1f%%\n", p.Phase, p.Percentage)
//	    }),
//	)
//	if err := client.Write(ctx, 0x0000, image); err != nil {
//	    return err
//	}
//
// # Write handshake
//
// A write is split into blocks of protocol.BlockMax bytes. After each block
// the device echoes the XOR of what it received, and after programming it
// echoes the XOR of what it read back. The client compares both echoes with
// the XOR of the block it sent. On the first disagreement it sends the abort
// byte and returns a *ChecksumMismatchError, so a byte that failed to
// program stops the write at the end of its block.
//
// # Error handling
//
// Errors are typed and can be inspected with errors.As:
//
//	var crcErr *host.ChecksumMismatchError
//	if errors.As(err, &crcErr) {
//	    fmt.Printf("%s checksum of block %d: 0x%02X != 0x%02X\n",
//	        crcErr.Stage, crcErr.Block, crcErr.Actual, crcErr.Expected)
//	}
//
// A reply other than the acknowledgment byte is a *protocol.AckError.
//
// # Cancellation
//
// Write checks the context at every block handshake and aborts the device
// cleanly when it has been cancelled. A bulk read cannot be interrupted on
// the wire; Read only checks the context before it starts.
package host
