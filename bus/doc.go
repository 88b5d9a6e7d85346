// Package bus drives the address, data and control lines of a parallel
// memory chip.
//
// The Driver is the only code that changes line state. It holds the logical
// state of the control lines as a Lines value and pushes every change to a
// Port, which is the raw wiring: a set of GPIO pins, a simulated chip, or
// anything else that can latch an address, drive or sample a data byte and
// apply named control levels.
//
// # Address Encoding
//
// Addresses carry 14 significant bits. The low byte goes to the low address
// port unchanged. The high byte is shifted left by the address port bit
// offset (2 on the reference wiring, whose two lowest high-port bits are the
// serial RX/TX lines) before it reaches the high address port.
//
// # Timing
//
// Delays go through a Clock. SpinClock busy-waits on the monotonic clock and
// never returns before the requested duration has elapsed.
package bus
