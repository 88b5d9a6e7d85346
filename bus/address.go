package bus

// AddressMask selects the physically meaningful address bits.
const AddressMask = 0x3FFF

// DefaultAddressOffset is the bit position of ADDRH0 on the high address port
// of the reference wiring.
const DefaultAddressOffset = 2

// EncodeAddress splits addr into the physical low and high address port
// values. The high byte is shifted left by offset.
func EncodeAddress(addr uint16, offset uint) (low, high byte) {
	low = byte(addr)
	high = byte(addr>>8) << offset
	return low, high
}

// DecodeAddress reverses EncodeAddress for the bits that survive the shift.
func DecodeAddress(low, high byte, offset uint) uint16 {
	return uint16(low) | uint16(high>>offset)<<8
}
