package protocol

// Checksum algorithm constants.
const (
	// CRC16Polynomial is the CRC-16-CCITT polynomial (0x1021)
	CRC16Polynomial = 0x1021

	// CRC16InitialValue is the CRC-16 initial value
	CRC16InitialValue = 0xFFFF

	// CRC16HighBitMask is the high bit mask for CRC-16 calculations
	CRC16HighBitMask = 0x8000

	// BitsPerByte is the number of bits per byte
	BitsPerByte = 8
)

// XOR is a running exclusive-or checksum, the integrity field used on the
// wire. The zero value is ready to use.
//
// A pair of errors that cancel each other out is not detected.
type XOR byte

// Add folds b into the checksum.
func (x *XOR) Add(b byte) {
	*x ^= XOR(b)
}

// Sum returns the current checksum value.
func (x XOR) Sum() byte {
	return byte(x)
}

// CalculateXOR computes the XOR checksum of data.
func CalculateXOR(data []byte) byte {
	var x XOR
	for _, b := range data {
		x.Add(b)
	}
	return x.Sum()
}

// CRC16 is a running CRC-16-CCITT (initial value 0xFFFF, no final XOR).
// It is used for diagnostics only.
type CRC16 struct {
	crc     uint16
	started bool
}

// Add folds b into the CRC.
func (c *CRC16) Add(b byte) {
	if !c.started {
		c.crc = CRC16InitialValue
		c.started = true
	}
	c.crc ^= uint16(b) << BitsPerByte
	for i := 0; i < BitsPerByte; i++ {
		if c.crc&CRC16HighBitMask != 0 {
			c.crc = (c.crc << 1) ^ CRC16Polynomial
		} else {
			c.crc = c.crc << 1
		}
	}
}

// Sum returns the CRC of everything added so far.
func (c *CRC16) Sum() uint16 {
	if !c.started {
		return CRC16InitialValue
	}
	return c.crc
}

// CalculateCRC16 computes the CRC-16-CCITT of data.
func CalculateCRC16(data []byte) uint16 {
	var c CRC16
	for _, b := range data {
		c.Add(b)
	}
	return c.Sum()
}
