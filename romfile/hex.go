package romfile

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/marcinbor85/gohex"
)

// hexLineWidth is the data bytes per record written by WriteHex
const hexLineWidth = 16

// ParseHexReader parses an Intel HEX image from r. Records outside the chip's
// address space and overlapping records are rejected; gaps between records
// are filled with Fill.
func ParseHexReader(r io.Reader) (*Image, error) {
	text, err := normalizeLines(r)
	if err != nil {
		return nil, err
	}

	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(strings.NewReader(text)); err != nil {
		return nil, fmt.Errorf("invalid Intel HEX: %w", err)
	}

	segments := mem.GetDataSegments()
	if len(segments) == 0 {
		return nil, fmt.Errorf("no data records found in file")
	}

	low, high := uint32(Capacity), uint32(0)
	for _, seg := range segments {
		end := seg.Address + uint32(len(seg.Data))
		if end > Capacity {
			return nil, fmt.Errorf("data at 0x%X exceeds the %d byte address space", seg.Address, Capacity)
		}
		low = min(low, seg.Address)
		high = max(high, end)
	}

	return &Image{
		Base: uint16(low),
		Data: mem.ToBinary(low, high-low, Fill),
	}, nil
}

// normalizeLines drops blank lines and trailing whitespace such as the
// carriage returns of DOS line endings.
func normalizeLines(r io.Reader) (string, error) {
	var sb strings.Builder
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return sb.String(), nil
}

// WriteHex writes img as Intel HEX records followed by an end of file
// record.
func WriteHex(w io.Writer, img *Image) error {
	if err := img.Validate(); err != nil {
		return err
	}

	mem := gohex.NewMemory()
	if len(img.Data) > 0 {
		if err := mem.AddBinary(uint32(img.Base), img.Data); err != nil {
			return fmt.Errorf("building hex image: %w", err)
		}
	}

	bw := bufio.NewWriter(w)
	if err := mem.DumpIntelHex(bw, hexLineWidth); err != nil {
		return fmt.Errorf("writing hex image: %w", err)
	}
	return bw.Flush()
}
