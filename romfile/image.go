package romfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/moffa90/go-pprog/bus"
)

// Capacity is the size of the chip's address space.
const Capacity = bus.AddressMask + 1

// Fill is the value used for gaps in sparse images.
const Fill = 0xFF

// Format is an image file format.
type Format int

const (
	// FormatRaw is a plain binary image
	FormatRaw Format = iota
	// FormatHex is an Intel HEX image
	FormatHex
)

func (f Format) String() string {
	if f == FormatHex {
		return "hex"
	}
	return "raw"
}

// ParseFormat maps a format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "raw", "bin", "binary":
		return FormatRaw, nil
	case "hex", "ihex", "ihx":
		return FormatHex, nil
	default:
		return FormatRaw, fmt.Errorf("unknown image format %q", name)
	}
}

// DetectFormat guesses the format of path from its extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hex", ".ihx", ".ihex":
		return FormatHex
	default:
		return FormatRaw
	}
}

// Image is a contiguous block of chip contents.
type Image struct {
	// Base is the chip address of Data[0]
	Base uint16

	// Data is the image contents
	Data []byte
}

// End returns the address one past the last byte of the image.
func (img *Image) End() int {
	return int(img.Base) + len(img.Data)
}

// Validate checks that the image fits the chip.
func (img *Image) Validate() error {
	if img.End() > Capacity {
		return fmt.Errorf("image of %d bytes at 0x%04X exceeds the %d byte address space",
			len(img.Data), img.Base, Capacity)
	}
	return nil
}

// Load reads an image from path, choosing the format from the extension.
// For raw images base is the address of the first byte; Intel HEX images
// carry their own addresses and ignore it.
//
// Example:
//
//	img, err := romfile.Load("rom.bin", 0x2000)
func Load(path string, base uint16) (*Image, error) {
	return LoadFormat(path, DetectFormat(path), base)
}

// LoadFormat reads an image from path in the given format.
func LoadFormat(path string, format Format, base uint16) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var img *Image
	switch format {
	case FormatHex:
		img, err = ParseHexReader(f)
	default:
		img, err = ReadRaw(f, base)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// ReadRaw reads a raw binary image placed at base.
func ReadRaw(r io.Reader, base uint16) (*Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, Capacity+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image")
	}

	img := &Image{Base: base, Data: data}
	if err := img.Validate(); err != nil {
		return nil, err
	}
	return img, nil
}

// Save writes data to path in the given format.
func Save(path string, format Format, img *Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	switch format {
	case FormatHex:
		err = WriteHex(f, img)
	default:
		_, err = f.Write(img.Data)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
