// Package romfile loads and saves ROM images for the programmer.
//
// Two formats are supported:
//
//   - Raw binary: the file contents are the image, placed at a base
//     address chosen by the caller.
//   - Intel HEX, decoded and encoded with gohex. Start address records are
//     ignored, data must fit the 16 KiB address space, records may not
//     overlap and gaps between records are filled with 0xFF, the erased
//     value of the chip.
//
// Example:
//
//	img, err := romfile.Load("monitor.hex", 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d bytes at 0x%04X\n", len(img.Data), img.Base)
package romfile
