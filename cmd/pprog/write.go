package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/moffa90/go-pprog/host"
	"github.com/moffa90/go-pprog/romfile"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/cobra"
)

// writeCmd represents the write command
var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Program a ROM image into the chip",
	Long: `Program a ROM image into the chip.

Raw images are placed at --address. Intel HEX images carry their own
addresses.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		rom, _ := flags.GetString("rom")
		address, _ := flags.GetUint16("address")
		formatName, _ := flags.GetString("format")
		verify, _ := flags.GetBool("verify")
		quiet, _ := flags.GetBool("quiet")

		format := romfile.DetectFormat(rom)
		if formatName != "" {
			var err error
			if format, err = romfile.ParseFormat(formatName); err != nil {
				return err
			}
		}

		img, err := romfile.LoadFormat(rom, format, address)
		if err != nil {
			return err
		}

		bar := newProgressBar(os.Stderr, quiet)
		defer bar.Finish()

		s, err := connect(cmd, host.WithProgressCallback(bar.Update))
		if err != nil {
			return err
		}
		defer s.Close()

		s.logger.Info("Writing image",
			log.String("file", rom),
			log.Hex("address", img.Base),
			log.Int("bytes", len(img.Data)))

		if err := s.client.Write(s.ctx, img.Base, img.Data); err != nil {
			bar.Finish()
			s.logger.Error("Write failed", log.Err(err))
			return err
		}

		if !verify {
			return nil
		}

		got, err := s.client.Read(s.ctx, img.Base, len(img.Data))
		if err != nil {
			bar.Finish()
			s.logger.Error("Verify read failed", log.Err(err))
			return err
		}
		if i := firstDifference(img.Data, got); i >= 0 {
			err := fmt.Errorf("verify failed at 0x%04X: wrote 0x%02X, read 0x%02X",
				int(img.Base)+i, img.Data[i], got[i])
			s.logger.Error("Verify failed", log.Err(err))
			return err
		}
		s.logger.Info("Verify OK")
		return nil
	},
}

func firstDifference(a, b []byte) int {
	if bytes.Equal(a, b) {
		return -1
	}
	for i := range a {
		if i >= len(b) || a[i] != b[i] {
			return i
		}
	}
	return len(a)
}

func init() {
	rootCmd.AddCommand(writeCmd)
	writeCmd.Flags().StringP("rom", "r", "", "ROM image file, e.g. rom.bin or rom.hex")
	writeCmd.Flags().Uint16P("address", "a", 0, "Base address of a raw image")
	writeCmd.Flags().StringP("format", "f", "", "Image format: raw or hex (default from the file extension)")
	writeCmd.Flags().BoolP("verify", "V", false, "Read the image back after writing and compare")
	_ = writeCmd.MarkFlagRequired("rom")
}
