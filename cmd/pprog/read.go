package main

import (
	"os"

	"github.com/moffa90/go-pprog/host"
	"github.com/moffa90/go-pprog/romfile"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/cobra"
)

// readCmd represents the read command
var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read the chip into a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		output, _ := flags.GetString("output")
		address, _ := flags.GetUint16("address")
		length, _ := flags.GetInt("length")
		formatName, _ := flags.GetString("format")
		quiet, _ := flags.GetBool("quiet")

		if !flags.Changed("length") {
			length = romfile.Capacity - int(address)
		}

		format := romfile.DetectFormat(output)
		if formatName != "" {
			var err error
			if format, err = romfile.ParseFormat(formatName); err != nil {
				return err
			}
		}

		bar := newProgressBar(os.Stderr, quiet)
		defer bar.Finish()

		s, err := connect(cmd, host.WithProgressCallback(bar.Update))
		if err != nil {
			return err
		}
		defer s.Close()

		data, err := s.client.Read(s.ctx, address, length)
		if err != nil {
			bar.Finish()
			s.logger.Error("Read failed", log.Err(err))
			return err
		}

		if err := romfile.Save(output, format, &romfile.Image{Base: address, Data: data}); err != nil {
			return err
		}
		s.logger.Info("Read OK",
			log.String("file", output),
			log.String("format", format.String()),
			log.Int("bytes", len(data)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().StringP("output", "o", "", "Output file name")
	readCmd.Flags().Uint16P("address", "a", 0, "Base address")
	readCmd.Flags().IntP("length", "l", romfile.Capacity, "Number of bytes to read (default to the end of the chip)")
	readCmd.Flags().StringP("format", "f", "", "Output format: raw or hex (default from the file extension)")
	_ = readCmd.MarkFlagRequired("output")
}
