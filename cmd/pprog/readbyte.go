package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// readbyteCmd represents the readbyte command
var readbyteCmd = &cobra.Command{
	Use:   "readbyte",
	Short: "Read a single byte",
	Long: `Read a single byte.

Without --address the byte at the device's current base address plus its
progress counter is read, and the counter advances. With --address the base
address is set first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := connect(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		var b byte
		if cmd.Flags().Changed("address") {
			address, _ := cmd.Flags().GetUint16("address")
			b, err = s.client.ReadAddress(s.ctx, address)
		} else {
			b, err = s.client.ReadNext(s.ctx)
		}
		if err != nil {
			return err
		}

		fmt.Printf("%02x\n", b)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(readbyteCmd)
	readbyteCmd.Flags().Uint16P("address", "a", 0, "Address to read")
}
