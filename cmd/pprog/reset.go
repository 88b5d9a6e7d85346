package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Return the device bus to idle and clear its address",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := connect(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		return s.client.Reset(s.ctx)
	},
}

// probeCmd represents the probe command
var probeCmd = &cobra.Command{
	Use:   "probe <1|2>",
	Short: "Drive a diagnostic pin pattern",
	Long: `Drive a diagnostic pin pattern for checking the wiring with a meter.

Pattern 1: read mode, all address lines low, data bus driven low.
Pattern 2: programming voltage on, all address lines high, data bus driven
high and the program strobe held asserted.

The pattern is held until the next command; run "pprog reset" afterwards.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pattern, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid pattern %q: %w", args[0], err)
		}

		s, err := connect(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		return s.client.Probe(s.ctx, pattern)
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(probeCmd)
}
