// Package main implements pprogd, the device side of the parallel EPROM
// programmer. It runs on a board whose GPIO pins are wired to the chip
// socket, or against a simulated chip.
package main

import (
	"os"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
