// Package main implements pprog, the host tool for the parallel EPROM
// programmer.
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
