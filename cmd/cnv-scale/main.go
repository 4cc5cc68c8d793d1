// Package main is the entry point for the cnv-scale CLI.
package main

import (
	"fmt"
	"os"

	"github.com/rh-perfscale/cnv-scale/cmd/cnv-scale/cmd"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.SetVersion(version, commit, date)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
