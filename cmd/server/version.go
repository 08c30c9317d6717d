package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set during build with -ldflags.
var (
	Version = "dev"
	Commit  = "none"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ocr-api %s (commit: %s, %s)\n", Version, Commit, runtime.Version())
	},
}
