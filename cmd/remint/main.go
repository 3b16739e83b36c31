// Package main provides the entry point for the remint CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/remint-io/remint/cmd/remint/commands"
	"github.com/remint-io/remint/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "remint",
		Short: "Remint - fixed-width diagnostic dump assembler",
		Long: `Remint turns periodically repeated fixed-width monitoring dumps into
per-category rows, with counter differencing, time-window filtering, and
CSV/Excel/HTML report output.

Commands:
  run       Ingest dump files and write per-category output`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewRunCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "remint %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
