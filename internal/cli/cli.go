// Package cli provides the command-line interface for boglehead
package cli

import (
	"io"

	"github.com/spf13/cobra"
)

func init() {
	// keep commands in the order they were added
	cobra.EnableCommandSorting = false
}

// Run executes the CLI with args and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		PrintError(stderr, err)
		return 1
	}
	return 0
}
