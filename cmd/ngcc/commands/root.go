// Package commands provides the CLI commands for the ngcc tool.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/toyz/ngcc/internal/cli"
	"github.com/toyz/ngcc/internal/utils"
)

// Version is the tool version printed by `ngcc version`
var Version = "0.1.0"

// NewRootCommand builds the ngcc command tree
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "ngcc",
		Short: "Angular decorator compiler",
		Long: `ngcc compiles decorated Angular classes into their static definitions.

Usage:
  ngcc compile [paths...]     Compile decorated classes next to their sources
  ngcc clean [paths...]       Remove compiled outputs of a previous run
  ngcc serve --addr :8080     Serve the compiler over HTTP
  ngcc version                Print version`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(newCompileCommand())
	root.AddCommand(newCleanCommand())
	root.AddCommand(newServeCommand())
	root.AddCommand(newVersionCommand())
	return root
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ngcc %s (default @angular/core %s)\n", Version, cli.DefaultCoreVersion)
		},
	}
}

// newDiagnostics writes colored output to the terminal and plain output
// anywhere else the command was redirected to
func newDiagnostics(cmd *cobra.Command, level utils.DiagnosticLevel) *utils.DiagnosticSystem {
	out := cmd.OutOrStdout()
	if out == io.Writer(os.Stdout) {
		return utils.NewDiagnosticSystem(level)
	}
	return utils.NewDiagnosticWriter(level, out)
}
