package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toyz/ngcc/internal/cli"
	"github.com/toyz/ngcc/internal/errors"
)

func newCompileCommand() *cobra.Command {
	var config cli.Config

	cmd := &cobra.Command{
		Use:   "compile [paths...]",
		Short: "Compile decorated classes",
		Long: `Compile scans files and directories for decorated classes and writes the
compiled form of each source next to it as <name>.ivy<ext>.

Directories are scanned recursively for .ts, .js and .mjs files, skipping
node_modules, dist, build, hidden directories, declaration files and the
outputs of a previous run.

Examples:
  ngcc compile ./src                        # Compile every source below src
  ngcc compile --dry-run src/app.ts         # Print instead of writing
  ngcc compile --bundle out.js ./src        # One file with every definition
  ngcc compile --core-version 8.2.14 ./src  # Pre-Ivy definition names`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config.Paths = args
			return runCompile(cmd, config)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&config.OutDir, "out-dir", "", "Write compiled files below this directory")
	flags.StringVar(&config.Bundle, "bundle", "", "Write every definition into one file")
	flags.StringVar(&config.CoreVersion, "core-version", cli.DefaultCoreVersion, "Version of @angular/core the output targets")
	flags.BoolVar(&config.DryRun, "dry-run", false, "Print compiled files instead of writing them")
	flags.BoolVarP(&config.Verbose, "verbose", "v", false, "Enable verbose output and detailed error reporting")
	flags.BoolVarP(&config.Quiet, "quiet", "q", false, "Only show errors")
	cmd.MarkFlagsMutuallyExclusive("out-dir", "bundle")
	return cmd
}

func runCompile(cmd *cobra.Command, config cli.Config) error {
	diagnostics := newDiagnostics(cmd, config.DiagnosticLevel())
	reporter := cli.NewDiagnosticReporterTo(config.Verbose, cmd.ErrOrStderr())

	diagnostics.Header("Compiling " + strings.Join(config.Paths, ", "))
	compiler := cli.NewCompiler(diagnostics, reporter)
	compiler.SetOutput(cmd.OutOrStdout())

	err := compiler.Run(config)
	summary := compiler.Summary()

	var many *errors.MultipleErrors
	if err != nil && !errors.As(err, &many) {
		// failures before any file was compiled
		reporter.ReportError(err)
		return fmt.Errorf("compilation aborted")
	}

	diagnostics.Summary("Summary", summary.Stats())
	if config.Verbose && len(summary.OutputFiles) > 0 {
		diagnostics.PhaseHeader("Written")
		diagnostics.Indent()
		for _, file := range summary.OutputFiles {
			diagnostics.List("%s", file)
		}
		diagnostics.Unindent()
	}

	if many != nil {
		if many.HasCode(errors.SyntaxErrorCode) {
			diagnostics.Warn("files with syntax errors were skipped entirely; none of their classes were compiled")
		}
		return fmt.Errorf("compilation failed with %d error(s)", many.Count())
	}
	diagnostics.CompilationComplete()
	return nil
}
