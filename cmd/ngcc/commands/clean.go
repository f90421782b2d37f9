package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toyz/ngcc/internal/cli"
	"github.com/toyz/ngcc/internal/utils"
)

func newCleanCommand() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "clean [paths...]",
		Short: "Remove compiled outputs",
		Long: `Clean removes every *.ivy.* file written by a previous compile below the
given directories. Sources are never touched.

Examples:
  ngcc clean ./src`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level := utils.DiagnosticInfo
			if quiet {
				level = utils.DiagnosticError
			}
			diagnostics := newDiagnostics(cmd, level)

			removed, err := cli.NewCleaner().Clean(args)
			diagnostics.Indent()
			for _, file := range removed {
				diagnostics.List("removed %s", file)
			}
			diagnostics.Unindent()
			if err != nil {
				cli.NewDiagnosticReporterTo(false, cmd.ErrOrStderr()).ReportError(err)
				return fmt.Errorf("clean failed after removing %d file(s)", len(removed))
			}
			diagnostics.Success("Removed %d compiled file(s)", len(removed))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only show errors")
	return cmd
}
