package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/toyz/ngcc/internal/server"
	"github.com/toyz/ngcc/internal/utils"
)

func newServeCommand() *cobra.Command {
	config := server.DefaultConfig()
	var verbose bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compiler over HTTP",
		Long: `Serve starts an HTTP server exposing the compiler.

Endpoints:
  POST /compile   {"fileName": "...", "source": "..."} compiles one file
  GET  /health    reports {"status":"ok"}

Examples:
  ngcc serve --addr :8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := utils.DiagnosticInfo
			if verbose {
				level = utils.DiagnosticDebug
			}

			s, err := server.New(config, newDiagnostics(cmd, level))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return s.Start(ctx)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&config.Addr, "addr", config.Addr, "Address to listen on")
	flags.StringVar(&config.CoreVersion, "core-version", config.CoreVersion, "Default version of @angular/core requests target")
	flags.BoolVar(&config.EnableLogger, "access-log", config.EnableLogger, "Log every request")
	flags.DurationVar(&config.ShutdownTimeout, "shutdown-timeout", config.ShutdownTimeout, "Grace period for in-flight requests")
	flags.IntVar(&config.MaxSourceBytes, "max-source-bytes", config.MaxSourceBytes, "Largest accepted source file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log every compiled request")
	return cmd
}
