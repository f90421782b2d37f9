package cli

import (
	"github.com/toyz/ngcc/internal/errors"
	"github.com/toyz/ngcc/internal/utils"
)

// DefaultCoreVersion is the @angular/core release compiled output targets by default
const DefaultCoreVersion = "9.0.0"

// Config holds the configuration for a compile run
type Config struct {
	// Paths lists the files and directories to compile. Directories are
	// scanned recursively.
	Paths []string

	// OutDir mirrors compiled files below this directory. When empty each
	// compiled file is written next to its source.
	OutDir string

	// Bundle writes every compiled definition to this single file instead of
	// emitting one file per source
	Bundle string

	// CoreVersion selects the runtime naming scheme of the output
	CoreVersion string

	// Verbose enables detailed logging and error reporting
	Verbose bool

	// Quiet only reports errors
	Quiet bool

	// DryRun prints the output instead of writing it
	DryRun bool
}

// Validate checks the configuration before any file is read
func (c Config) Validate() error {
	if err := utils.NewValidatorChain(
		utils.SliceNotEmpty[string]("paths"),
		utils.ValidateEach("paths", utils.NotEmpty("path")),
	).Validate(c.Paths); err != nil {
		return errors.WrapConfigurationError("paths", "validate", err)
	}

	if c.CoreVersion != "" {
		if err := utils.IsSemver("core-version")(c.CoreVersion); err != nil {
			return errors.WrapConfigurationError("core-version", "validate", err)
		}
	}

	if c.Verbose && c.Quiet {
		return errors.ConfigurationError("flags", "--verbose and --quiet cannot be combined")
	}
	return nil
}

// DiagnosticLevel maps the verbosity flags to an output level
func (c Config) DiagnosticLevel() utils.DiagnosticLevel {
	switch {
	case c.Quiet:
		return utils.DiagnosticError
	case c.Verbose:
		return utils.DiagnosticVerbose
	default:
		return utils.DiagnosticInfo
	}
}
