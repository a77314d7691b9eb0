package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/raptor-eda/ocla/internal/netlist"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Modules int    `json:"modules,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <netlist.json>",
		Short: "Validate a netlist without analyzing it",
		Long: `Validate a JSON netlist against the expected Yosys schema and check
that every cell connection references a known net. Faster than a full
analysis for build-time feedback.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, netlistPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	design, err := netlist.Load(netlistPath)
	if err != nil {
		code := loadErrorCode(err)
		var le *netlist.LoadError
		var detail any
		if errors.As(err, &le) && le.Detail != "" {
			detail = le.Detail
		}
		formatter.Error(code, err.Error(), detail)
		if code == ErrCodeNotFound {
			return WrapExitError(ExitCommandError, "loading netlist", err)
		}
		return WrapExitError(ExitFailure, "validation failed", err)
	}

	n := len(design.Modules())
	formatter.VerboseLog("Validated %d module(s)", n)
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Modules: n})
	}
	return formatter.Success("Validation passed")
}
