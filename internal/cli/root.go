package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the ocla CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "ocla",
		Short: "OCLA debug instrumentation analyzer",
		Long: `Discovers and validates OCLA debug instrumentation in synthesized
netlists: locates the debug subsystem and its capture cores, checks
their parameters against each other and resolves every probe back to
the user design signals it observes.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default "+DefaultConfigFile+")")

	cmd.AddCommand(NewAnalyzeCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewRunsCommand(opts))

	return cmd
}

// loadOptionsConfig resolves the config file for a command invocation.
func loadOptionsConfig(opts *RootOptions) (Config, error) {
	path := opts.ConfigPath
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	return LoadConfig(path, explicit)
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
