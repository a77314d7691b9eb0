package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raptor-eda/ocla/internal/netlist"
	"github.com/raptor-eda/ocla/internal/ocla"
	"github.com/raptor-eda/ocla/internal/store"
)

// analyzeOptions are the analyze command flags after merging with the
// config file. Flags win over config values.
type analyzeOptions struct {
	Top             string
	AutoTop         bool
	Output          string
	Database        string
	CoreSuffix      string
	SubsystemSuffix string
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <netlist.json>",
		Short: "Analyze a netlist for OCLA debug instrumentation",
		Long: `Analyze a synthesized JSON netlist: discover the OCLA debug subsystem
and its capture cores, cross-validate their parameters and resolve
every probe back to user design signals.

Exits 0 when every core qualifies, 1 when the design is disqualified
and 2 on command errors.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Top, "top", "", "top module name (default: netlist top attribute, else deepest root)")
	cmd.Flags().BoolVar(&opts.AutoTop, "auto-top", false, "pick the deepest uninstantiated module as top, ignoring the netlist attribute")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the output document to a file")
	cmd.Flags().StringVar(&opts.Database, "db", "", "run history database path")
	cmd.Flags().StringVar(&opts.CoreSuffix, "core-suffix", "", "OCLA core module name suffix (default \"ocla\")")
	cmd.Flags().StringVar(&opts.SubsystemSuffix, "subsystem-suffix", "", "debug subsystem module name suffix (default \"ocla_debug_subsystem\")")

	return cmd
}

func runAnalyze(rootOpts *RootOptions, opts *analyzeOptions, netlistPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	cfg, err := loadOptionsConfig(rootOpts)
	if err != nil {
		formatter.Error(ErrCodeConfig, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}
	merged := *opts
	if merged.Top == "" {
		merged.Top = cfg.Top
	}
	if merged.Database == "" {
		merged.Database = cfg.Database
	}
	if merged.CoreSuffix == "" {
		merged.CoreSuffix = cfg.CoreSuffix
	}
	if merged.SubsystemSuffix == "" {
		merged.SubsystemSuffix = cfg.SubsystemSuffix
	}

	formatter.VerboseLog("Loading netlist %s", netlistPath)
	design, err := netlist.Load(netlistPath)
	if err != nil {
		code := loadErrorCode(err)
		formatter.Error(code, err.Error(), nil)
		if code == ErrCodeNotFound {
			return WrapExitError(ExitCommandError, "loading netlist", err)
		}
		return WrapExitError(ExitFailure, "loading netlist", err)
	}

	switch {
	case merged.Top != "":
		if err := design.SetTop(netlist.EscapeID(merged.Top)); err != nil {
			formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "selecting top module", err)
		}
	case merged.AutoTop || design.Top() == nil:
		if err := design.AutoTop(); err != nil {
			formatter.Error(ErrCodeAnalysis, err.Error(), nil)
			return WrapExitError(ExitFailure, "selecting top module", err)
		}
		formatter.VerboseLog("Auto-selected top module %s", design.Top().Name)
	}
	topName := ""
	if top := design.Top(); top != nil {
		topName = top.Name
	}

	analyzer := ocla.New(design, ocla.Config{
		CoreName:      merged.CoreSuffix,
		SubsystemName: merged.SubsystemSuffix,
	})
	res, err := analyzer.Run()
	if err != nil {
		formatter.Error(ErrCodeAnalysis, err.Error(), nil)
		return WrapExitError(ExitFailure, "analysis", err)
	}

	doc, err := res.MarshalCanonical()
	if err != nil {
		formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "marshaling output", err)
	}

	if merged.Output != "" {
		if err := os.WriteFile(merged.Output, doc, 0o644); err != nil {
			formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "writing output file", err)
		}
		formatter.VerboseLog("Wrote output document to %s", merged.Output)
	}

	if merged.Database != "" {
		if err := recordRun(cmd, merged.Database, netlistPath, topName, res, doc); err != nil {
			formatter.Error(ErrCodeDatabase, err.Error(), nil)
			return WrapExitError(ExitCommandError, "recording run", err)
		}
	}

	if err := outputAnalyzeResult(formatter, merged.Output, res, doc); err != nil {
		return err
	}

	if res.SuccessCount == 0 {
		return NewExitError(ExitFailure, "design disqualified")
	}
	return nil
}

// recordRun persists one analysis into the run history database.
func recordRun(cmd *cobra.Command, dbPath, netlistPath, topName string, res *ocla.Result, doc []byte) error {
	s, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	return s.WriteRun(cmd.Context(), store.Run{
		ID:           store.NewRunID(),
		NetlistPath:  netlistPath,
		TopModule:    topName,
		SuccessCount: res.SuccessCount,
		Document:     doc,
	})
}

func outputAnalyzeResult(f *OutputFormatter, outputPath string, res *ocla.Result, doc []byte) error {
	if f.Format == "json" {
		status := "ok"
		var cliErr *CLIError
		if res.SuccessCount == 0 {
			status = "error"
			cliErr = &CLIError{Code: ErrCodeAnalysis, Message: "design disqualified"}
		}
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: status,
			Data:   json.RawMessage(doc),
			Error:  cliErr,
		})
	}

	// Text mode replays the analysis log; the document itself goes to
	// the output file when one was requested.
	for _, m := range res.Messages {
		fmt.Fprintln(f.Writer, m)
	}
	if res.SuccessCount > 0 {
		fmt.Fprintf(f.Writer, "OK: %d OCLA module(s) qualified\n", res.SuccessCount)
	} else {
		fmt.Fprintln(f.Writer, "FAIL: design disqualified")
	}
	return nil
}
