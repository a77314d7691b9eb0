package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/raptor-eda/ocla/internal/store"
)

// RunSummary is one run history entry as reported by "runs list".
type RunSummary struct {
	ID           string `json:"id"`
	CreatedAt    string `json:"created_at"`
	NetlistPath  string `json:"netlist_path"`
	TopModule    string `json:"top_module"`
	SuccessCount int    `json:"success_count"`
}

// NewRunsCommand creates the runs command group.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect the analysis run history",
	}
	cmd.AddCommand(newRunsListCommand(rootOpts))
	cmd.AddCommand(newRunsShowCommand(rootOpts))
	return cmd
}

func newRunsListCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		dbPath      string
		limit       int
		netlistPath string
	)

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List recorded analysis runs, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRunsList(rootOpts, dbPath, limit, netlistPath, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "run history database path")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to list (0 for all)")
	cmd.Flags().StringVar(&netlistPath, "netlist", "", "only runs for this netlist path")

	return cmd
}

func newRunsShowCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:           "show <run-id>",
		Short:         "Print the stored output document of one run",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRunsShow(rootOpts, dbPath, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "run history database path")

	return cmd
}

// openRunStore resolves the database path from the flag or the config
// file and opens it.
func openRunStore(rootOpts *RootOptions, dbPath string, f *OutputFormatter) (*store.Store, error) {
	if dbPath == "" {
		cfg, err := loadOptionsConfig(rootOpts)
		if err != nil {
			f.Error(ErrCodeConfig, err.Error(), nil)
			return nil, NewExitError(ExitCommandError, err.Error())
		}
		dbPath = cfg.Database
	}
	if dbPath == "" {
		msg := "no run database configured: pass --db or set database in " + DefaultConfigFile
		f.Error(ErrCodeDatabase, msg, nil)
		return nil, NewExitError(ExitCommandError, msg)
	}

	s, err := store.Open(dbPath)
	if err != nil {
		f.Error(ErrCodeDatabase, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "opening run database", err)
	}
	return s, nil
}

func runRunsList(rootOpts *RootOptions, dbPath string, limit int, netlistPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	s, err := openRunStore(rootOpts, dbPath, formatter)
	if err != nil {
		return err
	}
	defer s.Close()

	var runs []store.Run
	if netlistPath != "" {
		runs, err = s.ListRunsForNetlist(cmd.Context(), netlistPath)
		if err == nil && limit > 0 && len(runs) > limit {
			runs = runs[:limit]
		}
	} else {
		runs, err = s.ListRuns(cmd.Context(), limit)
	}
	if err != nil {
		formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "listing runs", err)
	}

	summaries := make([]RunSummary, 0, len(runs))
	for _, r := range runs {
		summaries = append(summaries, RunSummary{
			ID:           r.ID,
			CreatedAt:    r.CreatedAt.UTC().Format(time.RFC3339),
			NetlistPath:  r.NetlistPath,
			TopModule:    r.TopModule,
			SuccessCount: r.SuccessCount,
		})
	}

	if formatter.Format == "json" {
		return formatter.Success(summaries)
	}
	if len(summaries) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded")
		return nil
	}
	for _, s := range summaries {
		fmt.Fprintf(formatter.Writer, "%s  %s  success=%d  %s\n",
			s.ID, s.CreatedAt, s.SuccessCount, s.NetlistPath)
	}
	return nil
}

func runRunsShow(rootOpts *RootOptions, dbPath, id string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	s, err := openRunStore(rootOpts, dbPath, formatter)
	if err != nil {
		return err
	}
	defer s.Close()

	run, err := s.GetRun(cmd.Context(), id)
	if errors.Is(err, store.ErrRunNotFound) {
		formatter.Error(ErrCodeDatabase, fmt.Sprintf("run %s not found", id), nil)
		return NewExitError(ExitCommandError, "run not found")
	}
	if err != nil {
		formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "fetching run", err)
	}

	if formatter.Format == "json" {
		return json.NewEncoder(formatter.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   json.RawMessage(run.Document),
		})
	}
	fmt.Fprintf(formatter.Writer, "%s\n", run.Document)
	return nil
}
