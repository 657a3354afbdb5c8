package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/nodegen/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DB        string
	Node      string
	Storage   string
	Since     int64
	Fragments bool // include fragment text of the latest run
}

// HistoryResult is the recorded generation history.
type HistoryResult struct {
	Runs      []store.Run      `json:"runs"`
	Fragments []store.Fragment `json:"fragments,omitempty"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history --db <file>",
		Short: "List recorded generation runs",
		Long: `List the generation runs recorded by 'generate --db', oldest first.

--storage and --since narrow the list. With --fragments and --node, also
print the fragments of that node's latest run.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "SQLite history database (required)")
	cmd.Flags().StringVar(&opts.Node, "node", "", "only runs of this node")
	cmd.Flags().StringVar(&opts.Storage, "storage", "", "only runs with this storage (inline or struct)")
	cmd.Flags().Int64Var(&opts.Since, "since", 0, "only runs with at least this sequence number")
	cmd.Flags().BoolVar(&opts.Fragments, "fragments", false, "print the latest run's fragments (needs --node)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	// Opening creates the file; history never should.
	if _, err := os.Stat(opts.DB); os.IsNotExist(err) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.DB), nil)
	}
	if opts.Storage != "" && opts.Storage != "inline" && opts.Storage != "struct" {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("invalid storage %q: must be inline or struct", opts.Storage), nil)
	}
	if opts.Fragments && opts.Node == "" {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "--fragments needs --node", nil)
	}

	st, err := store.Open(opts.DB)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("opening database: %v", err), nil)
	}
	defer st.Close()

	ctx := cmd.Context()
	runs, err := st.ListRuns(ctx, store.RunFilter{Node: opts.Node, Storage: opts.Storage, SinceSeq: opts.Since})
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}
	result := HistoryResult{Runs: runs}

	if opts.Fragments {
		latest, ok, err := st.LatestRun(ctx, opts.Node)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
		if ok {
			if result.Fragments, err = st.RunFragments(ctx, latest.ID); err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
			}
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(w, "%4d  %s  %-20s %-6s %d word(s)  schema %s\n", r.Seq, r.ID, r.Node, r.Storage, r.Words, shortHash(r.SchemaHash))
	}
	for _, f := range result.Fragments {
		fmt.Fprintf(w, "-- %s/%s --\n%s", f.Backend, f.Name, f.Text)
	}
	return nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
