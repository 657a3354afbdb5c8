package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/nodegen/internal/emit"
	"github.com/roach88/nodegen/internal/ir"
	"github.com/roach88/nodegen/internal/store"
)

// EmitFlags select nodes and tune generated names. Shared by every
// command that generates.
type EmitFlags struct {
	Node       string // only this node; empty means all
	EnumPrefix string
	NodeType   string
}

func (f *EmitFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Node, "node", "", "generate only the named node")
	cmd.Flags().StringVar(&f.EnumPrefix, "enum-prefix", "", "prefix for enum option constants")
	cmd.Flags().StringVar(&f.NodeType, "node-type", "", "override the bytecode node type constant")
}

// Options converts the flags to generator options.
func (f *EmitFlags) Options() emit.Options {
	return emit.Options{EnumPrefix: f.EnumPrefix, NodeType: f.NodeType}
}

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	EmitFlags
	Output string // directory receiving one file per fragment
	DB     string // history database; empty disables recording
}

// NodeOutput is the generated code of one node.
type NodeOutput struct {
	Node       string          `json:"node"`
	SchemaHash string          `json:"schema_hash"`
	Storage    string          `json:"storage"`
	Fragments  []emit.Fragment `json:"fragments"`
	RunID      string          `json:"run_id,omitempty"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <specs>",
		Short: "Generate host code fragments for node schemas",
		Long: `Generate every host code fragment for the nodes declared in a CUE
file or directory.

Fragments are printed grouped by backend, or written one file per fragment
under --output. With --db each generation is recorded in a history
database; regenerating an unchanged node records nothing new.

Examples:
  nodegen generate ./nodes
  nodegen generate ./nodes --node "Brick Texture" --enum-prefix SHD_BRICK
  nodegen generate ./nodes --output ./out --db nodegen.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args[0], cmd)
		},
	}

	opts.EmitFlags.register(cmd)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write fragments under this directory")
	cmd.Flags().StringVar(&opts.DB, "db", "", "record runs in this SQLite database")

	return cmd
}

func runGenerate(opts *GenerateOptions, specs string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	results, err := generateNodes(formatter, specs, &opts.EmitFlags)
	if err != nil {
		return err
	}

	outputs := make([]NodeOutput, len(results))
	for i, r := range results {
		outputs[i] = NodeOutput{
			Node:       r.Plan.Schema.Name,
			SchemaHash: r.SchemaHash,
			Storage:    r.Plan.Layout.Strategy.String(),
			Fragments:  r.Fragments,
		}
	}

	if opts.DB != "" {
		if err := recordRuns(cmd, formatter, opts, results, outputs); err != nil {
			return err
		}
	}

	if opts.Output != "" {
		for _, out := range outputs {
			if err := writeFragments(opts.Output, out); err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("writing fragments: %v", err), nil)
			}
			formatter.VerboseLog("Wrote %d fragment(s) for %s", len(out.Fragments), out.Node)
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(outputs)
	}

	w := formatter.Writer
	for _, out := range outputs {
		if opts.Output != "" {
			fmt.Fprintf(w, "✓ %s: %d fragment(s) written to %s\n", out.Node, len(out.Fragments), filepath.Join(opts.Output, ir.Identifier(out.Node)))
			continue
		}
		fmt.Fprintf(w, "== %s ==\n", out.Node)
		for _, f := range out.Fragments {
			fmt.Fprintf(w, "-- %s/%s --\n%s", f.Backend, f.Name, f.Text)
		}
	}
	return nil
}

// generateNodes loads specs and generates the selected nodes. Errors are
// already reported through formatter.
func generateNodes(formatter *OutputFormatter, specs string, flags *EmitFlags) ([]*emit.Result, error) {
	loadResult, loadErrors := LoadSpecs(specs, LoadModeFailFast)
	if loadResult == nil {
		return nil, failLoad(formatter, loadErrors)
	}
	if len(loadErrors) > 0 {
		ve := loadValidationError(loadErrors[0])
		return nil, formatter.Fail(ExitFailure, ve.Code, ve.Message, nil)
	}

	nodes, err := SelectNodes(loadResult.Nodes, flags.Node)
	if err != nil {
		return nil, failLoad(formatter, []error{err})
	}

	results := make([]*emit.Result, 0, len(nodes))
	for _, s := range nodes {
		formatter.VerboseLog("Generating node: %s", s.Name)
		r, err := emit.Generate(s, flags.Options())
		if err != nil {
			return nil, formatter.Fail(ExitFailure, ErrCodeGenerate, err.Error(), nil)
		}
		results = append(results, r)
	}
	return results, nil
}

// recordRuns stores every result in the history database and fills in
// the run IDs of outputs.
func recordRuns(cmd *cobra.Command, formatter *OutputFormatter, opts *GenerateOptions, results []*emit.Result, outputs []NodeOutput) error {
	st, err := store.Open(opts.DB)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("opening database: %v", err), nil)
	}
	defer st.Close()

	for i, r := range results {
		run, created, err := st.RecordRun(cmd.Context(), runFor(r, opts.Options()), storeFragments(r.Fragments))
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("recording %s: %v", r.Plan.Schema.Name, err), nil)
		}
		outputs[i].RunID = run.ID
		if created {
			formatter.VerboseLog("Recorded run %s (seq %d) for %s", run.ID, run.Seq, run.Node)
		} else {
			formatter.VerboseLog("Unchanged since run %s for %s", run.ID, run.Node)
		}
	}
	return nil
}

func runFor(r *emit.Result, opts emit.Options) store.Run {
	return store.Run{
		Node:             r.Plan.Schema.Name,
		SchemaHash:       r.SchemaHash,
		GeneratorVersion: ir.GeneratorVersion,
		Storage:          r.Plan.Layout.Strategy.String(),
		Words:            len(r.Plan.Words),
		Options: map[string]string{
			"enum_prefix": opts.EnumPrefix,
			"node_type":   opts.NodeType,
		},
	}
}

func storeFragments(frags []emit.Fragment) []store.Fragment {
	out := make([]store.Fragment, len(frags))
	for i, f := range frags {
		out[i] = store.Fragment{Name: f.Name, Backend: string(f.Backend), Text: f.Text}
	}
	return out
}

// writeFragments writes dir/<node identifier>/<fragment name>.inc.
func writeFragments(dir string, out NodeOutput) error {
	nodeDir := filepath.Join(dir, ir.Identifier(out.Node))
	if err := os.MkdirAll(nodeDir, 0755); err != nil {
		return err
	}
	for _, f := range out.Fragments {
		if err := os.WriteFile(filepath.Join(nodeDir, f.Name+".inc"), []byte(f.Text), 0644); err != nil {
			return err
		}
	}
	return nil
}
