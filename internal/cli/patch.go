package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/nodegen/internal/patch"
)

// PatchOptions holds flags for the patch command.
type PatchOptions struct {
	*RootOptions
	EmitFlags
	Manifest string
	DryRun   bool
}

// PatchResult lists the edits applied for one node.
type PatchResult struct {
	Node    string         `json:"node"`
	DryRun  bool           `json:"dry_run,omitempty"`
	Changes []patch.Change `json:"changes"`
}

// NewPatchCommand creates the patch command.
func NewPatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "patch <specs> --manifest <file>",
		Short: "Splice generated fragments into a host source tree",
		Long: `Generate one node and splice its fragments into host source files at
the anchors listed in a YAML manifest.

Fragments already present at their destination are skipped, so running
the same patch twice changes nothing. No file is written unless every
edit succeeds.

Examples:
  nodegen patch ./nodes --node Dropdowns --manifest blender.yaml
  nodegen patch ./nodes/dropdowns.cue --manifest blender.yaml --dry-run`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPatch(opts, args[0], cmd)
		},
	}

	opts.EmitFlags.register(cmd)
	cmd.Flags().StringVarP(&opts.Manifest, "manifest", "m", "", "YAML manifest of fragment anchors (required)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "locate anchors without writing files")
	_ = cmd.MarkFlagRequired("manifest")

	return cmd
}

func runPatch(opts *PatchOptions, specs string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	m, err := patch.LoadManifest(opts.Manifest)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodePatch, err.Error(), nil)
	}

	results, err := generateNodes(formatter, specs, &opts.EmitFlags)
	if err != nil {
		return err
	}
	if len(results) != 1 {
		return formatter.Fail(ExitCommandError, ErrCodeNodeNotFound,
			fmt.Sprintf("patch applies one node; specs declare %d, select one with --node", len(results)), nil)
	}
	r := results[0]

	formatter.VerboseLog("Applying %d edit(s) from %s", len(m.Edits), opts.Manifest)
	changes, err := patch.Apply(m, r.AllTexts(), patch.Options{DryRun: opts.DryRun})
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodePatch, err.Error(), nil)
	}

	result := PatchResult{Node: r.Plan.Schema.Name, DryRun: opts.DryRun, Changes: changes}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	for _, c := range changes {
		if c.Empty {
			fmt.Fprintf(w, "- %s: %s not generated for this node\n", c.File, c.Fragment)
			continue
		}
		if c.Skipped {
			fmt.Fprintf(w, "= %s: %s already present\n", c.File, c.Fragment)
			continue
		}
		fmt.Fprintf(w, "+ %s:%d: %s\n", c.File, c.Line, c.Fragment)
	}
	if opts.DryRun {
		fmt.Fprintln(w, "(dry run, no files written)")
	}
	return nil
}
