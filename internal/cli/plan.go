package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/nodegen/internal/emit"
	"github.com/roach88/nodegen/internal/layout"
	"github.com/roach88/nodegen/internal/packing"
)

// PlanOptions holds flags for the plan command.
type PlanOptions struct {
	*RootOptions
	EmitFlags
}

// NodePlan describes the decisions made for one node.
type NodePlan struct {
	Node       string      `json:"node"`
	Storage    string      `json:"storage"`
	StructName string      `json:"struct_name,omitempty"`
	Padding    int         `json:"padding,omitempty"`
	Size       int         `json:"size,omitempty"`
	Fields     []PlanField `json:"fields,omitempty"`
	Slots      []PlanSlot  `json:"slots,omitempty"`
	Words      []string    `json:"words"`
	Guards     []PlanGuard `json:"guards,omitempty"`
	Warnings   []string    `json:"warnings,omitempty"`
}

// PlanField is one struct member.
type PlanField struct {
	Name   string `json:"name"`
	Offset int    `json:"offset"`
	Size   int    `json:"size"`
}

// PlanSlot is one inline property location.
type PlanSlot struct {
	Property string `json:"property"`
	Read     string `json:"read"`
}

// PlanGuard is the availability condition of one output socket.
type PlanGuard struct {
	Socket string `json:"socket"`
	Guard  string `json:"guard"`
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plan <specs>",
		Short: "Show storage, header and availability decisions",
		Long: `Show what the generator decided for each node without printing code:
where every property is stored, how the bytecode header is packed and
which guard controls each output socket.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(opts, args[0], cmd)
		},
	}

	opts.EmitFlags.register(cmd)

	return cmd
}

func runPlan(opts *PlanOptions, specs string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	results, err := generateNodes(formatter, specs, &opts.EmitFlags)
	if err != nil {
		return err
	}

	plans := make([]NodePlan, len(results))
	for i, r := range results {
		plans[i] = describePlan(r.Plan)
	}

	if formatter.Format == "json" {
		return formatter.Success(plans)
	}
	for _, p := range plans {
		writePlanText(formatter.Writer, p)
	}
	return nil
}

func describePlan(p *emit.Plan) NodePlan {
	l := p.Layout
	out := NodePlan{
		Node:     p.Schema.Name,
		Storage:  l.Strategy.String(),
		Words:    packing.Encode(p.Words),
		Warnings: p.Warnings,
	}

	if l.Slots != nil {
		for _, s := range l.Slots.Slots {
			out.Slots = append(out.Slots, PlanSlot{Property: s.Property, Read: s.Read(layout.NodeVar)})
		}
	} else {
		out.StructName = l.StructName
		out.Padding = l.Padding
		out.Size = l.Size
		for _, f := range l.Fields {
			out.Fields = append(out.Fields, PlanField{Name: f.Name, Offset: f.Offset, Size: f.Size})
		}
	}

	for i, dep := range p.Schema.Dependencies {
		out.Guards = append(out.Guards, PlanGuard{Socket: dep.Socket, Guard: p.Guards[i].Render(p.Literals())})
	}
	return out
}

func writePlanText(w io.Writer, p NodePlan) {
	fmt.Fprintf(w, "%s\n", p.Node)
	fmt.Fprintf(w, "  storage: %s\n", p.Storage)
	if p.StructName != "" {
		fmt.Fprintf(w, "  struct:  %s (%d bytes, %d padding)\n", p.StructName, p.Size, p.Padding)
		for _, f := range p.Fields {
			fmt.Fprintf(w, "    +%-3d %-16s %d\n", f.Offset, f.Name, f.Size)
		}
	}
	for _, s := range p.Slots {
		fmt.Fprintf(w, "    %-16s %s\n", s.Property, s.Read)
	}
	fmt.Fprintf(w, "  header:\n")
	for i, word := range p.Words {
		fmt.Fprintf(w, "    %d: %s\n", i, word)
	}
	for _, g := range p.Guards {
		fmt.Fprintf(w, "  %s available when %s\n", g.Socket, g.Guard)
	}
	for _, warning := range p.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", warning)
	}
}
