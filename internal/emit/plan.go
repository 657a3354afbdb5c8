package emit

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/nodegen/internal/availability"
	"github.com/roach88/nodegen/internal/ir"
	"github.com/roach88/nodegen/internal/layout"
	"github.com/roach88/nodegen/internal/packing"
)

// Options tune naming in generated code.
type Options struct {
	// EnumPrefix is prepended to enum option constants. Empty means bare
	// option names (PROP1).
	EnumPrefix string

	// NodeType overrides the bytecode node type constant. Empty derives
	// NODE_<IDENTIFIER> from the node name.
	NodeType string
}

// Plan is everything the backend emitters need, decided once per node.
type Plan struct {
	Schema  *ir.NodeSchema
	Options Options
	Layout  *layout.Layout
	Words   []packing.Word
	Guards  []*availability.Guard // one per dependency, in declaration order

	// Warnings describe lossy but valid encodings, such as int properties
	// whose range does not fit the byte they travel in.
	Warnings []string
}

// NewPlan validates s and runs the storage, packing and availability stages.
func NewPlan(s *ir.NodeSchema, opts Options) (*Plan, error) {
	if schemaErrs := ir.Validate(s); len(schemaErrs) > 0 {
		errs := make([]error, len(schemaErrs))
		for i, e := range schemaErrs {
			errs[i] = e
		}
		return nil, fmt.Errorf("emit: node %q: %w", s.Name, errors.Join(errs...))
	}

	l, err := layout.Plan(s)
	if err != nil {
		return nil, fmt.Errorf("emit: node %q: %w", s.Name, err)
	}

	words, err := packing.Pack(packing.Items(s))
	if err != nil {
		return nil, fmt.Errorf("emit: node %q: %w", s.Name, err)
	}

	guards := make([]*availability.Guard, 0, len(s.Dependencies))
	for _, dep := range s.Dependencies {
		g, err := availability.Reduce(s, dep)
		if err != nil {
			return nil, fmt.Errorf("emit: node %q: %w", s.Name, err)
		}
		guards = append(guards, g)
	}

	var warnings []string
	for _, p := range packing.WrappedInts(s) {
		msg := fmt.Sprintf("int %q range [%d, %d] exceeds one byte; kernel values wrap modulo 256", p.Name, p.Min, p.Max)
		warnings = append(warnings, msg)
		Logger().Warn("lossy header encoding",
			zap.String("node", s.Name),
			zap.String("property", p.Name),
			zap.Int64("min", p.Min),
			zap.Int64("max", p.Max))
	}

	Logger().Debug("planned node",
		zap.String("node", s.Name),
		zap.Stringer("storage", l.Strategy),
		zap.Int("words", len(words)),
		zap.Int("guards", len(guards)))

	return &Plan{Schema: s, Options: opts, Layout: l, Words: words, Guards: guards, Warnings: warnings}, nil
}

// NodeType returns the bytecode node type constant.
func (p *Plan) NodeType() string {
	if p.Options.NodeType != "" {
		return p.Options.NodeType
	}
	return ir.EnumConstant("NODE", p.Schema.Name)
}

// Literals renders property values the way every emitted guard does.
func (p *Plan) Literals() availability.Literals {
	return availability.Literals{EnumPrefix: p.Options.EnumPrefix}
}

// ident is the lower-case node identifier used in function names.
func (p *Plan) ident() string {
	return p.Schema.Identifier()
}

// className is the host-side node class ("BrickTextureNode").
func (p *Plan) className() string {
	return ir.PascalName(p.Schema.Name) + "Node"
}
