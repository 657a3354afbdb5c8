package compiler

import (
	"fmt"
	"math"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/nodegen/internal/ir"
)

// CompileNodes compiles every declaration under the top-level "node"
// struct of v, in declaration order.
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`node: Mix: { ... }`)
//	schemas, err := CompileNodes(v)
func CompileNodes(v cue.Value) ([]*ir.NodeSchema, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	nodesVal := v.LookupPath(cue.ParsePath("node"))
	if !nodesVal.Exists() {
		return nil, nil
	}

	iter, err := nodesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var schemas []*ir.NodeSchema
	for iter.Next() {
		s, err := CompileNode(iter.Value())
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, s)
	}
	return schemas, nil
}

// CompileNode parses a CUE value into a NodeSchema.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the node struct itself, e.g.
// v.LookupPath(cue.ParsePath("node.Mix")). The node is named after its
// label unless it sets an explicit display name.
func CompileNode(v cue.Value) (*ir.NodeSchema, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	s := &ir.NodeSchema{}

	labels := v.Path().Selectors()
	if len(labels) > 0 {
		s.Name = labelName(labels[len(labels)-1])
	}
	if nameVal, ok := lookup(v, "name"); ok {
		name, err := nameVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		s.Name = name
	}

	if catVal, ok := lookup(v, "category"); ok {
		name, err := catVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		cat, ok := ir.ParseCategory(name)
		if !ok {
			return nil, &CompileError{
				Field:   "category",
				Message: fmt.Sprintf("unknown category %q, must be \"plain\" or \"texture\"", name),
				Pos:     catVal.Pos(),
			}
		}
		s.Category = cat
	}

	var err error
	if s.Properties, err = parseProperties(v); err != nil {
		return nil, err
	}
	if s.Sockets, err = parseSockets(v); err != nil {
		return nil, err
	}
	if s.Dependencies, err = parseAvailability(v, s); err != nil {
		return nil, err
	}

	return s, nil
}

func parseProperties(v cue.Value) ([]ir.Property, error) {
	listVal, ok := lookup(v, "properties")
	if !ok {
		return nil, nil
	}
	iter, err := listVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var props []ir.Property
	for i := 0; iter.Next(); i++ {
		p, err := parseProperty(iter.Value(), fmt.Sprintf("properties[%d]", i))
		if err != nil {
			return nil, err
		}
		props = append(props, p)
	}
	return props, nil
}

func parseProperty(v cue.Value, field string) (ir.Property, error) {
	name, err := requiredString(v, "name", field)
	if err != nil {
		return nil, err
	}
	typeName, err := requiredString(v, "type", field)
	if err != nil {
		return nil, err
	}
	kind, ok := ir.ParseKind(typeName)
	if !ok {
		return nil, &CompileError{
			Field:   field + ".type",
			Message: fmt.Sprintf("unknown property type %q", typeName),
			Pos:     v.Pos(),
		}
	}

	switch kind {
	case ir.KindEnum:
		p := ir.EnumProperty{Name: name}
		if p.Options, err = stringList(v, "options", field); err != nil {
			return nil, err
		}
		if p.Default, err = optionalString(v, "default"); err != nil {
			return nil, err
		}
		if p.Default == "" && len(p.Options) > 0 {
			p.Default = p.Options[0]
		}
		return p, nil

	case ir.KindBool:
		p := ir.BoolProperty{Name: name}
		if d, ok := lookup(v, "default"); ok {
			if p.Default, err = d.Bool(); err != nil {
				return nil, formatCUEError(err)
			}
		}
		return p, nil

	case ir.KindInt:
		p := ir.IntProperty{Name: name, Min: 0, Max: math.MaxUint8}
		for key, dst := range map[string]*int64{"min": &p.Min, "max": &p.Max, "default": &p.Default} {
			if val, ok := lookup(v, key); ok {
				if *dst, err = val.Int64(); err != nil {
					return nil, formatCUEError(err)
				}
			}
		}
		if _, ok := lookup(v, "default"); !ok && p.Min <= p.Max {
			p.Default = min(max(0, p.Min), p.Max)
		}
		return p, nil

	case ir.KindFloat:
		p := ir.FloatProperty{Name: name, Min: -math.MaxFloat32, Max: math.MaxFloat32}
		for key, dst := range map[string]*float64{"min": &p.Min, "max": &p.Max, "default": &p.Default} {
			if val, ok := lookup(v, key); ok {
				if *dst, err = val.Float64(); err != nil {
					return nil, formatCUEError(err)
				}
			}
		}
		if _, ok := lookup(v, "default"); !ok && p.Min <= p.Max {
			p.Default = min(max(0, p.Min), p.Max)
		}
		return p, nil

	case ir.KindString:
		p := ir.StringProperty{Name: name}
		sizeVal, ok := lookup(v, "size")
		if !ok {
			return nil, &CompileError{Field: field + ".size", Message: "string properties require a byte size", Pos: v.Pos()}
		}
		size, err := sizeVal.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		p.ByteSize = int(size)
		if p.Default, err = optionalString(v, "default"); err != nil {
			return nil, err
		}
		return p, nil

	case ir.KindVector:
		p := ir.VectorProperty{Name: name}
		if err := fixedFloats(v, field, p.Default[:]); err != nil {
			return nil, err
		}
		return p, nil

	case ir.KindColor:
		p := ir.ColorProperty{Name: name, Default: [4]float64{0, 0, 0, 1}}
		if err := fixedFloats(v, field, p.Default[:]); err != nil {
			return nil, err
		}
		return p, nil
	}

	return nil, &CompileError{Field: field + ".type", Message: fmt.Sprintf("unsupported property type %q", typeName), Pos: v.Pos()}
}

func parseSockets(v cue.Value) ([]ir.Socket, error) {
	listVal, ok := lookup(v, "sockets")
	if !ok {
		return nil, nil
	}
	iter, err := listVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var sockets []ir.Socket
	for i := 0; iter.Next(); i++ {
		sv := iter.Value()
		field := fmt.Sprintf("sockets[%d]", i)

		name, err := requiredString(sv, "name", field)
		if err != nil {
			return nil, err
		}
		dirName, err := requiredString(sv, "direction", field)
		if err != nil {
			return nil, err
		}
		typeName, err := requiredString(sv, "type", field)
		if err != nil {
			return nil, err
		}

		sock := ir.Socket{Name: name}
		switch dirName {
		case "in", "input":
			sock.Direction = ir.DirIn
		case "out", "output":
			sock.Direction = ir.DirOut
		default:
			return nil, &CompileError{
				Field:   field + ".direction",
				Message: fmt.Sprintf("unknown direction %q, must be \"in\" or \"out\"", dirName),
				Pos:     sv.Pos(),
			}
		}
		kind, ok := ir.ParseKind(typeName)
		if !ok {
			return nil, &CompileError{Field: field + ".type", Message: fmt.Sprintf("unknown socket type %q", typeName), Pos: sv.Pos()}
		}
		sock.Kind = kind

		if d, ok := lookup(sv, "default"); ok {
			vals, err := floatValues(d)
			if err != nil {
				return nil, err
			}
			sock.Default = &ir.SocketDefault{Value: vals}
		}
		sockets = append(sockets, sock)
	}
	return sockets, nil
}

// parseAvailability reads socket -> property -> value -> bool tables.
// Values left out are available, so each mentioned property expands to
// one row per value of its domain. Values outside the domain are kept as
// rows so validation can report them.
func parseAvailability(v cue.Value, s *ir.NodeSchema) ([]ir.Dependency, error) {
	tableVal, ok := lookup(v, "availability")
	if !ok {
		return nil, nil
	}
	sockIter, err := tableVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var deps []ir.Dependency
	for sockIter.Next() {
		dep := ir.Dependency{Socket: labelName(sockIter.Selector())}

		propIter, err := sockIter.Value().Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for propIter.Next() {
			propName := labelName(propIter.Selector())

			listed := make(map[string]bool)
			var order []string
			valIter, err := propIter.Value().Fields()
			if err != nil {
				return nil, formatCUEError(err)
			}
			for valIter.Next() {
				avail, err := valIter.Value().Bool()
				if err != nil {
					return nil, formatCUEError(err)
				}
				value := labelName(valIter.Selector())
				listed[value] = avail
				order = append(order, value)
			}

			dep.Rows = append(dep.Rows, expandRows(s, propName, listed, order)...)
		}
		deps = append(deps, dep)
	}
	return deps, nil
}

func expandRows(s *ir.NodeSchema, propName string, listed map[string]bool, order []string) []ir.AvailabilityRow {
	var rows []ir.AvailabilityRow
	inDomain := make(map[string]bool)
	if p, _, ok := s.Property(propName); ok {
		domain, _ := ir.Domain(p)
		for _, value := range domain {
			avail, ok := listed[value]
			if !ok {
				avail = true
			}
			rows = append(rows, ir.AvailabilityRow{Property: propName, Value: value, Available: avail})
			inDomain[value] = true
		}
	}
	for _, value := range order {
		if !inDomain[value] {
			rows = append(rows, ir.AvailabilityRow{Property: propName, Value: value, Available: listed[value]})
		}
	}
	return rows
}

func lookup(v cue.Value, key string) (cue.Value, bool) {
	val := v.LookupPath(cue.ParsePath(key))
	return val, val.Exists()
}

func requiredString(v cue.Value, key, field string) (string, error) {
	val, ok := lookup(v, key)
	if !ok {
		return "", &CompileError{Field: field + "." + key, Message: key + " is required", Pos: v.Pos()}
	}
	str, err := val.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return str, nil
}

func optionalString(v cue.Value, key string) (string, error) {
	val, ok := lookup(v, key)
	if !ok {
		return "", nil
	}
	str, err := val.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return str, nil
}

func stringList(v cue.Value, key, field string) ([]string, error) {
	val, ok := lookup(v, key)
	if !ok {
		return nil, &CompileError{Field: field + "." + key, Message: key + " is required", Pos: v.Pos()}
	}
	iter, err := val.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for iter.Next() {
		str, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, str)
	}
	return out, nil
}

// floatValues accepts a single number or a list of numbers.
func floatValues(v cue.Value) ([]float64, error) {
	if v.IncompleteKind() != cue.ListKind {
		f, err := v.Float64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return []float64{f}, nil
	}

	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []float64
	for iter.Next() {
		f, err := iter.Value().Float64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, f)
	}
	return out, nil
}

// fixedFloats fills dst from an optional default list of exactly len(dst) numbers.
func fixedFloats(v cue.Value, field string, dst []float64) error {
	d, ok := lookup(v, "default")
	if !ok {
		return nil
	}
	vals, err := floatValues(d)
	if err != nil {
		return err
	}
	if len(vals) != len(dst) {
		return &CompileError{
			Field:   field + ".default",
			Message: fmt.Sprintf("default needs %d components, got %d", len(dst), len(vals)),
			Pos:     d.Pos(),
		}
	}
	copy(dst, vals)
	return nil
}

func labelName(sel cue.Selector) string {
	if sel.LabelType() == cue.StringLabel {
		return sel.Unquoted()
	}
	return sel.String()
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
