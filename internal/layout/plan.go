package layout

import (
	"fmt"

	"github.com/roach88/nodegen/internal/ir"
)

// Host-side variable names used by generated code.
const (
	NodeVar    = "node"
	StorageVar = "data"
)

// Strategy is the storage decision for a node.
type Strategy uint8

const (
	StrategyInline Strategy = iota + 1
	StrategyStruct
)

func (s Strategy) String() string {
	switch s {
	case StrategyInline:
		return "inline"
	case StrategyStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// Field is one member of a dedicated struct.
type Field struct {
	Property ir.Property
	Name     string // C identifier
	Offset   int    // byte offset after the texture base, if any
	Size     int
}

// Layout is the complete storage plan of one node.
type Layout struct {
	Strategy Strategy

	// Inline strategy
	Slots *SlotAssignment

	// Struct strategy
	StructName  string
	TextureBase bool // struct embeds the texture mapping base first
	Fields      []Field
	Padding     int
	Size        int // bytes of Fields plus Padding
}

// Plan decides the storage strategy for s and lays out its properties.
func Plan(s *ir.NodeSchema) (*Layout, error) {
	if !DecideStorage(s.Properties, s.Category) {
		slots, err := AssignInlineSlots(s.Properties)
		if err != nil {
			return nil, err
		}
		return &Layout{Strategy: StrategyInline, Slots: slots}, nil
	}

	l := &Layout{
		Strategy:    StrategyStruct,
		StructName:  ir.StructName(s),
		TextureBase: s.Category == ir.CategoryTexture,
		Fields:      make([]Field, 0, len(s.Properties)),
	}
	offset := 0
	for _, p := range s.Properties {
		size := FieldBytes(p)
		l.Fields = append(l.Fields, Field{
			Property: p,
			Name:     ir.Identifier(p.PropertyName()),
			Offset:   offset,
			Size:     size,
		})
		offset += size
	}
	l.Padding = ComputeStructPadding(s.Properties)
	l.Size = offset + l.Padding
	return l, nil
}

// Fetch returns the statement that obtains the struct pointer from the node,
// or "" for inline layouts which read the node record directly.
func (l *Layout) Fetch() string {
	if l.Strategy != StrategyStruct {
		return ""
	}
	return fmt.Sprintf("%[1]s *%[2]s = (%[1]s *)%[3]s->storage;", l.StructName, StorageVar, NodeVar)
}

// Read returns the C expression reading a property's stored value.
// Bit-packed booleans read as a single-bit test.
func (l *Layout) Read(property string) (string, error) {
	switch l.Strategy {
	case StrategyInline:
		slot, ok := l.Slots.Lookup(property)
		if !ok {
			return "", fmt.Errorf("layout: property %q has no inline slot", property)
		}
		return slot.Read(NodeVar), nil
	case StrategyStruct:
		for _, f := range l.Fields {
			if f.Property.PropertyName() == property {
				return fmt.Sprintf("%s->%s", StorageVar, f.Name), nil
			}
		}
		return "", fmt.Errorf("layout: property %q is not a struct field", property)
	default:
		return "", fmt.Errorf("layout: unknown strategy %d", l.Strategy)
	}
}
