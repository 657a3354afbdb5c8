package packing

import (
	"fmt"

	"github.com/roach88/nodegen/internal/ir"
)

// ItemKind classifies a packable value by the storage it needs.
type ItemKind uint8

const (
	ItemByte        ItemKind = iota + 1 // enum ordinal, int or boolean
	ItemFloat                           // float property, full precision
	ItemStackOffset                     // socket stack offset, full precision
)

func (k ItemKind) String() string {
	switch k {
	case ItemByte:
		return "byte"
	case ItemFloat:
		return "float"
	case ItemStackOffset:
		return "stack_offset"
	default:
		return "unknown"
	}
}

// Item is one value carried in the instruction header.
type Item struct {
	Name   string // C identifier in generated code
	Source string // declared property or socket name
	Kind   ItemKind
}

// FullWord reports whether the item must occupy a word alone.
func (i Item) FullWord() bool {
	return i.Kind != ItemByte
}

// Expr returns the compile-side expression encoding the item.
func (i Item) Expr() string {
	if i.Kind == ItemFloat {
		return fmt.Sprintf("__float_as_int(%s)", i.Name)
	}
	return i.Name
}

// PropertyItem returns the packable item for p. String, vector and color
// properties never travel in the header and report ok=false.
func PropertyItem(p ir.Property) (item Item, ok bool) {
	name := p.PropertyName()
	switch p.(type) {
	case ir.EnumProperty, ir.IntProperty, ir.BoolProperty:
		return Item{Name: ir.Identifier(name), Source: name, Kind: ItemByte}, true
	case ir.FloatProperty:
		return Item{Name: ir.Identifier(name), Source: name, Kind: ItemFloat}, true
	default:
		return Item{}, false
	}
}

// SocketItem returns the stack offset item for a socket.
func SocketItem(s ir.Socket) Item {
	return Item{Name: StackOffset(s), Source: s.Name, Kind: ItemStackOffset}
}

// StackOffset returns the identifier holding a socket's stack offset.
func StackOffset(s ir.Socket) string {
	return s.Identifier() + "_stack_offset"
}

// Items lists the packable items of a schema: properties in declaration
// order, then one stack offset per socket in declaration order.
func Items(s *ir.NodeSchema) []Item {
	items := make([]Item, 0, len(s.Properties)+len(s.Sockets))
	for _, p := range s.Properties {
		if item, ok := PropertyItem(p); ok {
			items = append(items, item)
		}
	}
	for _, sock := range s.Sockets {
		items = append(items, SocketItem(sock))
	}
	return items
}

// ByteMax is the largest value a byte item carries unchanged.
const ByteMax = 255

// WrappedInts returns the int properties whose declared range leaves
// 0..ByteMax. They still travel as one byte item, so out-of-range values
// wrap modulo 256 in the kernel.
func WrappedInts(s *ir.NodeSchema) []ir.IntProperty {
	var out []ir.IntProperty
	for _, p := range s.Properties {
		if ip, ok := p.(ir.IntProperty); ok && (ip.Min < 0 || ip.Max > ByteMax) {
			out = append(out, ip)
		}
	}
	return out
}
