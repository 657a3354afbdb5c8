package layout

import "github.com/roach88/nodegen/internal/ir"

// StructAlign is the alignment every generated struct must satisfy.
const StructAlign = 8

// FieldBytes returns the bytes a property occupies in a dedicated struct.
// Scalars are 4 bytes, vectors and colors 4 per component, and strings
// reserve two bytes per declared byte.
func FieldBytes(p ir.Property) int {
	switch p := p.(type) {
	case ir.StringProperty:
		return 2 * p.ByteSize
	case ir.VectorProperty, ir.ColorProperty:
		return 4 * ir.FloatComponents(p)
	default:
		return 4
	}
}

// StructByteTotal sums FieldBytes over props.
func StructByteTotal(props []ir.Property) int {
	total := 0
	for _, p := range props {
		total += FieldBytes(p)
	}
	return total
}

// ComputeStructPadding returns the trailing pad bytes that bring the struct
// to an 8-byte boundary. The result is always in [0, 8).
func ComputeStructPadding(props []ir.Property) int {
	total := StructByteTotal(props)
	return AlignTo(total, StructAlign) - total
}

// AlignTo rounds offset up to the next multiple of align (a power of two).
func AlignTo(offset, align int) int {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}
