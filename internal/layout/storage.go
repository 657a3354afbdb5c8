package layout

import "github.com/roach88/nodegen/internal/ir"

// Inline slot capacity of the generic node record.
const (
	IntSlots       = 2
	FloatSlots     = 2
	MaxPackedBools = 16 // bits in one int-like slot
)

// DecideStorage reports whether props need a dedicated struct instead of
// the generic record's inline slots.
//
// Struct storage is required when:
//   - the node is a texture (textures embed a mapping sub-structure)
//   - any property is a string
//   - more than 2 floats, 2 enums, 2 ints or 16 booleans are declared
//   - enums and ints together need more than the 2 int-like slots
//   - enums and ints use both int-like slots and a boolean needs one too
//
// Vector and color properties count as 3 and 4 floats.
func DecideStorage(props []ir.Property, cat ir.Category) bool {
	if cat == ir.CategoryTexture {
		return true
	}

	c := ir.CountKinds(props)
	switch {
	case c.String > 0:
		return true
	case c.Float > FloatSlots, c.Enum > IntSlots, c.Int > IntSlots, c.Bool > MaxPackedBools:
		return true
	case c.IntLike() > IntSlots:
		return true
	case c.IntLike() == IntSlots && c.Bool > 0:
		return true
	}
	return false
}
