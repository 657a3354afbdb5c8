package layout

import (
	"fmt"

	"github.com/roach88/nodegen/internal/ir"
)

// SlotClass distinguishes int-like from float-like inline slots.
type SlotClass uint8

const (
	IntSlot SlotClass = iota + 1
	FloatSlot
)

func (c SlotClass) String() string {
	switch c {
	case IntSlot:
		return "int"
	case FloatSlot:
		return "float"
	default:
		return "none"
	}
}

var (
	intSlotFields   = [IntSlots]string{"custom1", "custom2"}
	floatSlotFields = [FloatSlots]string{"custom3", "custom4"}
)

// Slot is the inline location of one property.
type Slot struct {
	Property  string
	Class     SlotClass
	Index     int    // 0-based within Class
	Field     string // record field, e.g. "custom2"
	Packed    bool   // boolean sharing Field with other booleans
	BitOffset int    // valid when Packed
}

// Read returns the C expression reading the slot from node pointer base.
// Packed booleans read as a single-bit test.
func (s Slot) Read(base string) string {
	if s.Packed {
		return fmt.Sprintf("(%s->%s >> %d) & 1", base, s.Field, s.BitOffset)
	}
	return fmt.Sprintf("%s->%s", base, s.Field)
}

// Write returns the C statement storing value into the slot.
// Packed booleans are OR-combined into the shared field.
func (s Slot) Write(base, value string) string {
	if s.Packed {
		return fmt.Sprintf("%s->%s |= %s << %d;", base, s.Field, value, s.BitOffset)
	}
	return fmt.Sprintf("%s->%s = %s;", base, s.Field, value)
}

// SlotAssignment maps properties to inline slots in declaration order.
type SlotAssignment struct {
	Slots []Slot
}

// Lookup returns the slot assigned to a property.
func (a *SlotAssignment) Lookup(property string) (Slot, bool) {
	for _, s := range a.Slots {
		if s.Property == property {
			return s, true
		}
	}
	return Slot{}, false
}

// slotCursor is the accumulator threaded through AssignInlineSlots.
type slotCursor struct {
	nextInt   int
	nextFloat int
	boolSlot  int // int slot index claimed by the first boolean, -1 if none
	nextBit   int
}

func (c slotCursor) takeInt() (slotCursor, int, bool) {
	if c.nextInt >= IntSlots {
		return c, 0, false
	}
	idx := c.nextInt
	c.nextInt++
	return c, idx, true
}

func (c slotCursor) takeBit() (slotCursor, int, int, bool) {
	if c.boolSlot < 0 {
		var idx int
		var ok bool
		if c, idx, ok = c.takeInt(); !ok {
			return c, 0, 0, false
		}
		c.boolSlot = idx
	}
	if c.nextBit >= MaxPackedBools {
		return c, 0, 0, false
	}
	bit := c.nextBit
	c.nextBit++
	return c, c.boolSlot, bit, true
}

func (c slotCursor) takeFloat() (slotCursor, int, bool) {
	if c.nextFloat >= FloatSlots {
		return c, 0, false
	}
	idx := c.nextFloat
	c.nextFloat++
	return c, idx, true
}

// AssignInlineSlots places each property into an inline slot, walking in
// declaration order. Enums and ints take the next int-like slot; the first
// boolean claims an int-like slot that later booleans share bit by bit;
// floats take the next float-like slot.
//
// Callers are expected to have checked DecideStorage first. A property
// list that does not fit is reported as *OverflowError.
func AssignInlineSlots(props []ir.Property) (*SlotAssignment, error) {
	cur := slotCursor{boolSlot: -1}
	out := &SlotAssignment{Slots: make([]Slot, 0, len(props))}

	for _, p := range props {
		name := p.PropertyName()
		var (
			slot Slot
			ok   bool
			idx  int
		)

		switch p.(type) {
		case ir.EnumProperty, ir.IntProperty:
			if cur, idx, ok = cur.takeInt(); ok {
				slot = Slot{Class: IntSlot, Index: idx, Field: intSlotFields[idx]}
			} else {
				return nil, &OverflowError{Property: name, Class: IntSlot, Capacity: IntSlots}
			}
		case ir.BoolProperty:
			capacity := IntSlots
			if cur.boolSlot >= 0 {
				capacity = MaxPackedBools
			}
			var bit int
			if cur, idx, bit, ok = cur.takeBit(); ok {
				slot = Slot{Class: IntSlot, Index: idx, Field: intSlotFields[idx], Packed: true, BitOffset: bit}
			} else {
				return nil, &OverflowError{Property: name, Class: IntSlot, Capacity: capacity}
			}
		case ir.FloatProperty:
			if cur, idx, ok = cur.takeFloat(); ok {
				slot = Slot{Class: FloatSlot, Index: idx, Field: floatSlotFields[idx]}
			} else {
				return nil, &OverflowError{Property: name, Class: FloatSlot, Capacity: FloatSlots}
			}
		case ir.VectorProperty, ir.ColorProperty:
			return nil, &OverflowError{Property: name, Class: FloatSlot, Capacity: FloatSlots}
		case ir.StringProperty:
			return nil, &OverflowError{Property: name, Capacity: 0}
		}

		slot.Property = name
		out.Slots = append(out.Slots, slot)
	}

	return out, nil
}
