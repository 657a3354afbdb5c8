package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nodegen/internal/ir"
)

func TestAssignInlineSlotsSharedBooleans(t *testing.T) {
	props := []ir.Property{
		ir.EnumProperty{Name: "dropdown1", Options: []string{"prop1", "prop2"}},
		ir.BoolProperty{Name: "box1"},
		ir.BoolProperty{Name: "box2", Default: true},
		ir.FloatProperty{Name: "float1"},
	}
	require.False(t, DecideStorage(props, ir.CategoryPlain))

	a, err := AssignInlineSlots(props)
	require.NoError(t, err)
	require.Len(t, a.Slots, 4)

	assert.Equal(t, Slot{Property: "dropdown1", Class: IntSlot, Index: 0, Field: "custom1"}, a.Slots[0])
	assert.Equal(t, Slot{Property: "box1", Class: IntSlot, Index: 1, Field: "custom2", Packed: true, BitOffset: 0}, a.Slots[1])
	assert.Equal(t, Slot{Property: "box2", Class: IntSlot, Index: 1, Field: "custom2", Packed: true, BitOffset: 1}, a.Slots[2])
	assert.Equal(t, Slot{Property: "float1", Class: FloatSlot, Index: 0, Field: "custom3"}, a.Slots[3])
}

func TestAssignInlineSlotsDeclarationOrder(t *testing.T) {
	props := []ir.Property{
		ir.BoolProperty{Name: "first"},
		ir.IntProperty{Name: "count"},
		ir.FloatProperty{Name: "a"},
		ir.FloatProperty{Name: "b"},
	}

	a, err := AssignInlineSlots(props)
	require.NoError(t, err)

	first, _ := a.Lookup("first")
	count, _ := a.Lookup("count")
	assert.Equal(t, "custom1", first.Field, "first boolean claims the first free int slot")
	assert.Equal(t, "custom2", count.Field)

	b, ok := a.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, "custom4", b.Field)

	_, ok = a.Lookup("missing")
	assert.False(t, ok)
}

func TestAssignInlineSlotsIsReentrant(t *testing.T) {
	props := []ir.Property{ir.BoolProperty{Name: "a"}, ir.BoolProperty{Name: "b"}}

	first, err := AssignInlineSlots(props)
	require.NoError(t, err)
	second, err := AssignInlineSlots(props)
	require.NoError(t, err)

	assert.Equal(t, first, second, "no state may leak between calls")
	assert.Equal(t, 0, second.Slots[0].BitOffset)
}

func TestAssignInlineSlotsSixteenBits(t *testing.T) {
	a, err := AssignInlineSlots(scalarProps(0, 16, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 15, a.Slots[15].BitOffset)

	_, err = AssignInlineSlots(scalarProps(0, 17, 0, 0))
	var oe *OverflowError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, "box16", oe.Property)
	assert.Equal(t, MaxPackedBools, oe.Capacity)
}

func TestAssignInlineSlotsOverflow(t *testing.T) {
	tests := []struct {
		name     string
		props    []ir.Property
		property string
		class    SlotClass
	}{
		{"third float", scalarProps(0, 0, 0, 3), "float2", FloatSlot},
		{"third enum", scalarProps(3, 0, 0, 0), "mode2", IntSlot},
		{"bool after two ints", []ir.Property{ir.IntProperty{Name: "a"}, ir.IntProperty{Name: "b"}, ir.BoolProperty{Name: "c"}}, "c", IntSlot},
		{"vector", []ir.Property{ir.VectorProperty{Name: "v"}}, "v", FloatSlot},
		{"string", []ir.Property{ir.StringProperty{Name: "s", ByteSize: 4}}, "s", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := AssignInlineSlots(tt.props)
			assert.Nil(t, a)

			var oe *OverflowError
			require.ErrorAs(t, err, &oe)
			assert.Equal(t, tt.property, oe.Property)
			assert.Equal(t, tt.class, oe.Class)
			assert.Contains(t, err.Error(), "inline overflow")
		})
	}
}

func TestSlotReadWrite(t *testing.T) {
	plain := Slot{Field: "custom1"}
	assert.Equal(t, "node->custom1", plain.Read("node"))
	assert.Equal(t, "node->custom1 = 2;", plain.Write("node", "2"))

	bit := Slot{Field: "custom2", Packed: true, BitOffset: 3}
	assert.Equal(t, "(node->custom2 >> 3) & 1", bit.Read("node"))
	assert.Equal(t, "node->custom2 |= 1 << 3;", bit.Write("node", "1"))
}
