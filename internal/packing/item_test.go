package packing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/nodegen/internal/ir"
)

func TestPropertyItem(t *testing.T) {
	tests := []struct {
		prop ir.Property
		kind ItemKind
		ok   bool
	}{
		{ir.EnumProperty{Name: "Mode"}, ItemByte, true},
		{ir.IntProperty{Name: "count"}, ItemByte, true},
		{ir.BoolProperty{Name: "clamp"}, ItemByte, true},
		{ir.FloatProperty{Name: "scale"}, ItemFloat, true},
		{ir.StringProperty{Name: "path", ByteSize: 8}, 0, false},
		{ir.VectorProperty{Name: "v"}, 0, false},
		{ir.ColorProperty{Name: "c"}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.prop.PropertyName(), func(t *testing.T) {
			item, ok := PropertyItem(tt.prop)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.kind, item.Kind)
		})
	}
}

func TestItemsOrder(t *testing.T) {
	s := &ir.NodeSchema{
		Properties: []ir.Property{
			ir.FloatProperty{Name: "Scale"},
			ir.StringProperty{Name: "path", ByteSize: 8},
			ir.EnumProperty{Name: "mode", Options: []string{"a"}},
		},
		Sockets: []ir.Socket{
			{Name: "Color", Direction: ir.DirOut, Kind: ir.KindColor},
			{Name: "Fac", Direction: ir.DirIn, Kind: ir.KindFloat},
		},
	}

	items := Items(s)
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	assert.Equal(t, []string{"scale", "mode", "color_stack_offset", "fac_stack_offset"}, names)
	assert.Equal(t, "Scale", items[0].Source)
	assert.Equal(t, ItemStackOffset, items[2].Kind)
}

func TestItemExpr(t *testing.T) {
	assert.Equal(t, "__float_as_int(scale)", Item{Name: "scale", Kind: ItemFloat}.Expr())
	assert.Equal(t, "fac_stack_offset", Item{Name: "fac_stack_offset", Kind: ItemStackOffset}.Expr())
	assert.Equal(t, "mode", Item{Name: "mode", Kind: ItemByte}.Expr())
	assert.True(t, Item{Kind: ItemFloat}.FullWord())
	assert.False(t, Item{Kind: ItemByte}.FullWord())
	assert.Equal(t, "stack_offset", ItemStackOffset.String())
}

func TestWrappedInts(t *testing.T) {
	s := &ir.NodeSchema{
		Properties: []ir.Property{
			ir.IntProperty{Name: "squash", Min: 1, Max: 99},
			ir.IntProperty{Name: "offset", Min: -1000, Max: 1000},
			ir.IntProperty{Name: "full", Min: 0, Max: ByteMax},
			ir.IntProperty{Name: "wide", Min: 0, Max: 256},
			ir.FloatProperty{Name: "scale", Min: -5, Max: 500},
		},
	}

	wrapped := WrappedInts(s)
	names := make([]string, len(wrapped))
	for i, p := range wrapped {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"offset", "wide"}, names)
}
