package emit

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nodegen/internal/availability"
	"github.com/roach88/nodegen/internal/ir"
	"github.com/roach88/nodegen/internal/layout"
	"github.com/roach88/nodegen/internal/packing"
)

func dropdownsNode() *ir.NodeSchema {
	return &ir.NodeSchema{
		Name: "Dropdowns",
		Properties: []ir.Property{
			ir.EnumProperty{Name: "dropdown1", Options: []string{"prop1", "prop2"}, Default: "prop1"},
			ir.BoolProperty{Name: "box1"},
		},
		Sockets: []ir.Socket{
			{Name: "Fac", Direction: ir.DirIn, Kind: ir.KindFloat, Default: &ir.SocketDefault{Value: []float64{0.5}}},
			{Name: "Color", Direction: ir.DirOut, Kind: ir.KindColor},
		},
		Dependencies: []ir.Dependency{{Socket: "Color", Rows: []ir.AvailabilityRow{
			{Property: "dropdown1", Value: "prop1", Available: true},
			{Property: "dropdown1", Value: "prop2", Available: false},
		}}},
	}
}

func brickNode() *ir.NodeSchema {
	return &ir.NodeSchema{
		Name:     "Brick Texture",
		Category: ir.CategoryTexture,
		Properties: []ir.Property{
			ir.IntProperty{Name: "squash", Min: 1, Max: 99, Default: 2},
			ir.EnumProperty{Name: "mode", Options: []string{"linear", "easing"}, Default: "linear"},
			ir.StringProperty{Name: "filepath", ByteSize: 8},
			ir.VectorProperty{Name: "scale", Default: [3]float64{1, 1, 1}},
		},
		Sockets: []ir.Socket{
			{Name: "Vector", Direction: ir.DirIn, Kind: ir.KindVector},
			{Name: "Fac", Direction: ir.DirOut, Kind: ir.KindFloat},
		},
		Dependencies: []ir.Dependency{{Socket: "Fac", Rows: []ir.AvailabilityRow{
			{Property: "mode", Value: "linear", Available: true},
			{Property: "mode", Value: "easing", Available: false},
		}}},
	}
}

// snapshot lays out every fragment under a backend/name header.
func snapshot(r *Result) []byte {
	var b strings.Builder
	for _, f := range r.Fragments {
		fmt.Fprintf(&b, "-- %s/%s --\n%s", f.Backend, f.Name, f.Text)
	}
	return []byte(b.String())
}

func TestGenerateGolden(t *testing.T) {
	tests := []struct {
		name string
		node *ir.NodeSchema
		opts Options
	}{
		{"dropdowns", dropdownsNode(), Options{}},
		{"brick_texture", brickNode(), Options{EnumPrefix: "SHD_BRICK"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Generate(tt.node, tt.opts)
			require.NoError(t, err)

			g := goldie.New(t,
				goldie.WithFixtureDir("testdata/golden"),
				goldie.WithNameSuffix(".golden"),
			)
			g.Assert(t, tt.name, snapshot(r))
		})
	}
}

func TestGenerateOmitsEmptyFragments(t *testing.T) {
	r, err := Generate(dropdownsNode(), Options{})
	require.NoError(t, err)

	_, ok := r.Fragment(FragStruct)
	assert.False(t, ok, "inline storage has no struct")
	all := r.AllTexts()
	assert.Len(t, all, len(FragmentNames))
	text, ok := all[FragStruct]
	assert.True(t, ok)
	assert.Empty(t, text)

	s := dropdownsNode()
	s.Dependencies = nil
	r, err = Generate(s, Options{})
	require.NoError(t, err)
	_, ok = r.Fragment(FragUpdate)
	assert.False(t, ok, "no availability tables means no update callback")
	_, ok = r.Fragment(FragInit)
	assert.True(t, ok)
}

func TestFragmentNamesCoverEmitters(t *testing.T) {
	r, err := Generate(brickNode(), Options{})
	require.NoError(t, err)
	for _, f := range r.Fragments {
		assert.Contains(t, FragmentNames, f.Name)
	}
}

func TestGenerateResult(t *testing.T) {
	s := dropdownsNode()
	r, err := Generate(s, Options{NodeType: "SHADER_NODE_DROPDOWNS"})
	require.NoError(t, err)

	assert.Equal(t, ir.MustSchemaHash(s), r.SchemaHash)
	assert.Equal(t, layout.StrategyInline, r.Plan.Layout.Strategy)
	assert.Len(t, r.Plan.Words, 3)
	assert.Equal(t, "SHADER_NODE_DROPDOWNS,\n", r.Texts()[FragNodeType])
	assert.Len(t, r.Texts(), len(r.Fragments))
}

func TestGenerateNoPartialOutput(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(s *ir.NodeSchema)
		check func(t *testing.T, err error)
	}{
		{
			name: "invalid schema",
			mod:  func(s *ir.NodeSchema) { s.Properties = append(s.Properties, ir.EnumProperty{Name: "empty"}) },
			check: func(t *testing.T, err error) {
				var se *ir.SchemaError
				assert.ErrorAs(t, err, &se)
			},
		},
		{
			name: "identifier clash",
			mod: func(s *ir.NodeSchema) {
				s.Properties = append(s.Properties, ir.IntProperty{Name: "fac", Max: 10})
			},
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, `duplicate identifier "fac"`)
			},
		},
		{
			name: "header overflow",
			mod: func(s *ir.NodeSchema) {
				s.Sockets = append(s.Sockets, ir.Socket{Name: "Alpha", Direction: ir.DirOut, Kind: ir.KindFloat})
			},
			check: func(t *testing.T, err error) { assert.True(t, packing.IsOverflow(err)) },
		},
		{
			name: "ambiguous availability",
			mod:  func(s *ir.NodeSchema) { s.Dependencies[0].Rows[0].Available = false },
			check: func(t *testing.T, err error) { assert.True(t, availability.IsAmbiguous(err)) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := dropdownsNode()
			tt.mod(s)
			r, err := Generate(s, Options{})
			require.Error(t, err)
			assert.Nil(t, r)
			assert.Contains(t, err.Error(), `node "Dropdowns"`)
			tt.check(t, err)
		})
	}
}

func TestPlanWarnsOnWrappedInts(t *testing.T) {
	p, err := NewPlan(brickNode(), Options{})
	require.NoError(t, err)
	assert.Empty(t, p.Warnings)

	s := brickNode()
	s.Properties[0] = ir.IntProperty{Name: "squash", Min: -1000, Max: 1000, Default: 2}
	p, err = NewPlan(s, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		`int "squash" range [-1000, 1000] exceeds one byte; kernel values wrap modulo 256`,
	}, p.Warnings)
}

func TestBytecodeCarriedFloatDefault(t *testing.T) {
	s := &ir.NodeSchema{
		Name:       "Gamma",
		Properties: []ir.Property{ir.FloatProperty{Name: "gamma", Min: 0, Max: 10, Default: 1}},
		Sockets: []ir.Socket{
			{Name: "Gamma", Direction: ir.DirIn, Kind: ir.KindFloat},
			{Name: "Result", Direction: ir.DirOut, Kind: ir.KindFloat},
		},
	}
	p, err := NewPlan(s, Options{})
	require.NoError(t, err)

	frags, err := Bytecode(p)
	require.NoError(t, err)
	compile, kernel := frags[2].Text, frags[3].Text

	assert.Contains(t, compile, "compiler.add_node(NODE_GAMMA, __float_as_int(gamma), gamma_stack_offset, result_stack_offset);\n")
	assert.NotContains(t, compile, "compiler.add_node(__float_as_int(gamma));")
	assert.Contains(t, kernel, "float gamma = __uint_as_float(node.y);\n")
	assert.Contains(t, kernel, "gamma = stack_load_float_default(stack, gamma_stack_offset, __float_as_uint(gamma));\n")
	assert.NotContains(t, kernel, "read_node")
}

func TestUpdateInlineInitWritesSlots(t *testing.T) {
	s := &ir.NodeSchema{
		Name: "Mix",
		Properties: []ir.Property{
			ir.EnumProperty{Name: "blend", Options: []string{"mix", "add"}, Default: "add"},
			ir.BoolProperty{Name: "clamp", Default: true},
			ir.BoolProperty{Name: "use alpha"},
			ir.FloatProperty{Name: "factor", Min: 0, Max: 1, Default: 0.25},
		},
	}
	p, err := NewPlan(s, Options{EnumPrefix: "MA_RAMP"})
	require.NoError(t, err)

	frags, err := Update(p)
	require.NoError(t, err)
	assert.Equal(t, `static void node_shader_init_mix(bNodeTree * /*ntree*/, bNode *node)
{
	node->custom1 = MA_RAMP_ADD;
	node->custom2 |= 1 << 0;
	node->custom2 |= 0 << 1;
	node->custom3 = 0.25f;
}
`, frags[0].Text)
	assert.Empty(t, frags[1].Text)
}

func TestImplicitEnumDefault(t *testing.T) {
	s := dropdownsNode()
	s.Properties[0] = ir.EnumProperty{Name: "dropdown1", Options: []string{"prop1", "prop2"}}

	r, err := Generate(s, Options{EnumPrefix: "SHD_DD"})
	require.NoError(t, err)

	texts := r.Texts()
	assert.Contains(t, texts[FragInit], "node->custom1 = SHD_DD_PROP1;\n")
	assert.NotContains(t, texts[FragInit], "= _;")
	assert.Contains(t, texts[FragShader], `string dropdown1 = "prop1"`)
	assert.Equal(t, ir.MustSchemaHash(dropdownsNode()), r.SchemaHash)
}

func TestCFloat(t *testing.T) {
	assert.Equal(t, "0.0f", cFloat(0))
	assert.Equal(t, "1.0f", cFloat(1))
	assert.Equal(t, "0.25f", cFloat(0.25))
	assert.Equal(t, "-2.5f", cFloat(-2.5))
	assert.Equal(t, "0.1", oslFloat(0.1))
}
