package packing

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nodegen/internal/ir"
)

func TestEncodeExpression(t *testing.T) {
	words, err := Pack(itemsOf("bbbfs"))
	require.NoError(t, err)
	require.Len(t, words, 3)

	assert.Equal(t, "compiler.encode_uchar4(b0, b1, b2)", EncodeExpression(words[0]))
	assert.Equal(t, "__float_as_int(f3)", EncodeExpression(words[1]))
	assert.Equal(t, "s4_stack_offset", EncodeExpression(words[2]))
}

func TestEncodeArityMatchesItemCount(t *testing.T) {
	for k := 1; k <= BytesPerWord; k++ {
		words, err := Pack(itemsOf(strings.Repeat("b", k)))
		require.NoError(t, err)
		expr := EncodeExpression(words[0])
		assert.Equal(t, k, strings.Count(expr, ",")+1, expr)
	}
}

func TestDecodeStatements(t *testing.T) {
	words, err := Pack(itemsOf("bbfs"))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"uint b0, b1;",
		"svm_unpack_node_uchar2(node.y, &b0, &b1);",
		"float f2 = __uint_as_float(node.z);",
		"uint s3_stack_offset = node.w;",
	}, Decode(words))

	assert.Equal(t, []string{"compiler.encode_uchar4(b0, b1)", "__float_as_int(f2)", "s3_stack_offset"}, Encode(words))
}

var decodedName = regexp.MustCompile(`&(\w+)|(?:uint|float) (\w+) =`)

// decodedNames extracts the names bound by decode statements, in order.
func decodedNames(stmts []string) []string {
	var names []string
	for _, stmt := range stmts {
		for _, m := range decodedName.FindAllStringSubmatch(stmt, -1) {
			if m[1] != "" {
				names = append(names, m[1])
			} else {
				names = append(names, m[2])
			}
		}
	}
	return names
}

func TestDecodeRoundTrip(t *testing.T) {
	shapes := []string{
		"b", "f", "s", "bbbb", "bbbbbbbbbbbb", "bbbbbbbbf", "fbbbbbbbb",
		"bfs", "sss", "bbbbs", "sbbbbbbbb", "bbfbb",
	}

	for _, shape := range shapes {
		t.Run(shape, func(t *testing.T) {
			items := itemsOf(shape)
			words, err := Pack(items)
			require.NoError(t, err)

			want := make([]string, len(items))
			for i, item := range items {
				want[i] = item.Name
			}
			assert.Equal(t, want, decodedNames(Decode(words)))
		})
	}
}

func floatNode(inputs ...string) *ir.NodeSchema {
	s := &ir.NodeSchema{Name: "Math"}
	for _, name := range inputs {
		s.Sockets = append(s.Sockets, ir.Socket{Name: name, Direction: ir.DirIn, Kind: ir.KindFloat})
	}
	s.Sockets = append(s.Sockets,
		ir.Socket{Name: "Vector", Direction: ir.DirIn, Kind: ir.KindVector},
		ir.Socket{Name: "Value", Direction: ir.DirOut, Kind: ir.KindFloat},
	)
	return s
}

func TestFloatOptimisationGroupsOfFour(t *testing.T) {
	s := floatNode("A", "B", "C", "D", "E")

	stmts := FloatOptimisation(s, nil)
	assert.Equal(t, []string{
		"compiler.add_node(__float_as_int(a), __float_as_int(b), __float_as_int(c), __float_as_int(d));",
		"compiler.add_node(__float_as_int(e));",
	}, stmts)
}

func TestDefaultLoadsPositional(t *testing.T) {
	s := floatNode("A", "B", "C", "D", "E")

	assert.Equal(t, []string{
		"uint4 defaults1 = read_node(kg, &offset);",
		"float a = stack_load_float_default(stack, a_stack_offset, defaults1.x);",
		"float b = stack_load_float_default(stack, b_stack_offset, defaults1.y);",
		"float c = stack_load_float_default(stack, c_stack_offset, defaults1.z);",
		"float d = stack_load_float_default(stack, d_stack_offset, defaults1.w);",
		"uint4 defaults2 = read_node(kg, &offset);",
		"float e = stack_load_float_default(stack, e_stack_offset, defaults2.x);",
	}, DefaultLoads(s, nil))
}

func TestFloatOptimisationSkipsCarriedSockets(t *testing.T) {
	s := floatNode("Scale", "Fac")
	s.Properties = []ir.Property{ir.FloatProperty{Name: "scale"}}

	words, err := Pack(itemsOf("f"))
	require.NoError(t, err)
	words[0].Items[0].Name = "scale"

	assert.Equal(t, []string{"compiler.add_node(__float_as_int(fac));"}, FloatOptimisation(s, words))
	assert.Equal(t, []string{
		"uint4 defaults1 = read_node(kg, &offset);",
		"float fac = stack_load_float_default(stack, fac_stack_offset, defaults1.x);",
		"scale = stack_load_float_default(stack, scale_stack_offset, __float_as_uint(scale));",
	}, DefaultLoads(s, words))
}

func TestDefaultWordsMatchTrailingStatements(t *testing.T) {
	for n := 0; n <= 9; n++ {
		names := make([]string, n)
		for i := range names {
			names[i] = string(rune('A' + i))
		}
		s := floatNode(names...)

		loads := DefaultLoads(s, nil)
		reads := 0
		for _, l := range loads {
			if strings.Contains(l, "read_node") {
				reads++
			}
		}
		assert.Equal(t, len(FloatOptimisation(s, nil)), reads, "n=%d", n)
	}
}

func TestNoFloatInputsNoDefaults(t *testing.T) {
	s := floatNode()
	assert.Empty(t, FloatOptimisation(s, nil))
	assert.Empty(t, DefaultLoads(s, nil))
}
