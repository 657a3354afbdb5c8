package packing

import (
	"fmt"
	"strings"

	"github.com/roach88/nodegen/internal/ir"
)

// EncodeExpression renders the compile-side expression producing one word.
// A byte word of k items becomes an encode call with exactly k arguments;
// a full word is the bare item expression.
func EncodeExpression(w Word) string {
	if w.Kind == WordFull {
		return w.Items[0].Expr()
	}
	args := make([]string, len(w.Items))
	for i, item := range w.Items {
		args[i] = item.Expr()
	}
	return fmt.Sprintf("compiler.encode_uchar4(%s)", strings.Join(args, ", "))
}

// DecodeStatements renders the kernel-side statements reading word index
// (0 for node.y) back into named locals.
func DecodeStatements(w Word, index int) []string {
	field := "node." + headerFields[index]

	if w.Kind == WordFull {
		item := w.Items[0]
		if item.Kind == ItemFloat {
			return []string{fmt.Sprintf("float %s = __uint_as_float(%s);", item.Name, field)}
		}
		return []string{fmt.Sprintf("uint %s = %s;", item.Name, field)}
	}

	names := w.Names()
	refs := make([]string, len(names))
	for i, n := range names {
		refs[i] = "&" + n
	}
	return []string{
		fmt.Sprintf("uint %s;", strings.Join(names, ", ")),
		fmt.Sprintf("svm_unpack_node_uchar%d(%s, %s);", len(names), field, strings.Join(refs, ", ")),
	}
}

// Decode renders the decode statements of every word in header order.
func Decode(words []Word) []string {
	var out []string
	for i, w := range words {
		out = append(out, DecodeStatements(w, i)...)
	}
	return out
}

// Encode renders the encode expression of every word in header order.
func Encode(words []Word) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = EncodeExpression(w)
	}
	return out
}

var defaultFields = [BytesPerWord]string{"x", "y", "z", "w"}

// floatDefaults splits the float input sockets into those whose default
// travels in extra trailing words and those already carried by a
// full-word float property of the same identifier.
func floatDefaults(s *ir.NodeSchema, words []Word) (trailing, carried []ir.Socket) {
	full := make(map[string]bool)
	for _, w := range words {
		if w.Kind == WordFull && w.Items[0].Kind == ItemFloat {
			full[w.Items[0].Name] = true
		}
	}
	for _, sock := range s.Inputs() {
		if sock.Kind != ir.KindFloat {
			continue
		}
		if full[sock.Identifier()] {
			carried = append(carried, sock)
		} else {
			trailing = append(trailing, sock)
		}
	}
	return trailing, carried
}

// FloatOptimisation renders the trailing compile-side statements that
// append float input defaults to the instruction stream, four per
// statement in declaration order. The kernel reads them back with
// DefaultLoads instead of going through the value stack.
func FloatOptimisation(s *ir.NodeSchema, words []Word) []string {
	trailing, _ := floatDefaults(s, words)

	var out []string
	for start := 0; start < len(trailing); start += BytesPerWord {
		end := min(start+BytesPerWord, len(trailing))
		args := make([]string, 0, end-start)
		for _, sock := range trailing[start:end] {
			args = append(args, fmt.Sprintf("__float_as_int(%s)", sock.Identifier()))
		}
		out = append(out, fmt.Sprintf("compiler.add_node(%s);", strings.Join(args, ", ")))
	}
	return out
}

// DefaultLoads renders the kernel-side loads of float input sockets.
// Trailing defaults consume one extra default word per four sockets and are
// read positionally (x, y, z, w). Sockets whose value already arrived as a
// full-word property use that value as their default.
func DefaultLoads(s *ir.NodeSchema, words []Word) []string {
	trailing, carried := floatDefaults(s, words)

	var out []string
	for i, sock := range trailing {
		group := i/BytesPerWord + 1
		if i%BytesPerWord == 0 {
			out = append(out, fmt.Sprintf("uint4 defaults%d = read_node(kg, &offset);", group))
		}
		out = append(out, fmt.Sprintf("float %s = stack_load_float_default(stack, %s, defaults%d.%s);",
			sock.Identifier(), StackOffset(sock), group, defaultFields[i%BytesPerWord]))
	}
	for _, sock := range carried {
		out = append(out, fmt.Sprintf("%[1]s = stack_load_float_default(stack, %[2]s, __float_as_uint(%[1]s));",
			sock.Identifier(), StackOffset(sock)))
	}
	return out
}
