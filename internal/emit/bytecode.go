package emit

import (
	"fmt"
	"strings"

	"github.com/roach88/nodegen/internal/ir"
	"github.com/roach88/nodegen/internal/packing"
)

// Bytecode renders the virtual machine fragments: the node type
// registration, the interpreter dispatch case, the compile-side encoder and
// the kernel-side decoder.
func Bytecode(p *Plan) ([]Fragment, error) {
	return []Fragment{
		{Backend: BackendBytecode, Name: FragNodeType, Text: p.NodeType() + ",\n"},
		{Backend: BackendBytecode, Name: FragDispatch, Text: bytecodeDispatch(p)},
		{Backend: BackendBytecode, Name: FragCompile, Text: bytecodeCompile(p)},
		{Backend: BackendBytecode, Name: FragKernel, Text: bytecodeKernel(p)},
	}, nil
}

func kernelFunc(p *Plan) string {
	return "svm_node_" + p.ident()
}

func bytecodeDispatch(p *Plan) string {
	var w writer
	w.line("case %s:", p.NodeType())
	w.push()
	w.line("offset = %s(kg, sd, stack, node, offset);", kernelFunc(p))
	w.line("break;")
	return w.String()
}

func bytecodeCompile(p *Plan) string {
	s := p.Schema
	var w writer
	w.line("void %s::compile(SVMCompiler &compiler)", p.className())
	w.line("{")
	w.push()

	for _, sock := range s.Sockets {
		if sock.Direction == ir.DirIn {
			w.line("ShaderInput *%s_in = input(%q);", sock.Identifier(), sock.Name)
		} else {
			w.line("ShaderOutput *%s_out = output(%q);", sock.Identifier(), sock.Name)
		}
	}
	if len(s.Sockets) > 0 {
		w.blank()
	}
	for _, sock := range s.Sockets {
		suffix := "_in"
		if sock.Direction == ir.DirOut {
			suffix = "_out"
		}
		w.line("int %s = compiler.stack_assign(%s%s);", packing.StackOffset(sock), sock.Identifier(), suffix)
	}
	if len(s.Sockets) > 0 {
		w.blank()
	}

	args := append([]string{p.NodeType()}, packing.Encode(p.Words)...)
	w.line("compiler.add_node(%s);", strings.Join(args, ", "))
	w.lines(packing.FloatOptimisation(s, p.Words))

	w.pop()
	w.line("}")
	return w.String()
}

func bytecodeKernel(p *Plan) string {
	s := p.Schema
	var w writer
	w.line("ccl_device_noinline int %s(KernelGlobals kg, ccl_private ShaderData *sd, ccl_private float *stack, uint4 node, int offset)", kernelFunc(p))
	w.line("{")
	w.push()

	w.lines(packing.Decode(p.Words))
	w.lines(packing.DefaultLoads(s, p.Words))
	for _, sock := range s.Inputs() {
		if load := stackLoad(sock); load != "" {
			w.line("%s", load)
		}
	}

	if outputs := s.Outputs(); len(outputs) > 0 {
		w.blank()
		for _, sock := range outputs {
			w.line("if (stack_valid(%s)) {", packing.StackOffset(sock))
			w.push()
			w.line("%s", stackStore(sock))
			w.pop()
			w.line("}")
		}
	}

	w.line("return offset;")
	w.pop()
	w.line("}")
	return w.String()
}

// stackLoad reads a non-float input socket from the value stack. Float
// inputs are loaded with their defaults by packing.DefaultLoads.
func stackLoad(sock ir.Socket) string {
	off := packing.StackOffset(sock)
	switch sock.Kind {
	case ir.KindVector, ir.KindColor:
		return fmt.Sprintf("float3 %s = stack_load_float3(stack, %s);", sock.Identifier(), off)
	case ir.KindInt:
		return fmt.Sprintf("int %s = stack_load_int(stack, %s);", sock.Identifier(), off)
	case ir.KindBool:
		return fmt.Sprintf("float %s = stack_load_float(stack, %s);", sock.Identifier(), off)
	default:
		return ""
	}
}

func stackStore(sock ir.Socket) string {
	off := packing.StackOffset(sock)
	switch sock.Kind {
	case ir.KindVector, ir.KindColor:
		return fmt.Sprintf("stack_store_float3(stack, %s, zero_float3());", off)
	case ir.KindInt:
		return fmt.Sprintf("stack_store_int(stack, %s, 0);", off)
	default:
		return fmt.Sprintf("stack_store_float(stack, %s, 0.0f);", off)
	}
}
