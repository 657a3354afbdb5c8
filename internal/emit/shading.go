package emit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/nodegen/internal/ir"
)

// Shading renders the shader source for the text shading language backend
// and the compile-side parameter binding.
func Shading(p *Plan) ([]Fragment, error) {
	return []Fragment{
		{Backend: BackendShading, Name: FragShader, Text: shaderSource(p)},
		{Backend: BackendShading, Name: FragShaderCompile, Text: shaderCompile(p)},
	}, nil
}

func shaderName(p *Plan) string {
	return "node_" + p.ident()
}

func shaderSource(p *Plan) string {
	s := p.Schema

	var params []string
	if s.Category == ir.CategoryTexture {
		params = append(params,
			"int use_mapping = 0",
			"matrix mapping = matrix(0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0)")
	}
	for _, prop := range s.Properties {
		params = append(params, shaderProperty(prop))
	}
	for _, sock := range s.Inputs() {
		params = append(params, fmt.Sprintf("%s %s = %s", shaderType(sock.Kind), ir.PascalName(sock.Name), shaderSocketDefault(sock)))
	}
	for _, sock := range s.Outputs() {
		params = append(params, fmt.Sprintf("output %s %s = %s", shaderType(sock.Kind), ir.PascalName(sock.Name), shaderZero(sock.Kind)))
	}

	var w writer
	w.line(`#include "stdcycles.h"`)
	w.blank()

	head := "shader " + shaderName(p) + "("
	cont := strings.Repeat(" ", len(head))
	if len(params) == 0 {
		w.line("%s)", head)
	}
	for i, param := range params {
		prefix := cont
		if i == 0 {
			prefix = head
		}
		end := ","
		if i == len(params)-1 {
			end = ")"
		}
		w.line("%s%s%s", prefix, param, end)
	}

	w.line("{")
	w.push()
	for _, sock := range s.Outputs() {
		w.line("%s = %s;", ir.PascalName(sock.Name), shaderZero(sock.Kind))
	}
	w.pop()
	w.line("}")
	return w.String()
}

func shaderProperty(prop ir.Property) string {
	name := ir.Identifier(prop.PropertyName())
	switch prop := prop.(type) {
	case ir.EnumProperty:
		return fmt.Sprintf("string %s = %s", name, strconv.Quote(prop.DefaultOption()))
	case ir.BoolProperty:
		return fmt.Sprintf("int %s = %s", name, cBool(prop.Default))
	case ir.IntProperty:
		return fmt.Sprintf("int %s = %d", name, prop.Default)
	case ir.FloatProperty:
		return fmt.Sprintf("float %s = %s", name, oslFloat(prop.Default))
	case ir.StringProperty:
		return fmt.Sprintf("string %s = %s", name, strconv.Quote(prop.Default))
	case ir.VectorProperty:
		return fmt.Sprintf("vector %s = %s", name, shaderTuple("vector", prop.Default[:]))
	case ir.ColorProperty:
		return fmt.Sprintf("color %s = %s", name, shaderTuple("color", prop.Default[:3]))
	default:
		return ""
	}
}

func shaderType(k ir.Kind) string {
	switch k {
	case ir.KindInt, ir.KindBool:
		return "int"
	case ir.KindVector:
		return "vector"
	case ir.KindColor:
		return "color"
	default:
		return "float"
	}
}

func shaderZero(k ir.Kind) string {
	switch k {
	case ir.KindInt, ir.KindBool:
		return "0"
	case ir.KindVector:
		return "vector(0.0)"
	case ir.KindColor:
		return "color(0.0)"
	default:
		return "0.0"
	}
}

func shaderSocketDefault(sock ir.Socket) string {
	if sock.Default == nil {
		return shaderZero(sock.Kind)
	}
	switch sock.Kind {
	case ir.KindInt, ir.KindBool:
		return strconv.FormatInt(int64(sock.DefaultScalar()), 10)
	case ir.KindVector, ir.KindColor:
		vals := sock.Default.Value
		if len(vals) > 3 {
			vals = vals[:3]
		}
		return shaderTuple(shaderType(sock.Kind), vals)
	default:
		return oslFloat(sock.DefaultScalar())
	}
}

func shaderTuple(typ string, vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = oslFloat(v)
	}
	return fmt.Sprintf("%s(%s)", typ, strings.Join(parts, ", "))
}

func shaderCompile(p *Plan) string {
	var w writer
	w.line("void %s::compile(OSLCompiler &compiler)", p.className())
	w.line("{")
	w.push()
	if p.Schema.Category == ir.CategoryTexture {
		w.line("tex_mapping.compile(compiler);")
	}
	for _, prop := range p.Schema.Properties {
		w.line("compiler.parameter(this, %q);", ir.Identifier(prop.PropertyName()))
	}
	w.line("compiler.add(this, %q);", shaderName(p))
	w.pop()
	w.line("}")
	return w.String()
}
