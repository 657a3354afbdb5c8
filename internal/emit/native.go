package emit

import (
	"fmt"

	"github.com/roach88/nodegen/internal/ir"
	"github.com/roach88/nodegen/internal/layout"
)

// Native renders the enum constants and, for struct storage, the
// fixed-layout storage struct. The struct ends with explicit padding so
// its size is a multiple of layout.StructAlign.
func Native(p *Plan) ([]Fragment, error) {
	return []Fragment{
		{Backend: BackendNative, Name: FragEnums, Text: nativeEnums(p)},
		{Backend: BackendNative, Name: FragStruct, Text: nativeStruct(p)},
	}, nil
}

func nativeEnums(p *Plan) string {
	var w writer
	first := true
	for _, prop := range p.Schema.Properties {
		enum, ok := prop.(ir.EnumProperty)
		if !ok {
			continue
		}
		if !first {
			w.blank()
		}
		first = false

		w.line("/* %s */", enum.Name)
		w.line("enum {")
		w.push()
		for i, opt := range enum.Options {
			w.line("%s = %d,", ir.EnumConstant(p.Options.EnumPrefix, opt), i)
		}
		w.pop()
		w.line("};")
	}
	return w.String()
}

func nativeStruct(p *Plan) string {
	l := p.Layout
	if l.Strategy != layout.StrategyStruct {
		return ""
	}

	var w writer
	w.line("typedef struct %s {", l.StructName)
	w.push()
	if l.TextureBase {
		w.line("NodeTexBase base;")
	}
	for _, f := range l.Fields {
		w.line("%s;", nativeField(f))
	}
	if l.Padding > 0 {
		w.line("char _pad[%d];", l.Padding)
	}
	w.pop()
	w.line("} %s;", l.StructName)
	return w.String()
}

func nativeField(f layout.Field) string {
	switch f.Property.(type) {
	case ir.FloatProperty:
		return "float " + f.Name
	case ir.VectorProperty, ir.ColorProperty:
		return fmt.Sprintf("float %s[%d]", f.Name, ir.FloatComponents(f.Property))
	case ir.StringProperty:
		return fmt.Sprintf("char %s[%d]", f.Name, f.Size)
	default:
		return "int " + f.Name
	}
}
