package emit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/nodegen/internal/availability"
	"github.com/roach88/nodegen/internal/ir"
	"github.com/roach88/nodegen/internal/layout"
)

// Update renders the UI callbacks: init stores every property default in
// its planned location, update recomputes socket availability.
func Update(p *Plan) ([]Fragment, error) {
	upd, err := updateFunc(p)
	if err != nil {
		return nil, err
	}
	return []Fragment{
		{Backend: BackendUI, Name: FragInit, Text: initFunc(p)},
		{Backend: BackendUI, Name: FragUpdate, Text: upd},
	}, nil
}

func initFunc(p *Plan) string {
	l := p.Layout
	var w writer
	w.line("static void node_shader_init_%s(bNodeTree * /*ntree*/, bNode *%s)", p.ident(), layout.NodeVar)
	w.line("{")
	w.push()

	if l.Strategy == layout.StrategyInline {
		for _, prop := range p.Schema.Properties {
			slot, ok := l.Slots.Lookup(prop.PropertyName())
			if !ok {
				continue
			}
			w.line("%s", slot.Write(layout.NodeVar, defaultLiteral(p, prop)))
		}
	} else {
		w.line("%[1]s *%[2]s = MEM_cnew<%[1]s>(__func__);", l.StructName, layout.StorageVar)
		if l.TextureBase {
			w.line("BKE_texture_mapping_default(&%s->base.tex_mapping, TEXMAP_TYPE_POINT);", layout.StorageVar)
			w.line("BKE_texture_colormapping_default(&%s->base.color_mapping);", layout.StorageVar)
		}
		for _, f := range l.Fields {
			w.line("%s", structDefault(p, f))
		}
		w.line("%s->storage = %s;", layout.NodeVar, layout.StorageVar)
	}

	w.pop()
	w.line("}")
	return w.String()
}

// defaultLiteral renders a scalar property default.
func defaultLiteral(p *Plan, prop ir.Property) string {
	switch prop := prop.(type) {
	case ir.EnumProperty:
		return ir.EnumConstant(p.Options.EnumPrefix, prop.DefaultOption())
	case ir.BoolProperty:
		return cBool(prop.Default)
	case ir.IntProperty:
		return strconv.FormatInt(prop.Default, 10)
	case ir.FloatProperty:
		return cFloat(prop.Default)
	default:
		return ""
	}
}

func structDefault(p *Plan, f layout.Field) string {
	member := layout.StorageVar + "->" + f.Name
	switch prop := f.Property.(type) {
	case ir.StringProperty:
		return fmt.Sprintf("STRNCPY(%s, %s);", member, strconv.Quote(prop.Default))
	case ir.VectorProperty:
		return fmt.Sprintf("copy_v3_fl3(%s, %s);", member, cFloats(prop.Default[:]))
	case ir.ColorProperty:
		return fmt.Sprintf("copy_v4_fl4(%s, %s);", member, cFloats(prop.Default[:]))
	default:
		return fmt.Sprintf("%s = %s;", member, defaultLiteral(p, f.Property))
	}
}

func cFloats(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = cFloat(v)
	}
	return strings.Join(parts, ", ")
}

func updateFunc(p *Plan) (string, error) {
	var body strings.Builder
	for _, g := range p.Guards {
		stmt, err := availability.Statement(p.Schema, p.Layout, g, p.Literals())
		if err != nil {
			return "", err
		}
		body.WriteString(stmt)
	}
	if body.Len() == 0 {
		return "", nil
	}

	var w writer
	w.line("static void node_shader_update_%s(bNodeTree *%s, bNode *%s)", p.ident(), availability.TreeVar, layout.NodeVar)
	w.line("{")
	w.push()
	w.block(body.String())
	w.pop()
	w.line("}")
	return w.String(), nil
}
